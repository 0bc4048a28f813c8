package foodkeeper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/macrolens/shelflife/internal/domain"
)

// Sheet names used by the FSIS workbook export
const (
	sheetProduct  = "Product"
	sheetCategory = "Category"
)

// displayRangeRegex parses FoodKeeper display values such as "5-7 Days" or "1 Year"
var displayRangeRegex = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*(?:-\s*(\d+(?:\.\d+)?))?\s+([A-Za-z][A-Za-z ]*?)\s*$`)

// Decode converts a raw FoodKeeper document into records, preserving dataset order.
// Three shapes are accepted: a bare record array, the flat {"product_data": [...]}
// export and the FSIS {"sheets": [...]} workbook export.
func Decode(data []byte) ([]domain.FoodRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrDatasetMalformed)
	}

	var (
		records []domain.FoodRecord
		err     error
	)
	switch trimmed[0] {
	case '[':
		records, err = decodeRecordArray(trimmed)
	case '{':
		records, err = decodeObject(trimmed)
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", domain.ErrDatasetMalformed)
	}
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = strconv.Itoa(i + 1)
		}
	}
	return records, nil
}

func decodeObject(data []byte) ([]domain.FoodRecord, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetMalformed, err)
	}

	if raw, ok := top["product_data"]; ok {
		return decodeProductData(raw)
	}
	if raw, ok := top["sheets"]; ok {
		return decodeWorkbook(raw)
	}
	return nil, fmt.Errorf("%w: object has neither product_data nor sheets", domain.ErrDatasetMalformed)
}

// --- record array ---

type rawRange struct {
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
	Unit string   `json:"unit"`
}

type rawRecord struct {
	ID           flexString  `json:"id"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Subcategory  string      `json:"subcategory"`
	Keywords     keywordList `json:"keywords"`
	Refrigerator *rawRange   `json:"refrigerator"`
	Refrigerate  *rawRange   `json:"refrigerate"`
	Freezer      *rawRange   `json:"freezer"`
	Freeze       *rawRange   `json:"freeze"`
	Pantry       *rawRange   `json:"pantry"`
}

func decodeRecordArray(data []byte) ([]domain.FoodRecord, error) {
	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetMalformed, err)
	}

	records := make([]domain.FoodRecord, 0, len(raws))
	for _, r := range raws {
		records = append(records, domain.FoodRecord{
			ID:          string(r.ID),
			Name:        strings.TrimSpace(r.Name),
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Keywords:    []string(r.Keywords),
			Refrigerate: mapRange(firstRange(r.Refrigerator, r.Refrigerate)),
			Freeze:      mapRange(firstRange(r.Freezer, r.Freeze)),
			Pantry:      mapRange(r.Pantry),
		})
	}
	return records, nil
}

func firstRange(ranges ...*rawRange) *rawRange {
	for _, r := range ranges {
		if r != nil {
			return r
		}
	}
	return nil
}

func mapRange(r *rawRange) *domain.ShelfLife {
	if r == nil || (r.Min == nil && r.Max == nil) {
		return nil
	}
	return newShelfLife(r.Min, r.Max, r.Unit)
}

func newShelfLife(lo, hi *float64, unit string) *domain.ShelfLife {
	life := &domain.ShelfLife{Unit: strings.TrimSpace(unit)}
	switch {
	case lo != nil && hi != nil:
		life.Min, life.Max = *lo, *hi
	case lo != nil:
		life.Min, life.Max = *lo, *lo
	case hi != nil:
		life.Min, life.Max = *hi, *hi
	}
	return life
}

// --- flat product_data export ---

type rawProduct struct {
	ID                  flexString  `json:"id"`
	Name                string      `json:"name"`
	Keywords            keywordList `json:"keywords"`
	Category            string      `json:"category_name_display_only"`
	Subcategory         string      `json:"subcategory_name_display_only"`
	PurchaseRefrigerate string      `json:"from_date_of_purchase_refrigerate_output_display_only"`
	Refrigerate         string      `json:"refrigerate_output_display_only"`
	PurchaseFreeze      string      `json:"from_date_of_purchase_freeze_output_display_only"`
	Freeze              string      `json:"freeze_output_display_only"`
	PurchasePantry      string      `json:"from_date_of_purchase_pantry_output_display_only"`
	Pantry              string      `json:"pantry_output_display_only"`
}

func decodeProductData(data json.RawMessage) ([]domain.FoodRecord, error) {
	var raws []rawProduct
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: product_data: %v", domain.ErrDatasetMalformed, err)
	}

	records := make([]domain.FoodRecord, 0, len(raws))
	for _, p := range raws {
		records = append(records, domain.FoodRecord{
			ID:          string(p.ID),
			Name:        strings.TrimSpace(p.Name),
			Category:    p.Category,
			Subcategory: p.Subcategory,
			Keywords:    []string(p.Keywords),
			Refrigerate: parseDisplay(firstNonEmpty(p.PurchaseRefrigerate, p.Refrigerate)),
			Freeze:      parseDisplay(firstNonEmpty(p.PurchaseFreeze, p.Freeze)),
			Pantry:      parseDisplay(firstNonEmpty(p.PurchasePantry, p.Pantry)),
		})
	}
	return records, nil
}

// parseDisplay turns "5-7 Days" into a range; unparseable text is kept verbatim
func parseDisplay(s string) *domain.ShelfLife {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	m := displayRangeRegex.FindStringSubmatch(s)
	if m == nil {
		return &domain.ShelfLife{Display: s}
	}

	lo, _ := strconv.ParseFloat(m[1], 64)
	hi := lo
	if m[2] != "" {
		hi, _ = strconv.ParseFloat(m[2], 64)
	}
	return &domain.ShelfLife{Min: lo, Max: hi, Unit: m[3], Display: s}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// --- FSIS workbook export ---

type rawSheet struct {
	Name string                     `json:"name"`
	Data [][]map[string]interface{} `json:"data"`
}

func decodeWorkbook(data json.RawMessage) ([]domain.FoodRecord, error) {
	var sheets []rawSheet
	if err := json.Unmarshal(data, &sheets); err != nil {
		return nil, fmt.Errorf("%w: sheets: %v", domain.ErrDatasetMalformed, err)
	}

	var products []map[string]interface{}
	categories := make(map[string]map[string]interface{})
	foundProducts := false

	for _, sheet := range sheets {
		switch sheet.Name {
		case sheetProduct:
			foundProducts = true
			for _, row := range sheet.Data {
				products = append(products, flattenRow(row))
			}
		case sheetCategory:
			for _, row := range sheet.Data {
				cat := flattenRow(row)
				if id := cellString(cat, "ID"); id != "" {
					categories[id] = cat
				}
			}
		}
	}

	if !foundProducts {
		return nil, fmt.Errorf("%w: workbook has no %s sheet", domain.ErrDatasetMalformed, sheetProduct)
	}

	records := make([]domain.FoodRecord, 0, len(products))
	for _, p := range products {
		rec := domain.FoodRecord{
			ID:          cellString(p, "ID"),
			Name:        cellString(p, "Name"),
			Keywords:    splitKeywords(cellString(p, "Keywords")),
			Refrigerate: workbookRange(p, "Refrigerate"),
			Freeze:      workbookRange(p, "Freeze"),
			Pantry:      workbookRange(p, "Pantry"),
		}
		if cat, ok := categories[cellString(p, "Category_ID")]; ok {
			rec.Category = cellString(cat, "Category_Name")
			rec.Subcategory = cellString(cat, "Subcategory_Name")
		}
		records = append(records, rec)
	}
	return records, nil
}

// flattenRow merges a workbook row of single-key objects into one map
func flattenRow(row []map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{}, len(row))
	for _, cell := range row {
		for k, v := range cell {
			flat[k] = v
		}
	}
	return flat
}

// workbookRange prefers the DOP_ (from date of purchase) columns
func workbookRange(row map[string]interface{}, storage string) *domain.ShelfLife {
	for _, prefix := range []string{"DOP_" + storage, storage} {
		lo := cellFloat(row, prefix+"_Min")
		hi := cellFloat(row, prefix+"_Max")
		if lo == nil && hi == nil {
			continue
		}
		return newShelfLife(lo, hi, cellString(row, prefix+"_Metric"))
	}
	return nil
}

func cellString(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func cellFloat(row map[string]interface{}, key string) *float64 {
	switch v := row[key].(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// --- shared field types ---

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// keywordList accepts either a JSON string array or a comma-separated string
type keywordList []string

func (k *keywordList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*k = splitKeywords(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("keywords must be a string or string array: %w", err)
	}
	cleaned := make([]string, 0, len(list))
	for _, kw := range list {
		if kw = strings.TrimSpace(kw); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	*k = cleaned
	return nil
}

func splitKeywords(s string) []string {
	var keywords []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
