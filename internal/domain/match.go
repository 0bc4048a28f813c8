package domain

import "encoding/json"

// MatchType names the strategy that resolved a term.
type MatchType string

const (
	MatchExact   MatchType = "Exact"
	MatchKeyword MatchType = "Keyword"
	MatchFuzzy   MatchType = "Fuzzy"
)

// MatchTypes lists the strategies in the order they are attempted.
var MatchTypes = []MatchType{MatchExact, MatchKeyword, MatchFuzzy}

// MarshalJSON encodes the zero MatchType as null.
func (t MatchType) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// UnmarshalJSON accepts null as the zero MatchType.
func (t *MatchType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = MatchType(s)
	return nil
}

// Match is the result of resolving a query against the index.
// The zero value is the unmatched sentinel.
type Match struct {
	Record *FoodRecord
	Type   MatchType
	Term   string
}

// NoMatch is returned when every strategy failed for every term.
var NoMatch = Match{}

// Found reports whether a record was resolved.
func (m Match) Found() bool {
	return m.Record != nil
}

// StorageInfo holds the shelf-life fields extracted from a matched record.
type StorageInfo struct {
	Refrigerate string `json:"refrigerate,omitempty"`
	Freeze      string `json:"freeze,omitempty"`
	Pantry      string `json:"pantry,omitempty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// MatchOutcome is the per-item result of a validation run.
type MatchOutcome struct {
	TestItem       string       `json:"test_item"`
	Category       string       `json:"category"`
	Matched        bool         `json:"matched"`
	FoodKeeperID   string       `json:"foodkeeper_id,omitempty"`
	FoodKeeperName string       `json:"foodkeeper_name,omitempty"`
	MatchType      MatchType    `json:"match_type"`
	MatchedTerm    string       `json:"matched_term,omitempty"`
	ShelfLife      *StorageInfo `json:"shelf_life,omitempty"`
}

// NewMatchOutcome builds the outcome for item from match.
func NewMatchOutcome(item TestItem, match Match) MatchOutcome {
	outcome := MatchOutcome{
		TestItem: item.Name,
		Category: item.Category,
	}
	if !match.Found() {
		return outcome
	}

	rec := match.Record
	outcome.Matched = true
	outcome.FoodKeeperID = rec.ID
	outcome.FoodKeeperName = rec.Name
	outcome.MatchType = match.Type
	outcome.MatchedTerm = match.Term
	outcome.ShelfLife = &StorageInfo{
		Refrigerate: rec.Refrigerate.String(),
		Freeze:      rec.Freeze.String(),
		Pantry:      rec.Pantry.String(),
		Category:    rec.Category,
		Subcategory: rec.Subcategory,
	}
	return outcome
}

// RunSummary aggregates the outcomes of one validation run.
type RunSummary struct {
	Total           int
	Matched         int
	Unmatched       int
	Rate            float64 // matched/total, 0 when total is 0
	Threshold       float64
	PassesThreshold bool
	MatchTypes      map[MatchType]int
	Outcomes        []MatchOutcome
}

// RatePercent returns the match rate as a percentage.
func (s *RunSummary) RatePercent() float64 {
	return s.Rate * 100
}
