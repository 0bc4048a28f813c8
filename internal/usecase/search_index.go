package usecase

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/macrolens/shelflife/internal/domain"
)

// SearchIndex maps normalized names and keywords to the records that carry them.
// It is built once per run and read-only afterwards.
type SearchIndex struct {
	records     []*domain.FoodRecord
	fuzzyKeys   [][]string // normalized name then keywords, per record
	names       map[string][]int
	keywords    map[string][]int
	fingerprint string
}

// BuildSearchIndex indexes records by normalized name and keyword.
// Empty names and keywords produce no key.
func BuildSearchIndex(records []domain.FoodRecord) *SearchIndex {
	idx := &SearchIndex{
		records:   make([]*domain.FoodRecord, len(records)),
		fuzzyKeys: make([][]string, len(records)),
		names:     make(map[string][]int),
		keywords:  make(map[string][]int),
	}

	h := fnv.New64a()
	for i := range records {
		rec := &records[i]
		idx.records[i] = rec

		// Each field is tagged so a name and an equal keyword hash differently.
		h.Write([]byte(rec.ID))

		var keys []string
		name := normalizeTerm(rec.Name)
		h.Write([]byte{0, 'n'})
		h.Write([]byte(name))
		if name != "" {
			idx.names[name] = append(idx.names[name], i)
			keys = append(keys, name)
		}
		for _, kw := range rec.Keywords {
			kw = normalizeTerm(kw)
			if kw == "" {
				continue
			}
			h.Write([]byte{0, 'k'})
			h.Write([]byte(kw))
			idx.keywords[kw] = append(idx.keywords[kw], i)
			keys = append(keys, kw)
		}
		idx.fuzzyKeys[i] = keys
		h.Write([]byte{'\n'})
	}
	idx.fingerprint = strconv.FormatUint(h.Sum64(), 16)

	return idx
}

// normalizeTerm lower-cases and trims a name, keyword or query
func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Len returns the number of indexed records
func (idx *SearchIndex) Len() int {
	return len(idx.records)
}

// Fingerprint identifies the indexed content; it changes whenever ids, names or keywords do
func (idx *SearchIndex) Fingerprint() string {
	return idx.fingerprint
}

// At returns the record at dataset position i
func (idx *SearchIndex) At(i int) (*domain.FoodRecord, bool) {
	if i < 0 || i >= len(idx.records) {
		return nil, false
	}
	return idx.records[i], true
}

// lookupName returns the dataset position of the first record named term
func (idx *SearchIndex) lookupName(term string) (int, bool) {
	positions := idx.names[term]
	if len(positions) == 0 {
		return 0, false
	}
	return positions[0], true
}

// lookupKeyword returns the dataset position of the first record listing keyword term
func (idx *SearchIndex) lookupKeyword(term string) (int, bool) {
	positions := idx.keywords[term]
	if len(positions) == 0 {
		return 0, false
	}
	return positions[0], true
}

// scanContains returns the first record, in dataset order, whose name or a keyword
// contains term or is contained in it
func (idx *SearchIndex) scanContains(term string) (int, bool) {
	for i, keys := range idx.fuzzyKeys {
		for _, key := range keys {
			if strings.Contains(key, term) || strings.Contains(term, key) {
				return i, true
			}
		}
	}
	return 0, false
}
