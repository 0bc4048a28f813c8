package usecase

import (
	"github.com/macrolens/shelflife/internal/domain"
)

// Matcher resolves query terms against a SearchIndex.
//
// Strategies run in a fixed order per term: Exact (name equality), Keyword
// (keyword equality) and Fuzzy (substring containment in either direction).
// The first hit wins; candidates are never scored or ranked, so the result
// only depends on the order of attempt and the dataset order.
type Matcher struct {
	index *SearchIndex
}

// NewMatcher creates a matcher over index
func NewMatcher(index *SearchIndex) *Matcher {
	return &Matcher{index: index}
}

// Index returns the underlying search index
func (m *Matcher) Index() *SearchIndex {
	return m.index
}

// Match tries primary and then each variant in order, stopping at the first success.
// domain.NoMatch is returned when every strategy failed for every term.
func (m *Matcher) Match(primary string, variants ...string) domain.Match {
	match, _ := m.matchTerms(primary, variants, func(term string) (domain.Match, error) {
		return m.MatchTerm(term), nil
	})
	return match
}

// MatchTerm runs Exact, Keyword and Fuzzy for a single term
func (m *Matcher) MatchTerm(term string) domain.Match {
	normalized := normalizeTerm(term)
	pos, matchType, ok := m.resolve(normalized)
	if !ok {
		return domain.NoMatch
	}
	return m.matchAt(pos, matchType, normalized)
}

// matchTerms walks primary then variants, handing each term to matchTerm.
// It stops at the first found match or the first error.
func (m *Matcher) matchTerms(primary string, variants []string, matchTerm func(term string) (domain.Match, error)) (domain.Match, error) {
	terms := append([]string{primary}, variants...)
	for _, term := range terms {
		match, err := matchTerm(term)
		if err != nil {
			return domain.NoMatch, err
		}
		if match.Found() {
			return match, nil
		}
	}
	return domain.NoMatch, nil
}

// matchAt builds the match for the record at dataset position pos
func (m *Matcher) matchAt(pos int, matchType domain.MatchType, term string) domain.Match {
	rec, ok := m.index.At(pos)
	if !ok {
		return domain.NoMatch
	}
	return domain.Match{Record: rec, Type: matchType, Term: term}
}

// resolve returns the dataset position and strategy that matched a normalized term
func (m *Matcher) resolve(term string) (int, domain.MatchType, bool) {
	if term == "" {
		return 0, "", false
	}
	if pos, ok := m.index.lookupName(term); ok {
		return pos, domain.MatchExact, true
	}
	if pos, ok := m.index.lookupKeyword(term); ok {
		return pos, domain.MatchKeyword, true
	}
	if pos, ok := m.index.scanContains(term); ok {
		return pos, domain.MatchFuzzy, true
	}
	return 0, "", false
}
