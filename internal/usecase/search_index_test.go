package usecase

import (
	"testing"

	"github.com/macrolens/shelflife/internal/domain"
)

func TestBuildSearchIndex(t *testing.T) {
	idx := BuildSearchIndex(testRecords())

	if idx.Len() != 5 {
		t.Errorf("Len() = %d, want 5", idx.Len())
	}

	t.Run("indexes normalized names", func(t *testing.T) {
		for term, want := range map[string]int{"milk": 0, "cheddar cheese": 1, "ground beef": 3} {
			got, ok := idx.lookupName(term)
			if !ok || got != want {
				t.Errorf("lookupName(%q) = %d, %v; want %d, true", term, got, ok, want)
			}
		}
	})

	t.Run("indexes normalized keywords", func(t *testing.T) {
		got, ok := idx.lookupKeyword("pork belly")
		if !ok || got != 2 {
			t.Errorf("lookupKeyword(pork belly) = %d, %v; want 2, true", got, ok)
		}
	})

	t.Run("skips empty names and keywords", func(t *testing.T) {
		if _, ok := idx.lookupName(""); ok {
			t.Error("empty name was indexed")
		}
		if _, ok := idx.lookupKeyword(""); ok {
			t.Error("empty keyword was indexed")
		}
	})

	t.Run("At bounds", func(t *testing.T) {
		if rec, ok := idx.At(0); !ok || rec.ID != "1" {
			t.Errorf("At(0) = %v, %v; want record 1", rec, ok)
		}
		if _, ok := idx.At(-1); ok {
			t.Error("At(-1) ok = true")
		}
		if _, ok := idx.At(5); ok {
			t.Error("At(5) ok = true")
		}
	})
}

func TestSearchIndexSharedKeywordKeepsDatasetOrder(t *testing.T) {
	idx := BuildSearchIndex([]domain.FoodRecord{
		{ID: "a", Name: "Beef Steak", Keywords: []string{"beef"}},
		{ID: "b", Name: "Beef Roast", Keywords: []string{"beef"}},
	})

	got, ok := idx.lookupKeyword("beef")
	if !ok || got != 0 {
		t.Errorf("lookupKeyword(beef) = %d, %v; want 0, true", got, ok)
	}
	if len(idx.keywords["beef"]) != 2 {
		t.Errorf("keyword beef maps to %d records, want 2", len(idx.keywords["beef"]))
	}
}

func TestSearchIndexFingerprint(t *testing.T) {
	a := BuildSearchIndex(testRecords())
	b := BuildSearchIndex(testRecords())
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("Fingerprint() differs for identical datasets: %s vs %s", a.Fingerprint(), b.Fingerprint())
	}

	changed := testRecords()
	changed[0].Keywords = append(changed[0].Keywords, "2%")
	if BuildSearchIndex(changed).Fingerprint() == a.Fingerprint() {
		t.Error("Fingerprint() unchanged after adding a keyword")
	}

	named := BuildSearchIndex([]domain.FoodRecord{{ID: "1", Name: "milk"}})
	keyworded := BuildSearchIndex([]domain.FoodRecord{{ID: "1", Keywords: []string{"milk"}}})
	if named.Fingerprint() == keyworded.Fingerprint() {
		t.Error("Fingerprint() equal for a name and a keyword with the same text")
	}

	if BuildSearchIndex(nil).Len() != 0 {
		t.Error("empty index has records")
	}
}
