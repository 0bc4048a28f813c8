package domain

import (
	"strconv"
)

// FoodRecord is one product entry from the FoodKeeper dataset.
// Records are immutable once loaded.
type FoodRecord struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	Subcategory string     `json:"subcategory,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	Refrigerate *ShelfLife `json:"refrigerate,omitempty"`
	Freeze      *ShelfLife `json:"freeze,omitempty"`
	Pantry      *ShelfLife `json:"pantry,omitempty"`
}

// ShelfLife is a storage duration range such as "5-7 Days".
// Display carries the source text when the dataset only provides a free-form value.
type ShelfLife struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Unit    string  `json:"unit,omitempty"`
	Display string  `json:"display,omitempty"`
}

// String renders the range the way FoodKeeper displays it.
func (s *ShelfLife) String() string {
	if s == nil {
		return ""
	}
	if s.Unit == "" && s.Display != "" {
		return s.Display
	}

	amount := formatAmount(s.Max)
	if s.Min != s.Max && s.Min != 0 {
		amount = formatAmount(s.Min) + "-" + amount
	}
	if s.Unit == "" {
		return amount
	}
	return amount + " " + s.Unit
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// TestItem is a grocery item the validation run tries to resolve.
type TestItem struct {
	Name     string
	Category string
	Variants []string
}
