package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const maxQueryLength = 100

var (
	// "128 fl oz", "12 oz", "1.5 liter", "2 lb", "500 g"
	sizeQuantityPattern = regexp.MustCompile(`\b\d+(\.\d+)?\s*(fl\s*oz|oz|ounces?|lbs?|pounds?|ml|liters?|l|gallons?|gal|quarts?|qt|pints?|kg|grams?|g)\b`)

	// "12 pack", "pack of 6", "6-pack", "24 count", "6 ct", "12 cans"
	packCountPattern = regexp.MustCompile(`\b\d+[-\s]*(pack|pk|count|ct)\b|\bpack\s+of\s+\d+\b|\b\d+\s*(cans?|bottles?|pouches?|bars?|pieces?)\b`)

	// trailing or leading bare numbers such as ", 128"
	standaloneNumberPattern = regexp.MustCompile(`[,\-]\s*\d+(\.\d+)?\s*$|^\s*\d+(\.\d+)?\s*[,\-]`)

	orphanedPunctuationPattern = regexp.MustCompile(`\s[,\-;:]+\s|^[\s,\-;:]+|[\s,\-;:]+$`)
	multiSpacePattern          = regexp.MustCompile(`\s+`)
)

// queryNoiseWords never help a FoodKeeper lookup
var queryNoiseWords = map[string]bool{
	// marketing
	"value": true, "family": true, "bonus": true, "new": true, "improved": true,
	"premium": true, "select": true, "choice": true, "quality": true, "best": true,
	"great": true, "favorite": true, "special": true, "organic": true, "natural": true,
	"fresh": true, "all": true,

	// size
	"size": true, "large": true, "medium": true, "small": true, "mini": true,
	"jumbo": true, "giant": true, "big": true, "single": true, "double": true,

	// packaging
	"package": true, "box": true, "bag": true, "bottle": true, "can": true,
	"jar": true, "tub": true, "carton": true, "pouch": true, "tube": true,

	// generic
	"food": true, "item": true, "product": true, "brand": true,
}

// QueryPreprocessor turns retail product names ("Great Value Whole Milk, 1 Gallon")
// into FoodKeeper search terms ("whole milk")
type QueryPreprocessor struct {
	logger *zap.Logger
}

// NewQueryPreprocessor creates a preprocessor; a nil logger disables debug output
func NewQueryPreprocessor(logger *zap.Logger) *QueryPreprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryPreprocessor{logger: logger}
}

// Clean lower-cases productName and strips quantities, pack counts and retail noise words.
// The result is at most 100 bytes, cut at a word boundary when possible.
func (p *QueryPreprocessor) Clean(productName string) string {
	cleaned := strings.ToLower(strings.TrimSpace(productName))
	if cleaned == "" {
		return ""
	}

	cleaned = sizeQuantityPattern.ReplaceAllString(cleaned, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = standaloneNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)

	// a pass can expose new orphans, e.g. "milk , ," -> "milk ,"
	for prev := ""; prev != cleaned; {
		prev = cleaned
		cleaned = orphanedPunctuationPattern.ReplaceAllString(cleaned, " ")
		cleaned = strings.TrimSpace(multiSpacePattern.ReplaceAllString(cleaned, " "))
	}

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	p.logger.Debug("query preprocessed", zap.String("input", productName), zap.String("output", cleaned))
	return cleaned
}

func removeNoiseWords(s string) string {
	words := strings.Fields(s)
	kept := words[:0]
	for _, word := range words {
		if !queryNoiseWords[strings.Trim(word, ",.!?;:-'\"")] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
