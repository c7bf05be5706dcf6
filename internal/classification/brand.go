package classification

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/partflow/internal/rules"
)

// UnknownBrand is returned when a model string has no usable token.
const UnknownBrand = "Unknown"

var tokenSeparators = regexp.MustCompile(`[\s\-_]+`)

// BrandExtractor maps free-text model strings to a canonical brand name.
type BrandExtractor struct {
	aliases []rules.BrandAlias
}

// NewBrandExtractor creates an extractor over the catalog's alias table.
func NewBrandExtractor(catalog *rules.Catalog) *BrandExtractor {
	return &BrandExtractor{aliases: catalog.BrandAliases()}
}

// Extract returns the brand for model. The first alias (in table order)
// found anywhere in the string wins. Without an alias hit the first token of
// the model is used, capitalised. The result is never empty.
func (e *BrandExtractor) Extract(model string) string {
	lower := strings.ToLower(model)

	for _, entry := range e.aliases {
		for _, alias := range entry.Aliases {
			if alias != "" && strings.Contains(lower, alias) {
				return entry.Brand
			}
		}
	}

	return firstToken(model)
}

func firstToken(model string) string {
	for _, tok := range tokenSeparators.Split(strings.TrimSpace(model), -1) {
		if tok == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(tok)
		return string(unicode.ToUpper(r)) + tok[size:]
	}
	return UnknownBrand
}
