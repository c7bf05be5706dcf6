// Package rules holds the immutable classification configuration: one rule
// per category, the brand alias table, and the filename hint table.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/partflow/internal/common"
	"github.com/Veraticus/partflow/internal/model"
)

// ErrInvalidRule is returned when a rule table cannot be compiled.
var ErrInvalidRule = errors.New("invalid rule")

// PriceRange bounds a category's plausible price in the canonical currency.
type PriceRange struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Contains reports whether price lies inside the range, bounds included.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// CategoryRule is the declarative classification rule for one category.
type CategoryRule struct {
	Category   model.Category      `mapstructure:"category"`
	Type       model.ComponentType `mapstructure:"type"`
	Required   []string            `mapstructure:"required"`
	Excluded   []string            `mapstructure:"excluded"`
	Brands     []string            `mapstructure:"brands"`
	Specs      []string            `mapstructure:"specs"`
	Patterns   []string            `mapstructure:"patterns"`
	PriceRange PriceRange          `mapstructure:"price_range"`
}

// BrandAlias maps a canonical brand to the substrings that identify it.
type BrandAlias struct {
	Brand   string   `mapstructure:"brand"`
	Aliases []string `mapstructure:"aliases"`
}

// FilenameHint maps a filename fragment to a category.
type FilenameHint struct {
	Match    string         `mapstructure:"match"`
	Category model.Category `mapstructure:"category"`
}

// Rule is a compiled CategoryRule. Keyword lists are lower-cased.
type Rule struct {
	patterns []*regexp.Regexp
	CategoryRule
}

// Patterns returns the compiled model patterns in declaration order.
func (r *Rule) Patterns() []*regexp.Regexp {
	return r.patterns
}

// ComponentType returns the persisted type for the rule's category, honoring
// an explicit override on the rule.
func (r *Rule) ComponentType() model.ComponentType {
	if r.Type != "" {
		return r.Type
	}
	return r.Category.ComponentType()
}

// Catalog is the read-only rule table. Build one with NewCatalog at start-up
// and pass it to whatever needs it; it is safe for concurrent use.
type Catalog struct {
	byCategory map[model.Category]*Rule
	rules      []*Rule
	aliases    []BrandAlias
	hints      []FilenameHint
}

// NewCatalog compiles the given tables. Rule order is significant: it is the
// tie-break order for category detection. Alias order decides which brand
// wins when several aliases match.
func NewCatalog(ruleDefs []CategoryRule, aliases []BrandAlias, hints []FilenameHint) (*Catalog, error) {
	if len(ruleDefs) == 0 {
		return nil, fmt.Errorf("%w: no rules defined", ErrInvalidRule)
	}

	c := &Catalog{
		byCategory: make(map[model.Category]*Rule, len(ruleDefs)),
		rules:      make([]*Rule, 0, len(ruleDefs)),
	}

	for _, def := range ruleDefs {
		rule, err := compileRule(def)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byCategory[rule.Category]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidRule, rule.Category)
		}
		c.byCategory[rule.Category] = rule
		c.rules = append(c.rules, rule)
	}

	for _, a := range aliases {
		if strings.TrimSpace(a.Brand) == "" {
			return nil, fmt.Errorf("%w: brand alias without a brand", ErrInvalidRule)
		}
		c.aliases = append(c.aliases, BrandAlias{Brand: a.Brand, Aliases: lowerAll(a.Aliases)})
	}

	for _, h := range hints {
		if h.Match == "" || h.Category == "" {
			return nil, fmt.Errorf("%w: incomplete filename hint %+v", ErrInvalidRule, h)
		}
		c.hints = append(c.hints, FilenameHint{Match: strings.ToLower(h.Match), Category: h.Category})
	}

	return c, nil
}

// Default returns the catalog built from the built-in tables.
func Default() *Catalog {
	c, err := NewCatalog(DefaultRules(), DefaultBrandAliases(), DefaultFilenameHints())
	if err != nil {
		panic(fmt.Sprintf("built-in rule tables do not compile: %v", err))
	}
	return c
}

func compileRule(def CategoryRule) (*Rule, error) {
	if def.Category == "" {
		return nil, fmt.Errorf("%w: rule without a category", ErrInvalidRule)
	}
	if def.PriceRange.Max < def.PriceRange.Min {
		return nil, fmt.Errorf("%w: %s price range max %.2f below min %.2f",
			ErrInvalidRule, def.Category, def.PriceRange.Max, def.PriceRange.Min)
	}
	if def.Type != "" && !def.Type.Valid() {
		return nil, fmt.Errorf("%w: %s maps to unknown type %q", ErrInvalidRule, def.Category, def.Type)
	}

	rule := &Rule{
		CategoryRule: CategoryRule{
			Category:   def.Category,
			Type:       def.Type,
			Required:   lowerAll(def.Required),
			Excluded:   lowerAll(def.Excluded),
			Brands:     append([]string(nil), def.Brands...),
			Specs:      lowerAll(def.Specs),
			Patterns:   append([]string(nil), def.Patterns...),
			PriceRange: def.PriceRange,
		},
	}

	for _, p := range def.Patterns {
		re, err := common.CompileInsensitive(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s pattern %q: %v", ErrInvalidRule, def.Category, p, err)
		}
		rule.patterns = append(rule.patterns, re)
	}

	return rule, nil
}

// Rule returns the compiled rule for category.
func (c *Catalog) Rule(category model.Category) (*Rule, bool) {
	r, ok := c.byCategory[category]
	return r, ok
}

// Rules returns the rules in table order.
func (c *Catalog) Rules() []*Rule {
	return append([]*Rule(nil), c.rules...)
}

// Categories returns the category ids in table order.
func (c *Catalog) Categories() []model.Category {
	out := make([]model.Category, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Category
	}
	return out
}

// BrandAliases returns the alias table in order.
func (c *Catalog) BrandAliases() []BrandAlias {
	return append([]BrandAlias(nil), c.aliases...)
}

// FilenameHints returns the filename hint table.
func (c *Catalog) FilenameHints() []FilenameHint {
	return append([]FilenameHint(nil), c.hints...)
}

func lowerAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
