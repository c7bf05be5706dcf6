// Package classification decides which catalog category a product belongs to.
package classification

import (
	"fmt"
	"strings"

	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/rules"
)

// Result is the outcome of validating a record against a category.
type Result struct {
	Category model.Category
	Brand    string
	Reason   model.RejectReason
	Detail   string
	Signals  Signals
	Accepted bool
}

// Signals are the positive evidence found for one category.
type Signals struct {
	HasRequired    bool
	MatchesPattern bool
	HasSpec        bool
	BrandAllowed   bool
}

// Score is one category's detection score.
type Score struct {
	Category     model.Category
	Score        int
	RequiredHits int
	PatternHits  int
	SpecHits     int
	ExcludedHits int
	PriceInRange bool
}

// Classifier validates and detects categories against a rule catalog.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	catalog *rules.Catalog
	brands  *BrandExtractor
	policy  Policy
}

// NewClassifier creates a classifier over catalog using policy.
func NewClassifier(catalog *rules.Catalog, policy Policy) *Classifier {
	return &Classifier{
		catalog: catalog,
		brands:  NewBrandExtractor(catalog),
		policy:  policy,
	}
}

// Brands returns the extractor the classifier resolves brands with.
func (c *Classifier) Brands() *BrandExtractor {
	return c.brands
}

// Catalog returns the rule catalog.
func (c *Classifier) Catalog() *rules.Catalog {
	return c.catalog
}

// Validate checks modelText against the rule for category only, taking the
// brand from modelText itself. A price of zero means unknown and never fails
// the range check. Excluded keywords veto acceptance regardless of any other
// signal.
func (c *Classifier) Validate(category model.Category, modelText string, price float64) Result {
	return c.ValidateBrand(category, modelText, "", price)
}

// ValidateBrand is Validate with a brand already resolved by the caller, for
// model text whose brand prefix has been stripped. An empty brand falls back
// to extracting one from modelText.
func (c *Classifier) ValidateBrand(category model.Category, modelText, brand string, price float64) Result {
	rule, ok := c.catalog.Rule(category)
	if !ok {
		return reject(category, model.RejectUnknownCategory, fmt.Sprintf("no rule for category %q", category))
	}

	if price > 0 && !rule.PriceRange.Contains(price) {
		return reject(category, model.RejectPriceOutOfRange,
			fmt.Sprintf("price %.2f outside %s range (%.2f-%.2f)", price, category, rule.PriceRange.Min, rule.PriceRange.Max))
	}

	lower := strings.ToLower(modelText)
	if kw, hit := firstContained(lower, rule.Excluded); hit {
		return reject(category, model.RejectExcludedKeyword, fmt.Sprintf("contains excluded keyword %q", kw))
	}

	if brand == "" {
		brand = c.brands.Extract(modelText)
	}
	sig := Signals{
		HasRequired:    containsAny(lower, rule.Required),
		MatchesPattern: matchesAny(rule, modelText),
		HasSpec:        containsAny(lower, rule.Specs),
		BrandAllowed:   brandAllowed(brand, rule.Brands),
	}

	if c.accepts(sig) {
		return Result{
			Category: category,
			Brand:    brand,
			Signals:  sig,
			Accepted: true,
		}
	}

	res := reject(category, model.RejectNoMatchingSignal,
		fmt.Sprintf("does not meet %s criteria (required: %t, pattern: %t, brand %s allowed: %t)",
			category, sig.HasRequired, sig.MatchesPattern, brand, sig.BrandAllowed))
	res.Brand = brand
	res.Signals = sig
	return res
}

func (c *Classifier) accepts(sig Signals) bool {
	p := c.policy
	switch {
	case p.AcceptRequiredWithPattern && sig.HasRequired && sig.MatchesPattern:
		return true
	case p.AcceptPatternWithBrand && sig.MatchesPattern && sig.BrandAllowed:
		return true
	case p.AcceptRequiredWithSpec && sig.HasRequired && sig.HasSpec:
		return true
	case p.AcceptRequiredAlone && sig.HasRequired:
		return true
	}
	return false
}

// DetectCategory picks the best-scoring category for modelText. Ties go to
// the rule that comes first in the catalog. It returns false when the best
// score does not exceed the policy threshold.
func (c *Classifier) DetectCategory(modelText string, price float64) (model.Category, bool) {
	scores := c.Scores(modelText, price)
	if len(scores) == 0 {
		return "", false
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	if best.Score <= c.policy.DetectThreshold {
		return "", false
	}
	return best.Category, true
}

// Scores returns every category's score in catalog order.
func (c *Classifier) Scores(modelText string, price float64) []Score {
	lower := strings.ToLower(modelText)
	w := c.policy.Weights

	rulesInOrder := c.catalog.Rules()
	scores := make([]Score, 0, len(rulesInOrder))

	for _, rule := range rulesInOrder {
		s := Score{
			Category:     rule.Category,
			RequiredHits: countContained(lower, rule.Required),
			SpecHits:     countContained(lower, rule.Specs),
			ExcludedHits: countContained(lower, rule.Excluded),
		}
		for _, re := range rule.Patterns() {
			if re.MatchString(modelText) {
				s.PatternHits++
			}
		}
		s.PriceInRange = price > 0 && rule.PriceRange.Contains(price)

		s.Score = s.RequiredHits*w.Required +
			s.PatternHits*w.Pattern +
			s.SpecHits*w.Spec -
			s.ExcludedHits*w.Excluded
		if s.PriceInRange {
			s.Score += w.PriceInRange
		}

		scores = append(scores, s)
	}

	return scores
}

func reject(category model.Category, reason model.RejectReason, detail string) Result {
	return Result{Category: category, Reason: reason, Detail: detail}
}

func firstContained(lower string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

func containsAny(lower string, keywords []string) bool {
	_, ok := firstContained(lower, keywords)
	return ok
}

func countContained(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func matchesAny(rule *rules.Rule, modelText string) bool {
	for _, re := range rule.Patterns() {
		if re.MatchString(modelText) {
			return true
		}
	}
	return false
}

func brandAllowed(brand string, allowed []string) bool {
	lower := strings.ToLower(brand)
	for _, a := range allowed {
		if strings.Contains(lower, strings.ToLower(a)) {
			return true
		}
	}
	return false
}
