// Package normalize turns loosely-structured source records into the
// canonical record shape used by classification and storage.
package normalize

import (
	"errors"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Veraticus/partflow/internal/model"
)

// ErrMissingName is returned for records without any name-like field.
var ErrMissingName = errors.New("record has no name field")

// DefaultRate converts USD source prices into PHP.
const DefaultRate = 56.0

// Field aliases, checked in order.
var (
	NameKeys   = []string{"name", "title", "model", "product"}
	PriceKeys  = []string{"price", "usd_price", "price_usd", "cost", "usd"}
	BrandKeys  = []string{"brand", "manufacturer", "maker"}
	ImageKeys  = []string{"image", "image_url", "img"}
	SourceKeys = []string{"url", "link", "source_url"}
)

var (
	whitespace   = regexp.MustCompile(`\s+`)
	numberInText = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	brandPrefix  = regexp.MustCompile(`(?i)^(AMD|Intel|NVIDIA|ASUS|MSI|Gigabyte|Corsair|Razer|Logitech|Samsung|Western Digital|Seagate|Cooler Master|Thermaltake|Noctua)\s+`)
)

// BrandResolver infers a brand from model text.
type BrandResolver interface {
	Extract(model string) string
}

// Normalizer converts raw records. It is stateless apart from its
// configuration and is safe for concurrent use.
type Normalizer struct {
	brands BrandResolver
	rate   float64
}

// New creates a normalizer that converts prices with rate and fills missing
// brands through brands.
func New(brands BrandResolver, rate float64) *Normalizer {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Normalizer{brands: brands, rate: rate}
}

// Rate returns the currency conversion rate in use.
func (n *Normalizer) Rate() float64 {
	return n.rate
}

// Normalize derives the canonical record from raw.
func (n *Normalizer) Normalize(raw model.RawRecord) (model.NormalizedRecord, error) {
	name := firstString(raw, NameKeys)
	if name == "" {
		return model.NormalizedRecord{}, ErrMissingName
	}

	cleaned := CleanText(name)
	if cleaned == "" {
		return model.NormalizedRecord{}, fmt.Errorf("%w: name %q is empty after cleanup", ErrMissingName, name)
	}

	rec := model.NormalizedRecord{
		Model:     StripBrandPrefix(cleaned),
		Price:     n.convert(firstPresent(raw, PriceKeys)),
		Brand:     CleanText(firstString(raw, BrandKeys)),
		ImageURL:  firstString(raw, ImageKeys),
		SourceURL: firstString(raw, SourceKeys),
		Specs:     ExtractSpecs(raw),
	}

	if rec.Brand == "" {
		rec.Brand = n.brands.Extract(cleaned)
		rec.BrandInferred = true
	}

	return rec, nil
}

// convert returns the canonical price; anything unparseable or non-positive
// is 0, which means unknown.
func (n *Normalizer) convert(v any) float64 {
	p, ok := ParsePrice(v)
	if !ok || p <= 0 {
		return 0
	}
	return math.Round(p*n.rate*100) / 100
}

// CleanText strips markup, decodes entities and collapses whitespace.
func CleanText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	text := s
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			text = doc.Text()
		}
	}

	text = html.UnescapeString(text)
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// StripBrandPrefix removes one leading well-known brand name so the stored
// model does not repeat the brand. The text is left alone when nothing would
// remain.
func StripBrandPrefix(s string) string {
	stripped := strings.TrimSpace(brandPrefix.ReplaceAllString(s, ""))
	if stripped == "" {
		return s
	}
	return stripped
}

// ParsePrice reads a price from the shapes sources use: numbers, numeric
// strings with currency decoration, or a [amount, currency] pair.
func ParsePrice(v any) (float64, bool) {
	switch p := v.(type) {
	case nil:
		return 0, false
	case float64:
		return p, true
	case float32:
		return float64(p), true
	case int:
		return float64(p), true
	case int64:
		return float64(p), true
	case interface{ Float64() (float64, error) }:
		f, err := p.Float64()
		return f, err == nil
	case string:
		m := numberInText.FindString(strings.ReplaceAll(p, ",", ""))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		return f, err == nil
	case []any:
		if len(p) == 0 {
			return 0, false
		}
		return ParsePrice(p[0])
	}
	return 0, false
}

func firstPresent(raw model.RawRecord, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(raw model.RawRecord, keys []string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case fmt.Stringer:
			s = t.String()
		case float64, int, int64:
			s = fmt.Sprint(t)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
