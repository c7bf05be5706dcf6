package normalize

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/partflow/internal/classification"
	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/rules"
)

func newTestNormalizer() *Normalizer {
	return New(classification.NewBrandExtractor(rules.Default()), DefaultRate)
}

func TestNormalize_FieldAliases(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		raw       model.RawRecord
		name      string
		wantModel string
		wantBrand string
		wantImage string
		wantURL   string
		wantPrice float64
	}{
		{
			name:      "primary keys",
			raw:       model.RawRecord{"name": "Ryzen 5 5600X", "price": 200.0, "brand": "AMD", "image": "a.png", "url": "https://x/1"},
			wantModel: "Ryzen 5 5600X",
			wantBrand: "AMD",
			wantImage: "a.png",
			wantURL:   "https://x/1",
			wantPrice: 11200,
		},
		{
			name:      "alternate keys",
			raw:       model.RawRecord{"title": "Vengeance LPX 16GB", "usd_price": 49.99, "manufacturer": "Corsair", "img": "b.png", "link": "https://x/2"},
			wantModel: "Vengeance LPX 16GB",
			wantBrand: "Corsair",
			wantImage: "b.png",
			wantURL:   "https://x/2",
			wantPrice: 2799.44,
		},
		{
			name:      "last resort keys",
			raw:       model.RawRecord{"product": "Thing", "usd": 1.0, "maker": "Acme", "image_url": "c.png", "source_url": "https://x/3"},
			wantModel: "Thing",
			wantBrand: "Acme",
			wantImage: "c.png",
			wantURL:   "https://x/3",
			wantPrice: 56,
		},
		{
			name:      "name wins over title",
			raw:       model.RawRecord{"name": "First", "title": "Second", "brand": "X"},
			wantModel: "First",
			wantBrand: "X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := n.Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, rec.Model)
			assert.Equal(t, tt.wantBrand, rec.Brand)
			assert.False(t, rec.BrandInferred)
			assert.Equal(t, tt.wantImage, rec.ImageURL)
			assert.Equal(t, tt.wantURL, rec.SourceURL)
			assert.InDelta(t, tt.wantPrice, rec.Price, 0.001)
		})
	}
}

func TestNormalize_MissingName(t *testing.T) {
	n := newTestNormalizer()

	_, err := n.Normalize(model.RawRecord{"price": 10.0})
	require.ErrorIs(t, err, ErrMissingName)

	_, err = n.Normalize(model.RawRecord{"name": "   "})
	require.ErrorIs(t, err, ErrMissingName)

	_, err = n.Normalize(model.RawRecord{"name": "<br/>"})
	require.ErrorIs(t, err, ErrMissingName)
}

func TestNormalize_BrandInference(t *testing.T) {
	n := newTestNormalizer()

	rec, err := n.Normalize(model.RawRecord{"name": "AMD Ryzen 7 7800X3D", "price": 449.0})
	require.NoError(t, err)
	assert.Equal(t, "Ryzen 7 7800X3D", rec.Model)
	assert.Equal(t, "AMD", rec.Brand)
	assert.True(t, rec.BrandInferred)

	// The stripped prefix is still what the brand is inferred from.
	rec, err = n.Normalize(model.RawRecord{"name": "Noctua NH-D15"})
	require.NoError(t, err)
	assert.Equal(t, "NH-D15", rec.Model)
	assert.Equal(t, "Noctua", rec.Brand)
}

func TestNormalize_PriceShapes(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		price any
		name  string
		want  float64
	}{
		{name: "float", price: 10.0, want: 560},
		{name: "int", price: 10, want: 560},
		{name: "json number", price: json.Number("19.99"), want: 1119.44},
		{name: "decorated string", price: "$1,299.99", want: 72799.44},
		{name: "amount currency pair", price: []any{129.99, "USD"}, want: 7279.44},
		{name: "zero", price: 0.0, want: 0},
		{name: "negative", price: -5.0, want: 0},
		{name: "garbage", price: "call for price", want: 0},
		{name: "empty list", price: []any{}, want: 0},
		{name: "null", price: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := n.Normalize(model.RawRecord{"name": "Widget", "brand": "Acme", "price": tt.price})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, rec.Price, 0.001)
		})
	}
}

func TestNormalize_CustomRate(t *testing.T) {
	n := New(classification.NewBrandExtractor(rules.Default()), 1.5)
	rec, err := n.Normalize(model.RawRecord{"name": "Widget", "brand": "Acme", "price": 10.0})
	require.NoError(t, err)
	assert.InDelta(t, 15.0, rec.Price, 0.001)

	assert.InDelta(t, DefaultRate, New(nil, 0).Rate(), 0.001)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Ryzen 5 <b>5600X</b>", want: "Ryzen 5 5600X"},
		{in: "  Crucial\t\tP3   Plus\n1TB ", want: "Crucial P3 Plus 1TB"},
		{in: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{in: "Double &amp;amp; encoded", want: "Double & encoded"},
		{in: "<p>Line<br>break</p>", want: "Linebreak"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestStripBrandPrefix(t *testing.T) {
	assert.Equal(t, "GeForce RTX 4070", StripBrandPrefix("NVIDIA GeForce RTX 4070"))
	assert.Equal(t, "Barracuda 2TB", StripBrandPrefix("seagate Barracuda 2TB"))
	assert.Equal(t, "MasterBox Q300L", StripBrandPrefix("Cooler Master MasterBox Q300L"))
	assert.Equal(t, "AMDfoo", StripBrandPrefix("AMDfoo"))
	assert.Equal(t, "Intel", StripBrandPrefix("Intel"))
	// Only one prefix is removed.
	assert.Equal(t, "Intel Core", StripBrandPrefix("AMD Intel Core"))
}

func TestExtractSpecs(t *testing.T) {
	raw := model.RawRecord{
		"name":        "Ryzen 5 5600X",
		"tdp":         65,
		"core_count":  6,
		"socket":      "AM4",
		"color":       "",
		"wireless":    false,
		"modular":     "Full",
		"cache":       0.0,
		"resolutions": []any{},
		"unknown":     "dropped",
	}

	specs := ExtractSpecs(raw)
	assert.Equal(t, []string{"socket", "core_count", "tdp", "modular"}, specs.Keys())

	v, ok := specs.Get("tdp")
	require.True(t, ok)
	assert.Equal(t, 65, v)

	assert.Empty(t, ExtractSpecs(model.RawRecord{"name": "x"}))
}
