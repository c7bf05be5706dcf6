package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/partflow/internal/model"
)

// SeedTime is the LastUpdated stamp of built components.
var SeedTime = time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)

// Fixture is a named set of components.
type Fixture []model.Component

// FixtureGamingBuild is one component per core type of a mid-range build.
var FixtureGamingBuild = Fixture{
	component("cpu", "AMD", "Ryzen 5 5600X", 10640),
	component("gpu", "NVIDIA", "GeForce RTX 4070", 33600),
	component("motherboard", "ASUS", "TUF GAMING B550-PLUS", 8400),
	component("ram", "Corsair", "Vengeance LPX 16GB", 2800),
	component("storage", "Samsung", "980 PRO 1TB", 5600),
	component("psu", "Seasonic", "FOCUS GX-750", 6160),
	component("case", "NZXT", "H510", 3920),
	component("cooler", "Noctua", "NH-D15", 5600),
}

func component(componentType, brand, modelName string, price float64) model.Component {
	return model.Component{
		Type:        model.ComponentType(componentType),
		Brand:       brand,
		Model:       modelName,
		Price:       price,
		Currency:    "PHP",
		LastUpdated: SeedTime,
	}
}

// ComponentBuilder assembles seed components fluently. Later additions with
// the same key replace earlier ones, as the catalog itself would.
type ComponentBuilder struct {
	index      map[model.ComponentKey]int
	components []model.Component
}

// NewComponentBuilder creates an empty builder.
func NewComponentBuilder() *ComponentBuilder {
	return &ComponentBuilder{index: make(map[model.ComponentKey]int)}
}

// WithComponent adds one component.
func (b *ComponentBuilder) WithComponent(componentType model.ComponentType, brand, modelName string, price float64) *ComponentBuilder {
	return b.add(component(string(componentType), brand, modelName, price))
}

// WithFixture adds every component of a fixture.
func (b *ComponentBuilder) WithFixture(fixture Fixture) *ComponentBuilder {
	for _, c := range fixture {
		b.add(c)
	}
	return b
}

// WithSeries adds n numbered models of one brand and type.
func (b *ComponentBuilder) WithSeries(componentType model.ComponentType, brand, series string, n int) *ComponentBuilder {
	for i := 0; i < n; i++ {
		b.add(component(string(componentType), brand, fmt.Sprintf("%s %03d", series, i), float64(1000+i)))
	}
	return b
}

func (b *ComponentBuilder) add(c model.Component) *ComponentBuilder {
	if i, ok := b.index[c.Key()]; ok {
		b.components[i] = c
		return b
	}
	b.index[c.Key()] = len(b.components)
	b.components = append(b.components, c)
	return b
}

// Build returns a copy of the assembled components.
func (b *ComponentBuilder) Build() []model.Component {
	out := make([]model.Component, len(b.components))
	copy(out, b.components)
	return out
}
