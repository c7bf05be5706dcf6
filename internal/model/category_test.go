package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_ComponentType(t *testing.T) {
	tests := []struct {
		category Category
		want     ComponentType
	}{
		{CategoryCPU, TypeCPU},
		{CategoryExternalStorage, TypeStorage},
		{"memory", TypeRAM},
		{"power-supply", TypePSU},
		{"cpu-cooler", TypeCooler},
		{CategoryCaseFan, TypePeripheral},
		{CategoryWebcam, TypePeripheral},
		{"label-printer", TypePeripheral},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.ComponentType())
		})
	}
}

func TestBuiltinCategoriesAreMapped(t *testing.T) {
	for _, c := range BuiltinCategories() {
		assert.True(t, c.Mapped(), "category %s has no explicit persisted type", c)
		assert.True(t, c.ComponentType().Valid(), "category %s maps to invalid type", c)
	}
}

func TestEveryComponentTypeIsReachable(t *testing.T) {
	reached := make(map[ComponentType]bool)
	for _, c := range BuiltinCategories() {
		reached[c.ComponentType()] = true
	}

	for _, typ := range AllComponentTypes() {
		assert.True(t, reached[typ], "no built-in category collapses to %s", typ)
	}
}

func TestComponentType_Valid(t *testing.T) {
	assert.True(t, TypePeripheral.Valid())
	assert.False(t, ComponentType("headphones").Valid())
	assert.False(t, ComponentType("").Valid())
}
