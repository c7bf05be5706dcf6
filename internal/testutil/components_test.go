package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/partflow/internal/model"
)

func TestComponentBuilder_LaterDuplicateReplaces(t *testing.T) {
	built := NewComponentBuilder().
		WithComponent(model.TypeCPU, "AMD", "Ryzen 5 5600X", 1).
		WithComponent(model.TypeGPU, "NVIDIA", "GeForce RTX 4070", 2).
		WithComponent(model.TypeCPU, "AMD", "Ryzen 5 5600X", 3).
		Build()

	assert.Len(t, built, 2)
	assert.InDelta(t, 3.0, built[0].Price, 0.001)
	assert.Equal(t, model.TypeGPU, built[1].Type)
}

func TestSetupTestDB_SeedsFixture(t *testing.T) {
	db := SetupTestDB(t, NewComponentBuilder().
		WithFixture(FixtureGamingBuild).
		WithSeries(model.TypeRAM, "Kingston", "Fury", 3).
		Build()...)

	assert.Equal(t, len(FixtureGamingBuild)+3, db.Total())
	assert.Equal(t, 4, db.Count(model.TypeRAM))
	assert.FileExists(t, db.Path)
}
