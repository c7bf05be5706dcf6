package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/partflow/internal/model"
)

func TestValidateContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	require.ErrorIs(t, validateContext(nil), ErrNilContext)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, validateContext(ctx), "canceled context is still valid")
}

func TestValidateString(t *testing.T) {
	require.ErrorIs(t, validateString("  ", "name"), ErrEmptyString)
	assert.NoError(t, validateString("x", "name"))
}

func TestValidateFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  ComponentFilter
		wantErr bool
	}{
		{name: "zero", filter: ComponentFilter{}},
		{name: "known type", filter: ComponentFilter{Type: model.TypeMonitor}},
		{name: "unknown type", filter: ComponentFilter{Type: "monitors"}, wantErr: true},
		{name: "negative min", filter: ComponentFilter{MinPrice: -1}, wantErr: true},
		{name: "inverted range", filter: ComponentFilter{MinPrice: 10, MaxPrice: 5}, wantErr: true},
		{name: "open max", filter: ComponentFilter{MinPrice: 10}},
		{name: "negative limit", filter: ComponentFilter{Limit: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFilter(tt.filter)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildListQuery_Placeholders(t *testing.T) {
	query, args := buildListQuery(ComponentFilter{Type: model.TypeCPU, Search: "Ryzen", Limit: 5},
		func(n int) string { return "$" + string(rune('0'+n)) })

	assert.Equal(t, listComponentsColumns+" WHERE type = $1 AND LOWER(model) LIKE $2 ORDER BY type, brand, model LIMIT $3", query)
	assert.Equal(t, []any{"cpu", "%ryzen%", 5}, args)
}
