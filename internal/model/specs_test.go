package model

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecs_JSONKeepsOrder(t *testing.T) {
	specs := Specs{
		{Key: "socket", Value: "AM4"},
		{Key: "cores", Value: 6},
		{Key: "boost_clock", Value: "4.6 GHz"},
	}

	data, err := json.Marshal(specs)
	require.NoError(t, err)
	assert.Equal(t, `{"socket":"AM4","cores":6,"boost_clock":"4.6 GHz"}`, string(data))

	var decoded Specs
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"socket", "cores", "boost_clock"}, decoded.Keys())

	cores, ok := decoded.Get("cores")
	require.True(t, ok)
	assert.Equal(t, json.Number("6"), cores)
}

func TestSpecs_Null(t *testing.T) {
	var specs Specs
	data, err := json.Marshal(specs)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	require.NoError(t, json.Unmarshal([]byte("null"), &specs))
	assert.Nil(t, specs)
}

func TestSpecs_RejectsNonObject(t *testing.T) {
	var specs Specs
	assert.Error(t, json.Unmarshal([]byte(`["a","b"]`), &specs))
}
