package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

func TestParseFilterTags(t *testing.T) {
	t.Run("bracketed pairs", func(t *testing.T) {
		f := ParseFilterTags(`[level=beginner, unit=1]`)
		assert.Equal(t, []string{"level", "unit"}, f.Keys())
		assert.Equal(t, []string{"beginner"}, f.Get("level"))
		assert.Equal(t, []string{"1"}, f.Get("unit"))
	})

	t.Run("repeated keys accumulate", func(t *testing.T) {
		f := ParseFilterTags(`unit=1, unit=2`)
		assert.Equal(t, []string{"1", "2"}, f.Get("unit"))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("quotes stripped and spaces hyphenated", func(t *testing.T) {
		f := ParseFilterTags(`[topic="linear algebra"]`)
		assert.Equal(t, []string{"linear-algebra"}, f.Get("topic"))
	})

	t.Run("malformed fragments ignored", func(t *testing.T) {
		f := ParseFilterTags(`level=beginner, garbage, =empty, blank=`)
		assert.Equal(t, []string{"level"}, f.Keys())
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, 0, ParseFilterTags("").Len())
	})
}

func testSchema() types.FilterSchema {
	return types.FilterSchema{
		{Key: "level", Values: []string{"beginner", "advanced"}},
		{Key: "unit", Values: []string{"1", "2", "general"}},
	}
}

func TestValidateFilters(t *testing.T) {
	t.Run("valid filters pass and inject _general", func(t *testing.T) {
		f := ParseFilterTags("level=beginner, unit=1")
		v := ValidateFilters(f, testSchema())
		require.True(t, v.OK)
		assert.Empty(t, v.Message)

		// Schema carries the "general" sentinel on unit.
		assert.Equal(t, []string{types.GeneralFilterValue}, v.Filters.Get(types.GeneralFilterKey))
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		v := ValidateFilters(ParseFilterTags("semester=1"), testSchema())
		assert.False(t, v.OK)
		assert.Equal(t, "No se encuentra la key 'semester' en los filtros obligatorios.", v.Message)
	})

	t.Run("unknown value lists available values", func(t *testing.T) {
		v := ValidateFilters(ParseFilterTags("level=intermediate"), testSchema())
		assert.False(t, v.OK)
		assert.Equal(t,
			"No se encuentra el valor 'intermediate' para la key 'level', los valores disponibles son [beginner advanced], por favor intente nuevamente.",
			v.Message)
	})

	t.Run("first violation wins in insertion order", func(t *testing.T) {
		v := ValidateFilters(ParseFilterTags("bogus=x, level=intermediate"), testSchema())
		assert.False(t, v.OK)
		assert.Contains(t, v.Message, "'bogus'")
	})

	t.Run("no injection without general sentinel", func(t *testing.T) {
		schema := types.FilterSchema{{Key: "level", Values: []string{"beginner"}}}
		v := ValidateFilters(ParseFilterTags("level=beginner"), schema)
		require.True(t, v.OK)
		assert.Empty(t, v.Filters.Get(types.GeneralFilterKey))
	})

	t.Run("no injection for empty filters", func(t *testing.T) {
		v := ValidateFilters(types.NewFilters(), testSchema())
		require.True(t, v.OK)
		assert.Equal(t, 0, v.Filters.Len())
	})
}
