package orchestrator

import (
	"fmt"
	"strings"

	"github.com/EDT-Partners-Tech/oss-lecture-backend-sub000/types"
)

// ParseFilterTags parses the agent-supplied tag string, e.g.
//
//	[level=beginner, unit=1, unit=2]
//
// into an ordered filter set. Bracket and quote characters are
// stripped, repeated keys accumulate and spaces inside values are
// normalized to hyphens. Malformed fragments without '=' are ignored.
func ParseFilterTags(raw string) *types.Filters {
	filters := types.NewFilters()

	cleaned := strings.NewReplacer("[", "", "]", "", `"`, "").Replace(raw)
	for _, part := range strings.Split(cleaned, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		value = strings.ReplaceAll(value, " ", "-")
		filters.Add(key, value)
	}

	return filters
}

// FilterValidation is the outcome of checking parsed filters against a
// course's mandatory schema. Failure is a conversational outcome, not
// an error: Message carries the user-facing text to answer with.
type FilterValidation struct {
	Filters *types.Filters
	OK      bool
	Message string
}

// ValidateFilters checks every parsed key and value against the schema,
// reporting the first violation in filter insertion order. On success
// the implicit _general key is injected when the schema carries the
// "general" sentinel value.
func ValidateFilters(filters *types.Filters, schema types.FilterSchema) FilterValidation {
	for _, key := range filters.Keys() {
		field, ok := schema.Field(key)
		if !ok {
			return FilterValidation{
				Filters: filters,
				Message: fmt.Sprintf("No se encuentra la key '%s' en los filtros obligatorios.", key),
			}
		}
		for _, value := range filters.Get(key) {
			if !field.Allows(value) {
				return FilterValidation{
					Filters: filters,
					Message: fmt.Sprintf(
						"No se encuentra el valor '%s' para la key '%s', los valores disponibles son %v, por favor intente nuevamente.",
						value, key, field.Values),
				}
			}
		}
	}

	if filters.Len() > 0 && schema.HasGeneralValue() {
		filters.Add(types.GeneralFilterKey, types.GeneralFilterValue)
	}

	return FilterValidation{Filters: filters, OK: true}
}
