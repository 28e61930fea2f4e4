package types

// FilterField is one entry of a per-course mandatory-filter schema:
// a permitted key together with the set of values it accepts.
type FilterField struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// Allows reports whether the field accepts the given value.
func (f FilterField) Allows(value string) bool {
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

// FilterSchema is the tenant-defined, ordered set of permitted filter
// keys and values. Read-only during validation.
type FilterSchema []FilterField

// Field returns the schema entry for the given key.
func (s FilterSchema) Field(key string) (FilterField, bool) {
	for _, f := range s {
		if f.Key == key {
			return f, true
		}
	}
	return FilterField{}, false
}

// HasGeneralValue reports whether any field's allowed values contain the
// literal value "general". When true, validated filters receive an
// implicit _general key before use.
func (s FilterSchema) HasGeneralValue() bool {
	for _, f := range s {
		if f.Allows(GeneralFilterValue) {
			return true
		}
	}
	return false
}

// GeneralFilterValue is the sentinel allowed value that triggers the
// implicit _general filter key.
const GeneralFilterValue = "general"

// GeneralFilterKey is the implicit key injected into validated filters
// when the schema carries the "general" sentinel value.
const GeneralFilterKey = "_general"

// Filters is a parsed multi-value filter set. Key insertion order is
// preserved so that validation reports the first offending key
// deterministically.
type Filters struct {
	keys   []string
	values map[string][]string
}

// NewFilters creates an empty filter set.
func NewFilters() *Filters {
	return &Filters{values: make(map[string][]string)}
}

// Add appends a value under the given key. Repeated keys accumulate
// into a multi-value filter.
func (f *Filters) Add(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = append(f.values[key], value)
}

// Keys returns the keys in insertion order.
func (f *Filters) Keys() []string {
	return f.keys
}

// Get returns the values accumulated under key.
func (f *Filters) Get(key string) []string {
	return f.values[key]
}

// Len returns the number of distinct keys.
func (f *Filters) Len() int {
	return len(f.keys)
}

// ToMap returns a plain map form for serialization into a retrieval
// custom query.
func (f *Filters) ToMap() map[string][]string {
	out := make(map[string][]string, len(f.keys))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
