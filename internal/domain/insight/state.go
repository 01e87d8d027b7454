package insight

import (
	"strconv"
	"strings"
)

// Dependent filter names
const (
	FieldGroupCode    = "group_code"
	FieldSubGroupCode = "sub_group_code"
)

// FilterState holds the raw values of one report's filter panel
type FilterState struct {
	Report string
	schema []FilterFieldDescriptor
	values map[string]any
}

// NewFilterState creates a panel preset with each field's initial value
func NewFilterState(report string, schema []FilterFieldDescriptor) *FilterState {
	s := &FilterState{Report: report, schema: schema}
	s.Reset()
	return s
}

// Schema returns the panel's field descriptors
func (s *FilterState) Schema() []FilterFieldDescriptor {
	return s.schema
}

// Reset restores every field to its initial value
func (s *FilterState) Reset() {
	s.values = make(map[string]any, len(s.schema))
	for _, f := range s.schema {
		s.values[f.Name] = f.InitialValue()
	}
}

// Set stores a raw value. Choosing a group clears the sub-group, and numeric
// inputs are clamped to the field's limit.
func (s *FilterState) Set(name string, value any) {
	if f, ok := s.field(name); ok {
		value = clampToLimit(f, value)
	}
	s.values[name] = value
	if name == FieldGroupCode {
		s.values[FieldSubGroupCode] = nil
	}
}

// SetAll applies several values. A group change is applied first so a
// sub-group sent alongside it survives.
func (s *FilterState) SetAll(values map[string]any) {
	if v, ok := values[FieldGroupCode]; ok {
		s.Set(FieldGroupCode, v)
	}
	for name, v := range values {
		if name != FieldGroupCode {
			s.Set(name, v)
		}
	}
}

// Get returns the raw value of a field
func (s *FilterState) Get(name string) any {
	return s.values[name]
}

// Values returns a copy of the raw values
func (s *FilterState) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Prepare validates and coerces the current values
func (s *FilterState) Prepare() (map[string]any, error) {
	return PrepareFilters(s.schema, s.values)
}

func (s *FilterState) field(name string) (FilterFieldDescriptor, bool) {
	for _, f := range s.schema {
		if f.Name == name {
			return f, true
		}
	}
	return FilterFieldDescriptor{}, false
}

func isCountField(f FilterFieldDescriptor) bool {
	return f.Numeric || strings.Contains(f.Name, "days") || strings.Contains(f.Name, "months")
}

func clampToLimit(f FilterFieldDescriptor, value any) any {
	if f.Limit <= 0 || !isCountField(f) {
		return value
	}
	switch v := value.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && n > f.Limit {
			return strconv.Itoa(f.Limit)
		}
	case float64:
		if v > float64(f.Limit) {
			return float64(f.Limit)
		}
	}
	return value
}
