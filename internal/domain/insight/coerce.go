package insight

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format reports expect
const DateLayout = "2006-01-02"

var dateLayouts = []string{time.RFC3339, DateLayout, "2006-01-02T15:04:05"}

// Coercer converts a raw panel value to its backend type.
// ok is false when the value cannot be represented.
type Coercer func(raw any) (value any, ok bool)

var coercers = map[DataType]Coercer{
	DataTypeInt:    coerceInt,
	DataTypeBit:    coerceBit,
	DataTypeDate:   coerceDate,
	DataTypeString: coerceString,
}

// CoercerFor returns the coercer for a data type, falling back to strings
func CoercerFor(dt DataType) Coercer {
	if c, ok := coercers[dt]; ok {
		return c
	}
	return coerceString
}

// FilterResult is the coerced filter map plus the labels that failed coercion
type FilterResult struct {
	Filters            map[string]any
	InvalidFieldLabels []string
}

// Err returns an *InvalidFieldError when any field failed coercion
func (r FilterResult) Err() error {
	if len(r.InvalidFieldLabels) == 0 {
		return nil
	}
	return &InvalidFieldError{Labels: r.InvalidFieldLabels}
}

// BuildRequestFilters coerces every declared field, hidden ones included.
// Blank inputs and blank results are left out of the map.
func BuildRequestFilters(schema []FilterFieldDescriptor, raw map[string]any) FilterResult {
	result := FilterResult{Filters: make(map[string]any), InvalidFieldLabels: []string{}}

	for _, field := range schema {
		value, present := raw[field.Name]
		if !present || isBlank(value) {
			continue
		}

		var out any
		if field.Control == ControlCheckbox {
			out = coerceCheckbox(field.DataType, value)
		} else {
			v, ok := CoercerFor(field.DataType)(value)
			if !ok {
				result.InvalidFieldLabels = append(result.InvalidFieldLabels, field.DisplayLabel())
				continue
			}
			out = v
		}

		if isBlank(out) {
			continue
		}
		result.Filters[field.Name] = out
	}
	return result
}

// MissingMandatory returns the labels of visible mandatory fields that are unset
func MissingMandatory(schema []FilterFieldDescriptor, raw map[string]any) []string {
	missing := make([]string, 0)
	for _, field := range schema {
		if !field.Show || !field.IsMandatory() {
			continue
		}
		if !isSet(raw[field.Name]) {
			missing = append(missing, field.DisplayLabel())
		}
	}
	return missing
}

// PrepareFilters runs the mandatory check and then coercion, returning the
// filters ready to send
func PrepareFilters(schema []FilterFieldDescriptor, raw map[string]any) (map[string]any, error) {
	if missing := MissingMandatory(schema, raw); len(missing) > 0 {
		return nil, &MandatoryFieldError{Labels: missing}
	}
	result := BuildRequestFilters(schema, raw)
	if err := result.Err(); err != nil {
		return nil, err
	}
	return result.Filters, nil
}

func coerceInt(raw any) (any, bool) {
	var f float64
	switch v := raw.(type) {
	case bool:
		return nil, false
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		f = parsed
	default:
		return nil, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f), true
	}
	return f, true
}

func coerceBit(raw any) (any, bool) {
	return parseBool(raw)
}

func coerceDate(raw any) (any, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC().Format(DateLayout), true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Format(DateLayout), true
			}
		}
	}
	return nil, false
}

func coerceString(raw any) (any, bool) {
	return strings.TrimSpace(fmt.Sprint(raw)), true
}

// coerceCheckbox never fails: anything unreadable is "off"
func coerceCheckbox(dt DataType, raw any) any {
	on, _ := parseBool(raw)
	if dt == DataTypeBit {
		if on {
			return 1
		}
		return 0
	}
	return on
}

func parseBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case float64:
		return v == 1, true
	case int:
		return v == 1, true
	case int64:
		return v == 1, true
	case json.Number:
		return v.String() == "1", true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// isSet mirrors the panel's truthiness: nil, "", false and 0 are unset
func isSet(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	}
	return true
}
