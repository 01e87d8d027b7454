// Package insight models the server-described filter panels of the insight
// reports and coerces raw panel values to the types the report API expects.
package insight

import "strings"

// CriteriaMandatory marks a filter that must be filled before a report runs
const CriteriaMandatory = "Mandatory"

// ControlType is the UI control a filter is rendered with
type ControlType string

const (
	ControlDate         ControlType = "date"
	ControlCheckbox     ControlType = "checkbox"
	ControlTextOrNumber ControlType = "textbox"
	ControlDropdown     ControlType = "dropdown"
)

// ParseControlType maps the schema's type string to a ControlType.
// "number", "textbox" and anything unrecognised render as a text input.
func ParseControlType(s string) ControlType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date":
		return ControlDate
	case "checkbox":
		return ControlCheckbox
	case "dropdown":
		return ControlDropdown
	default:
		return ControlTextOrNumber
	}
}

func (c ControlType) String() string {
	return string(c)
}

// DataType is the backend type a filter value is coerced to
type DataType string

const (
	DataTypeInt    DataType = "int"
	DataTypeBit    DataType = "bit"
	DataTypeDate   DataType = "date"
	DataTypeString DataType = "string"
)

// ParseDataType maps the schema's data_type string to a DataType.
// Unknown types are treated as strings.
func ParseDataType(s string) DataType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int":
		return DataTypeInt
	case "bit", "boolean", "bool":
		return DataTypeBit
	case "date":
		return DataTypeDate
	default:
		return DataTypeString
	}
}

func (d DataType) String() string {
	return string(d)
}

// FilterFieldDescriptor describes one filter of a report
type FilterFieldDescriptor struct {
	Name     string
	Label    string
	Control  ControlType
	DataType DataType
	Criteria string
	Order    int
	Show     bool
	Limit    int
	// Numeric is set for "number" inputs, whose values are clamped to Limit
	Numeric bool
	// Default is the schema's preset value, as sent by the server
	Default string
}

// IsMandatory reports whether the field must be filled
func (f FilterFieldDescriptor) IsMandatory() bool {
	return f.Criteria == CriteriaMandatory
}

// DisplayLabel returns the label shown in error messages
func (f FilterFieldDescriptor) DisplayLabel() string {
	if strings.TrimSpace(f.Label) == "" {
		return "Unknown Field"
	}
	return f.Label
}

// InitialValue returns the raw value a fresh panel starts with
func (f FilterFieldDescriptor) InitialValue() any {
	if f.Control == ControlCheckbox {
		return f.Default == "true"
	}
	return f.Default
}

// Report names one insight report the client may run
type Report struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}
