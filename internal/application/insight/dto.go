package insight

import (
	"github.com/erp/requisition/internal/domain/insight"
)

// SchemaQuery selects the AI variant of a report's filter schema
type SchemaQuery struct {
	AI bool `form:"ai"`
}

// OptionsQuery selects a dropdown source and its dependent parameters
type OptionsQuery struct {
	Kind     string `form:"kind" binding:"required,oneof=Group Sub_group Location Supplier"`
	Group    string `form:"group_code"`
	Location string `form:"location"`
}

// RunReportRequest carries the raw filter panel values
type RunReportRequest struct {
	Filters map[string]any `json:"filters"`
	AI      bool           `json:"ai"`
}

// FilterFieldResponse is one field of a report's filter panel
type FilterFieldResponse struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Control   string `json:"control"`
	DataType  string `json:"data_type"`
	Mandatory bool   `json:"mandatory"`
	Order     int    `json:"order"`
	Show      bool   `json:"show"`
	Limit     int    `json:"limit,omitempty"`
	Initial   any    `json:"initial"`
}

// FilterSchemaResponse is a report's filter panel
type FilterSchemaResponse struct {
	Report string                `json:"report"`
	Fields []FilterFieldResponse `json:"fields"`
}

// ToFilterSchemaResponse converts descriptors to the panel response
func ToFilterSchemaResponse(report string, schema []insight.FilterFieldDescriptor) FilterSchemaResponse {
	fields := make([]FilterFieldResponse, len(schema))
	for i, f := range schema {
		fields[i] = FilterFieldResponse{
			Name:      f.Name,
			Label:     f.DisplayLabel(),
			Control:   f.Control.String(),
			DataType:  f.DataType.String(),
			Mandatory: f.IsMandatory(),
			Order:     f.Order,
			Show:      f.Show,
			Limit:     f.Limit,
			Initial:   f.InitialValue(),
		}
	}
	return FilterSchemaResponse{Report: report, Fields: fields}
}
