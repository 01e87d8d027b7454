package insight

import (
	"context"
	"encoding/json"
)

// OptionKind names a dropdown source served by the filter endpoint
type OptionKind string

const (
	OptionGroup    OptionKind = "Group"
	OptionSubGroup OptionKind = "Sub_group"
	OptionLocation OptionKind = "Location"
	OptionSupplier OptionKind = "Supplier"
)

// IsValid checks if the kind is a known dropdown source
func (k OptionKind) IsValid() bool {
	switch k {
	case OptionGroup, OptionSubGroup, OptionLocation, OptionSupplier:
		return true
	}
	return false
}

// ReportGateway is the port to the upstream report service.
// Report results and dropdown options are passed through untouched.
type ReportGateway interface {
	ListReports(ctx context.Context, clientID string) ([]Report, error)
	FetchFilterSchema(ctx context.Context, clientID, report string, ai bool) ([]FilterFieldDescriptor, error)
	FetchOptions(ctx context.Context, clientID string, kind OptionKind, params map[string]string) (json.RawMessage, error)
	RunReport(ctx context.Context, clientID, report string, ai bool, filters map[string]any) (json.RawMessage, error)
}
