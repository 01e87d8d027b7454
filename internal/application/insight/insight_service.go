package insight

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/erp/requisition/internal/domain/insight"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InsightService serves report filter panels and runs reports.
// Panel state is not kept between calls; each run sends the full raw values.
type InsightService struct {
	gateway insight.ReportGateway
	logger  *zap.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(gateway insight.ReportGateway, logger *zap.Logger) *InsightService {
	return &InsightService{gateway: gateway, logger: logger}
}

// ListReports lists the reports the client may run
func (s *InsightService) ListReports(ctx context.Context, session shared.SessionContext) ([]insight.Report, error) {
	return s.gateway.ListReports(ctx, session.ClientID)
}

// FilterSchema returns the report's filter panel, ordered for display
func (s *InsightService) FilterSchema(ctx context.Context, session shared.SessionContext, report string, query SchemaQuery) (*FilterSchemaResponse, error) {
	schema, err := s.schema(ctx, session, report, query.AI)
	if err != nil {
		return nil, err
	}
	resp := ToFilterSchemaResponse(report, schema)
	return &resp, nil
}

// FilterOptions returns the raw option list of a dropdown source
func (s *InsightService) FilterOptions(ctx context.Context, session shared.SessionContext, query OptionsQuery) (json.RawMessage, error) {
	kind := insight.OptionKind(query.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPTION_KIND", "Unknown option source: "+query.Kind)
	}
	params := make(map[string]string)
	if query.Group != "" {
		params[insight.FieldGroupCode] = query.Group
	}
	if query.Location != "" {
		params["location"] = query.Location
	}
	return s.gateway.FetchOptions(ctx, session.ClientID, kind, params)
}

// RunReport applies the raw values to a fresh panel, validates them and runs
// the report upstream. The upstream result is returned untouched.
func (s *InsightService) RunReport(ctx context.Context, session shared.SessionContext, report string, req RunReportRequest) (json.RawMessage, error) {
	schema, err := s.schema(ctx, session, report, req.AI)
	if err != nil {
		return nil, err
	}

	state := insight.NewFilterState(report, schema)
	state.SetAll(req.Filters)
	filters, err := state.Prepare()
	if err != nil {
		return nil, err
	}

	logger.FromContextOr(ctx, s.logger).Debug("Running report",
		zap.String("report", report),
		zap.Int("filters", len(filters)),
	)
	return s.gateway.RunReport(ctx, session.ClientID, report, req.AI, filters)
}

func (s *InsightService) schema(ctx context.Context, session shared.SessionContext, report string, ai bool) ([]insight.FilterFieldDescriptor, error) {
	if strings.TrimSpace(report) == "" {
		return nil, insight.ErrReportNotFound
	}
	schema, err := s.gateway.FetchFilterSchema(ctx, session.ClientID, report, ai)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(schema, func(i, j int) bool { return schema[i].Order < schema[j].Order })
	return schema, nil
}
