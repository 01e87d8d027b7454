package requisition

import (
	"context"

	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"go.uber.org/zap"
)

// RequestQueryService serves the request list, the status dashboard and the
// header picker master data
type RequestQueryService struct {
	gateway    requisition.MaterialRequestGateway
	masterData requisition.MasterDataGateway
	logger     *zap.Logger
}

// NewRequestQueryService creates a new RequestQueryService
func NewRequestQueryService(
	gateway requisition.MaterialRequestGateway,
	masterData requisition.MasterDataGateway,
	logger *zap.Logger,
) *RequestQueryService {
	return &RequestQueryService{
		gateway:    gateway,
		masterData: masterData,
		logger:     logger,
	}
}

// List returns the client's requests, optionally narrowed to one status
func (s *RequestQueryService) List(ctx context.Context, session shared.SessionContext, status string) ([]RequestListItem, error) {
	filter := requisition.RequestStatus(status)
	if filter != "" && !filter.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown request status: "+status)
	}

	headers, err := s.gateway.ListMaterialRequests(ctx, session)
	if err != nil {
		return nil, err
	}
	return ToRequestListItems(requisition.FilterByStatus(headers, filter)), nil
}

// Summary counts the client's requests by status
func (s *RequestQueryService) Summary(ctx context.Context, session shared.SessionContext) (requisition.StatusSummary, error) {
	headers, err := s.gateway.ListMaterialRequests(ctx, session)
	if err != nil {
		return requisition.StatusSummary{}, err
	}
	return requisition.SummarizeStatuses(headers), nil
}

// Locations lists the client's locations
func (s *RequestQueryService) Locations(ctx context.Context, session shared.SessionContext) ([]requisition.Location, error) {
	return s.masterData.ListLocations(ctx, session.ClientID)
}

// SubLocations lists the sub-locations of location, or all when location is empty
func (s *RequestQueryService) SubLocations(ctx context.Context, session shared.SessionContext, location string) ([]requisition.SubLocation, error) {
	all, err := s.masterData.ListSubLocations(ctx, session.ClientID)
	if err != nil {
		return nil, err
	}
	return requisition.SubLocationsOf(all, location), nil
}

// CostCenters lists the client's cost centers
func (s *RequestQueryService) CostCenters(ctx context.Context, session shared.SessionContext) ([]requisition.CostCenter, error) {
	return s.masterData.ListCostCenters(ctx, session.ClientID)
}
