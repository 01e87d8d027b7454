package handler

import (
	"context"
	"encoding/json"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/domain/identity"
	"github.com/erp/requisition/internal/domain/insight"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockMaterialRequestGateway is a mock implementation of requisition.MaterialRequestGateway
type MockMaterialRequestGateway struct {
	mock.Mock
}

func (m *MockMaterialRequestGateway) SubmitMaterialRequest(ctx context.Context, session shared.SessionContext, payload requisition.SubmissionPayload) (*requisition.SubmitOutcome, error) {
	args := m.Called(ctx, session, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requisition.SubmitOutcome), args.Error(1)
}

func (m *MockMaterialRequestGateway) ReadMaterialRequest(ctx context.Context, session shared.SessionContext, documentID, documentNumber string) (*requisition.StoredRequest, error) {
	args := m.Called(ctx, session, documentID, documentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requisition.StoredRequest), args.Error(1)
}

func (m *MockMaterialRequestGateway) ListMaterialRequests(ctx context.Context, session shared.SessionContext) ([]requisition.RequestHeader, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]requisition.RequestHeader), args.Error(1)
}

func (m *MockMaterialRequestGateway) DeleteMaterialRequest(ctx context.Context, session shared.SessionContext, documentID, documentNumber string) error {
	args := m.Called(ctx, session, documentID, documentNumber)
	return args.Error(0)
}

// MockMasterDataGateway is a mock implementation of requisition.MasterDataGateway
type MockMasterDataGateway struct {
	mock.Mock
}

func (m *MockMasterDataGateway) ListLocations(ctx context.Context, clientID string) ([]requisition.Location, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]requisition.Location), args.Error(1)
}

func (m *MockMasterDataGateway) ListSubLocations(ctx context.Context, clientID string) ([]requisition.SubLocation, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]requisition.SubLocation), args.Error(1)
}

func (m *MockMasterDataGateway) ListCostCenters(ctx context.Context, clientID string) ([]requisition.CostCenter, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]requisition.CostCenter), args.Error(1)
}

// MockCatalogGateway is a mock implementation of catalog.CatalogGateway
type MockCatalogGateway struct {
	mock.Mock
}

func (m *MockCatalogGateway) FetchCatalogItems(ctx context.Context, clientID string) ([]catalog.CatalogItem, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.CatalogItem), args.Error(1)
}

func (m *MockCatalogGateway) FetchBarcodeRecords(ctx context.Context, clientID string) ([]catalog.BarcodeRecord, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.BarcodeRecord), args.Error(1)
}

// MockReportGateway is a mock implementation of insight.ReportGateway
type MockReportGateway struct {
	mock.Mock
}

func (m *MockReportGateway) ListReports(ctx context.Context, clientID string) ([]insight.Report, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]insight.Report), args.Error(1)
}

func (m *MockReportGateway) FetchFilterSchema(ctx context.Context, clientID, report string, ai bool) ([]insight.FilterFieldDescriptor, error) {
	args := m.Called(ctx, clientID, report, ai)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]insight.FilterFieldDescriptor), args.Error(1)
}

func (m *MockReportGateway) FetchOptions(ctx context.Context, clientID string, kind insight.OptionKind, params map[string]string) (json.RawMessage, error) {
	args := m.Called(ctx, clientID, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockReportGateway) RunReport(ctx context.Context, clientID, report string, ai bool, filters map[string]any) (json.RawMessage, error) {
	args := m.Called(ctx, clientID, report, ai, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockAuthenticator is a mock implementation of identity.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, creds identity.Credentials) (*identity.Account, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}
