package requisition

import (
	"context"
	"sync"
	"time"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/domain/requisition"
	"github.com/erp/requisition/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockMaterialRequestGateway is a mock implementation of MaterialRequestGateway
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

// MockMasterDataGateway is a mock implementation of MasterDataGateway
type MockMasterDataGateway struct {
	mock.Mock
}

func (m *MockMasterDataGateway) ListLocations(ctx context.Context, clientID string) ([]requisition.Location, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]requisition.Location), args.Error(1)
}

func (m *MockMasterDataGateway) ListSubLocations(ctx context.Context, clientID string) ([]requisition.SubLocation, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]requisition.SubLocation), args.Error(1)
}

func (m *MockMasterDataGateway) ListCostCenters(ctx context.Context, clientID string) ([]requisition.CostCenter, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]requisition.CostCenter), args.Error(1)
}

// MockInFlightGuard is a mock implementation of InFlightGuard
type MockInFlightGuard struct {
	mock.Mock
}

func (m *MockInFlightGuard) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockInFlightGuard) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockInFlightGuard) Close() error {
	return m.Called().Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockCatalogIndexProvider is a mock implementation of CatalogIndexProvider
type MockCatalogIndexProvider struct {
	mock.Mock
}

func (m *MockCatalogIndexProvider) Index(ctx context.Context, clientID string) (*catalog.Index, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Index), args.Error(1)
}

// memoryDrafts is a map-backed DraftRepository that stores deep copies.
// beforeLockedSave, when set, runs once before the next SaveWithLock to
// interleave another command between a load and its save.
type memoryDrafts struct {
	mu               sync.Mutex
	drafts           map[uuid.UUID]requisition.RequestDraft
	saves            int
	beforeLockedSave func()
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{drafts: make(map[uuid.UUID]requisition.RequestDraft)}
}

func (r *memoryDrafts) FindBySession(_ context.Context, sessionID uuid.UUID) (*requisition.RequestDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[sessionID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	d.Lines = append([]requisition.LineItem(nil), d.Lines...)
	return &d, nil
}

func (r *memoryDrafts) Save(_ context.Context, draft *requisition.RequestDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := *draft
	d.Lines = append([]requisition.LineItem(nil), draft.Lines...)
	r.drafts[draft.SessionID] = d
	r.saves++
	return nil
}

func (r *memoryDrafts) SaveWithLock(ctx context.Context, draft *requisition.RequestDraft, expectedVersion int) error {
	r.mu.Lock()
	hook := r.beforeLockedSave
	r.beforeLockedSave = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	stored, ok := r.drafts[draft.SessionID]
	r.mu.Unlock()
	if !ok || stored.ID != draft.ID || stored.Version != expectedVersion {
		return requisition.ErrDraftModified
	}
	return r.Save(ctx, draft)
}

func (r *memoryDrafts) DeleteBySession(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, sessionID)
	return nil
}

// ============================================
// Fixtures
// ============================================

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testSession() shared.SessionContext {
	return shared.SessionContext{SessionID: uuid.New(), ClientID: "C001", UserName: "storekeeper", UserType: "USER"}
}

func testIndex() *catalog.Index {
	items := []catalog.CatalogItem{
		{ItemID: "1", ItemCode: "MAT-001", Description: "Cement 50kg", UnitPrice: decimal.NewFromInt(10), UnitOfMeasure: "BAG"},
		{ItemID: "2", ItemCode: "MAT-002", Description: "Sand", UnitPrice: decimal.NewFromInt(4), UnitOfMeasure: "TON"},
	}
	barcodes := []catalog.BarcodeRecord{
		{BarcodeCode: "8901234567890", ItemID: "2", IsValid: true, Description: "Sand (bulk)"},
	}
	return catalog.NewIndex(items, barcodes)
}

// readyDraft stores a draft with location set and one line
func readyDraft(repo *memoryDrafts, session shared.SessionContext) *requisition.RequestDraft {
	d := requisition.NewRequestDraft(session, fixedNow)
	_ = d.UpdateHeaderField(requisition.HeaderLocationCode, "LOC1", fixedNow)
	_ = d.UpdateHeaderField(requisition.HeaderSubLocationCode, "SUB1", fixedNow)
	entry, _ := testIndex().Resolve("MAT-001")
	_, _ = d.AddItems([]catalog.ResolvedCatalogEntry{entry}, fixedNow)
	_ = d.SetLineQuantity(0, 3, fixedNow)
	_ = repo.Save(context.Background(), d)
	return d
}

// editingDraft stores a hydrated draft for DOC-9
func editingDraft(repo *memoryDrafts, session shared.SessionContext) *requisition.RequestDraft {
	header := requisition.RequestHeader{
		DocumentID:      "DOC-9",
		DocumentNumber:  "MQ-0009",
		LocationCode:    "LOC1",
		SubLocationCode: "SUB1",
		DocumentDate:    fixedNow,
	}
	line := requisition.LineItem{
		LineNumber:    1,
		TransactionID: "T-1",
		DocumentID:    "DOC-9",
		ItemCode:      "MAT-001",
		Quantity:      2,
		UnitPrice:     decimal.NewFromInt(10),
		TotalAmount:   decimal.NewFromInt(20),
	}
	d, _ := requisition.HydrateRequestDraft(session, header, []requisition.LineItem{line}, fixedNow)
	_ = repo.Save(context.Background(), d)
	return d
}
