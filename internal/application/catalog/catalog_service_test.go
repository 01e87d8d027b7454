package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCatalogGateway is a mock implementation of CatalogGateway
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

var testItems = []catalog.CatalogItem{
	{ItemID: "1", ItemCode: "MAT-001", Description: "Cement", UnitPrice: decimal.NewFromInt(10)},
	{ItemID: "2", ItemCode: "MAT-002", Description: "Sand", UnitPrice: decimal.NewFromInt(4)},
}

var testBarcodes = []catalog.BarcodeRecord{
	{BarcodeCode: "890123", ItemID: "2", IsValid: true, BarcodeType: "EAN13"},
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(gateway *MockCatalogGateway) (*CatalogService, *testClock) {
	clock := &testClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	svc := NewCatalogService(gateway, time.Minute, zap.NewNop())
	svc.now = clock.Now
	return svc, clock
}

func TestCatalogService_IndexIsCachedUntilTTL(t *testing.T) {
	gateway := new(MockCatalogGateway)
	gateway.On("FetchCatalogItems", mock.Anything, "C001").Return(testItems, nil).Twice()
	gateway.On("FetchBarcodeRecords", mock.Anything, "C001").Return(testBarcodes, nil).Twice()
	svc, clock := newTestService(gateway)

	idx, err := svc.Index(context.Background(), "C001")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	again, err := svc.Index(context.Background(), "C001")
	require.NoError(t, err)
	assert.Same(t, idx, again)

	clock.Advance(2 * time.Minute)
	rebuilt, err := svc.Index(context.Background(), "C001")
	require.NoError(t, err)
	assert.NotSame(t, idx, rebuilt)

	gateway.AssertExpectations(t)
}

func TestCatalogService_Refresh(t *testing.T) {
	gateway := new(MockCatalogGateway)
	gateway.On("FetchCatalogItems", mock.Anything, "C001").Return(testItems, nil).Once()
	gateway.On("FetchBarcodeRecords", mock.Anything, "C001").Return(testBarcodes, nil).Once()
	gateway.On("FetchCatalogItems", mock.Anything, "C001").Return(testItems[:1], nil).Once()
	gateway.On("FetchBarcodeRecords", mock.Anything, "C001").Return([]catalog.BarcodeRecord{}, nil).Once()
	svc, _ := newTestService(gateway)

	_, err := svc.Index(context.Background(), "C001")
	require.NoError(t, err)

	idx, err := svc.Refresh(context.Background(), "C001")
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestCatalogService_FetchFailureIsNotCached(t *testing.T) {
	gateway := new(MockCatalogGateway)
	gateway.On("FetchCatalogItems", mock.Anything, "C001").Return(testItems, nil)
	gateway.On("FetchBarcodeRecords", mock.Anything, "C001").Return(nil, errors.New("timeout")).Once()
	gateway.On("FetchBarcodeRecords", mock.Anything, "C001").Return(testBarcodes, nil).Once()
	svc, _ := newTestService(gateway)

	_, err := svc.Index(context.Background(), "C001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch barcode records")

	idx, err := svc.Index(context.Background(), "C001")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestCatalogService_ClientsAreIsolated(t *testing.T) {
	gateway := new(MockCatalogGateway)
	gateway.On("FetchCatalogItems", mock.Anything, "C001").Return(testItems, nil)
	gateway.On("FetchBarcodeRecords", mock.Anything, "C001").Return(testBarcodes, nil)
	gateway.On("FetchCatalogItems", mock.Anything, "C002").Return([]catalog.CatalogItem{}, nil)
	gateway.On("FetchBarcodeRecords", mock.Anything, "C002").Return([]catalog.BarcodeRecord{}, nil)
	svc, _ := newTestService(gateway)

	a, err := svc.Index(context.Background(), "C001")
	require.NoError(t, err)
	b, err := svc.Index(context.Background(), "C002")
	require.NoError(t, err)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestCatalogService_Search(t *testing.T) {
	gateway := new(MockCatalogGateway)
	gateway.On("FetchCatalogItems", mock.Anything, "C001").Return(testItems, nil)
	gateway.On("FetchBarcodeRecords", mock.Anything, "C001").Return(testBarcodes, nil)
	svc, _ := newTestService(gateway)

	rows, err := svc.Search(context.Background(), "C001", SearchRequest{Tab: "barcode"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "barcode-890123-2", rows[0].UniqueID)
	assert.Equal(t, "MAT-002", rows[0].ItemCode)
	assert.Equal(t, "EAN13", rows[0].BarcodeType)

	rows, err = svc.Search(context.Background(), "C001", SearchRequest{Query: "CEMENT"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "product-1", rows[0].UniqueID)
}
