package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erp/requisition/internal/domain/catalog"
	"github.com/erp/requisition/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultIndexTTL is how long a built index is served before it is rebuilt
const DefaultIndexTTL = 5 * time.Minute

type cachedIndex struct {
	index   *catalog.Index
	builtAt time.Time
}

// CatalogService keeps one resolution index per client.
// Indexes are rebuilt wholesale from fresh snapshots, never patched.
type CatalogService struct {
	gateway catalog.CatalogGateway
	ttl     time.Duration
	logger  *zap.Logger
	metrics *telemetry.RequisitionMetrics
	now     func() time.Time

	mu      sync.RWMutex
	indexes map[string]cachedIndex
	builds  singleflight.Group
}

// NewCatalogService creates a new CatalogService. A non-positive ttl uses DefaultIndexTTL.
func NewCatalogService(gateway catalog.CatalogGateway, ttl time.Duration, logger *zap.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = DefaultIndexTTL
	}
	return &CatalogService{
		gateway: gateway,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		indexes: make(map[string]cachedIndex),
	}
}

// SetMetrics sets the requisition metrics collector
func (s *CatalogService) SetMetrics(m *telemetry.RequisitionMetrics) {
	s.metrics = m
}

// Index returns the client's index, building it when missing or expired
func (s *CatalogService) Index(ctx context.Context, clientID string) (*catalog.Index, error) {
	s.mu.RLock()
	cached, ok := s.indexes[clientID]
	s.mu.RUnlock()
	if ok && s.now().Sub(cached.builtAt) < s.ttl {
		return cached.index, nil
	}
	return s.build(ctx, clientID)
}

// Refresh drops the client's index and builds a new one
func (s *CatalogService) Refresh(ctx context.Context, clientID string) (*catalog.Index, error) {
	s.Invalidate(clientID)
	return s.build(ctx, clientID)
}

// Invalidate drops the client's cached index
func (s *CatalogService) Invalidate(clientID string) {
	s.mu.Lock()
	delete(s.indexes, clientID)
	s.mu.Unlock()
}

// Search returns the picker entries for a tab and free-text query
func (s *CatalogService) Search(ctx context.Context, clientID string, req SearchRequest) ([]EntryResponse, error) {
	idx, err := s.Index(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(idx.Search(catalog.ParseTab(req.Tab), req.Query)), nil
}

// build fetches both snapshots concurrently. Concurrent callers for the same
// client share one build.
func (s *CatalogService) build(ctx context.Context, clientID string) (*catalog.Index, error) {
	v, err, _ := s.builds.Do(clientID, func() (any, error) {
		started := s.now()

		var (
			items    []catalog.CatalogItem
			barcodes []catalog.BarcodeRecord
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			items, err = s.gateway.FetchCatalogItems(gctx, clientID)
			if err != nil {
				return fmt.Errorf("fetch catalog items: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			barcodes, err = s.gateway.FetchBarcodeRecords(gctx, clientID)
			if err != nil {
				return fmt.Errorf("fetch barcode records: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		idx := catalog.NewIndex(items, barcodes)
		s.mu.Lock()
		s.indexes[clientID] = cachedIndex{index: idx, builtAt: s.now()}
		s.mu.Unlock()

		elapsed := s.now().Sub(started)
		if s.metrics != nil {
			s.metrics.RecordCatalogRebuild(ctx, clientID, idx.Len(), elapsed)
		}
		s.logger.Info("Catalog index built",
			zap.String("client_id", clientID),
			zap.Int("items", len(items)),
			zap.Int("barcodes", len(barcodes)),
			zap.Int("entries", idx.Len()),
			zap.Duration("elapsed", elapsed),
		)
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.Index), nil
}
