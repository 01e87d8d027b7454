package requisition

import (
	"context"

	"github.com/erp/requisition/internal/domain/catalog"
)

// CatalogIndexProvider returns the client's current resolution index
type CatalogIndexProvider interface {
	Index(ctx context.Context, clientID string) (*catalog.Index, error)
}
