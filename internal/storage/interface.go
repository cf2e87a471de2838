package storage

import (
	"context"

	"github.com/mcoot/auctionhouse/internal/model"
)

// Storage defines the interface for data persistence.
// Only the uploaded catalog and the sale ledger are stored; live auction state stays in memory.
type Storage interface {
	// Catalog operations
	SaveCatalog(ctx context.Context, catalog *model.Catalog) error
	GetCatalog(ctx context.Context) (*model.Catalog, error)

	// Sale ledger operations
	AppendSale(ctx context.Context, sale *model.SaleRecord) error
	ListSales(ctx context.Context) ([]model.SaleRecord, error)
	ClearSales(ctx context.Context) error
}
