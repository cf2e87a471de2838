package memory

import (
	"context"
	"sync"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	catalog *model.Catalog
	sales   []model.SaleRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Catalog operations

func (s *Storage) SaveCatalog(ctx context.Context, catalog *model.Catalog) error {
	c := catalog.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = &c
	return nil
}

func (s *Storage) GetCatalog(ctx context.Context) (*model.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil, model.ErrCatalogNotFound
	}
	c := s.catalog.Clone()
	return &c, nil
}

// Sale ledger operations

func (s *Storage) AppendSale(ctx context.Context, sale *model.SaleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, *sale)
	return nil
}

func (s *Storage) ListSales(ctx context.Context) ([]model.SaleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SaleRecord{}, s.sales...), nil
}

func (s *Storage) ClearSales(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = nil
	return nil
}
