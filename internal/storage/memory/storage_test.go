package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Catalog tests

func (s *StorageSuite) TestSaveAndGetCatalog() {
	catalog := testutil.SampleCatalog()

	err := s.storage.SaveCatalog(s.ctx, &catalog)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetCatalog(s.ctx)
	s.Require().NoError(err)
	// Stored copies carry empty rosters rather than nil ones
	s.Equal(catalog.Clone(), *retrieved)
	s.NotNil(retrieved.Teams[0].Players)
}

func (s *StorageSuite) TestGetCatalogNotFound() {
	_, err := s.storage.GetCatalog(s.ctx)
	s.ErrorIs(err, model.ErrCatalogNotFound)
}

func (s *StorageSuite) TestCatalogIsCopied() {
	catalog := testutil.SampleCatalog()
	s.Require().NoError(s.storage.SaveCatalog(s.ctx, &catalog))

	catalog.Teams[0].Name = "Changed"
	retrieved, err := s.storage.GetCatalog(s.ctx)
	s.Require().NoError(err)
	s.Equal("Mumbai", retrieved.Teams[0].Name)

	retrieved.Players[0].Name = "Changed"
	again, err := s.storage.GetCatalog(s.ctx)
	s.Require().NoError(err)
	s.Equal("Rohit", again.Players[0].Name)
}

// Sale ledger tests

func (s *StorageSuite) TestSalesKeepOrder() {
	now := time.Now()
	for i, id := range []model.PlayerID{"P1", "P2", "P3"} {
		err := s.storage.AppendSale(s.ctx, &model.SaleRecord{PlayerID: id, Amount: int64(i+1) * 100, SoldAt: now})
		s.Require().NoError(err)
	}

	sales, err := s.storage.ListSales(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sales, 3)
	s.Equal(model.PlayerID("P1"), sales[0].PlayerID)
	s.Equal(model.PlayerID("P3"), sales[2].PlayerID)
}

func (s *StorageSuite) TestListSalesEmpty() {
	sales, err := s.storage.ListSales(s.ctx)
	s.Require().NoError(err)
	s.NotNil(sales)
	s.Empty(sales)
}

func (s *StorageSuite) TestClearSales() {
	s.Require().NoError(s.storage.AppendSale(s.ctx, &model.SaleRecord{PlayerID: "P1"}))
	s.Require().NoError(s.storage.ClearSales(s.ctx))

	sales, err := s.storage.ListSales(s.ctx)
	s.Require().NoError(err)
	s.Empty(sales)
}
