package factory

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/bidding"
	"github.com/mcoot/auctionhouse/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *IntegrationSuite) bid(teamID model.TeamID, amount int64) {
	_, err := s.app.Store.ApplyBid(model.BidRequest{TeamID: teamID, Amount: amount})
	s.Require().NoError(err)
}

func (s *IntegrationSuite) sales() []model.SaleRecord {
	sales, err := s.app.Storage.ListSales(s.ctx)
	s.Require().NoError(err)
	return sales
}

func (s *IntegrationSuite) published(t model.EventType) bool {
	return slices.ContainsFunc(s.app.Events.Events(), func(e model.Event) bool {
		return e.Type == t
	})
}

// Test: a whole auction from first bid to completion
func (s *IntegrationSuite) TestCompleteAuctionFlow() {
	// Icon: P1 sells after a two-team contest
	s.bid("T1", 1_000_000)
	s.bid("T2", 1_200_000)
	_, err := s.app.Store.ApplySale("T2", "P1", 1_200_000)
	s.Require().NoError(err)

	// P2 goes unsold, then P3 to P5 sell at base price
	_, err = s.app.Store.MarkUnsold()
	s.Require().NoError(err)
	for _, team := range []model.TeamID{"T1", "T3", "T1"} {
		state := s.app.Store.State()
		s.Require().NotNil(state.CurrentPlayer)
		s.bid(team, state.CurrentPlayer.BasePrice)
		_, err := s.app.Store.ConfirmSale()
		s.Require().NoError(err)
	}

	state := s.app.Store.State()
	s.True(state.IsComplete())
	s.Nil(state.CurrentPlayer)

	var spent int64
	for _, t := range state.Teams {
		s.Equal(t.InitialPurse-t.Spent(), t.CurrentPurse, "purse conservation for %s", t.ID)
		spent += t.Spent()
	}
	s.Equal(int64(1_200_000+500_000+300_000+200_000), spent)

	s.Eventually(func() bool { return len(s.sales()) == 4 }, time.Second, 10*time.Millisecond)
	s.Eventually(func() bool { return s.published(model.EventAuctionComplete) }, time.Second, 10*time.Millisecond)

	first := s.sales()[0]
	s.Equal(model.PlayerID("P1"), first.PlayerID)
	s.Equal(model.TeamID("T2"), first.TeamID)
	s.Equal(int64(1_200_000), first.Amount)
}

// Test: the second of two equal-step bids is rejected
func (s *IntegrationSuite) TestScenarioABidTooLow() {
	s.bid("T1", 1_000_000)

	_, err := s.app.Store.ApplyBid(model.BidRequest{TeamID: "T2", Amount: 1_100_000})
	rejection, ok := bidding.AsRejection(err)
	s.Require().True(ok)
	s.Equal(bidding.ReasonBidTooLow, rejection.Reason)
	s.Equal(int64(1_000_000), s.app.Store.State().CurrentBid)
}

func (s *IntegrationSuite) TestResetClearsLedger() {
	s.bid("T1", 1_000_000)
	_, err := s.app.Store.ConfirmSale()
	s.Require().NoError(err)
	s.Eventually(func() bool { return len(s.sales()) == 1 }, time.Second, 10*time.Millisecond)

	c, err := s.app.LoadCatalog(s.ctx)
	s.Require().NoError(err)
	_, err = s.app.Store.ResetToInitial(c)
	s.Require().NoError(err)

	s.Eventually(func() bool { return len(s.sales()) == 0 }, time.Second, 10*time.Millisecond)
	state := s.app.Store.State()
	s.Equal(model.PlayerID("P1"), state.CurrentPlayer.ID)
	s.Equal(int64(5_000_000), state.Teams[0].CurrentPurse)
}

func (s *IntegrationSuite) TestLoadCatalogPrefersUploaded() {
	c, err := s.app.LoadCatalog(s.ctx)
	s.Require().NoError(err)
	s.Len(c.Players, 5)

	uploaded := testutil.SampleCatalog()
	uploaded.Players = uploaded.Players[:2]
	s.Require().NoError(s.app.Storage.SaveCatalog(s.ctx, &uploaded))

	c, err = s.app.LoadCatalog(s.ctx)
	s.Require().NoError(err)
	s.Len(c.Players, 2)
}

func (s *IntegrationSuite) TestBootCatalogPasswordsAreHashed() {
	s.Require().NoError(s.app.Close())

	c := testutil.SampleCatalog()
	c.Teams[0].Password = "mumbai123"
	s.app = NewTestApp(WithCatalog(c))
	s.app.MockRandom.QueueToken("TEAMTOKEN")

	hash, err := s.app.Store.TeamPasswordHash("T1")
	s.Require().NoError(err)
	s.NotEqual("mumbai123", hash)
	s.Empty(s.app.Store.PublicState().Teams[0].Password)

	session, err := s.app.AuthService.LoginTeam("T1", "mumbai123")
	s.Require().NoError(err)
	s.Equal("sess_TEAMTOKEN", session.Token)
	s.NoError(s.app.AuthService.AuthorizeIdentity(model.RoleTeam, "T1", session.Token))

	_, err = s.app.AuthService.LoginTeam("T1", "wrong")
	s.Error(err)
}

func (s *IntegrationSuite) TestInvalidBootCatalog() {
	c := testutil.SampleCatalog()
	c.Players[0].Set = "Nowhere"

	s.Panics(func() { NewTestApp(WithCatalog(c)) })
}

func (s *IntegrationSuite) TestExpiredSessionsAreSwept() {
	s.app.MockRandom.QueueToken("TEAMTOKEN")
	_, err := s.app.AuthService.LoginTeam("T1", "")
	s.Require().NoError(err)
	s.Equal(1, s.app.AuthService.SessionCount())

	ctx, cancel := context.WithTimeout(s.ctx, time.Second)
	defer cancel()
	s.Require().NoError(s.app.FakeClock.BlockUntilContext(ctx, 1))

	s.app.FakeClock.Advance(13 * time.Hour)
	s.Eventually(func() bool { return s.app.AuthService.SessionCount() == 0 }, time.Second, 10*time.Millisecond)
}
