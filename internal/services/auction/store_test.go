package auction

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/auctionhouse/internal/dependencies/clock"
	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/bidding"
	"github.com/mcoot/auctionhouse/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	store   *Store
	clock   *clockwork.FakeClock
	changes []Change
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.clock = clock.NewFake(time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC))
	s.store = NewStore(testutil.SampleCatalog(), Config{Policy: bidding.DefaultPolicy()}, s.clock, testutil.NopLogger())
	s.changes = nil
	s.store.Subscribe(ObserverFunc(func(c Change) {
		s.changes = append(s.changes, c)
	}))
}

func (s *StoreSuite) bid(teamID model.TeamID, amount int64) *model.AuctionState {
	state, err := s.store.ApplyBid(model.BidRequest{TeamID: teamID, Amount: amount})
	s.Require().NoError(err)
	return state
}

func (s *StoreSuite) sell(teamID model.TeamID, playerID model.PlayerID, amount int64) *model.AuctionState {
	s.bid(teamID, amount)
	state, err := s.store.ApplySale(teamID, playerID, amount)
	s.Require().NoError(err)
	return state
}

// requireRostersMatchSales checks that every sold player sits on exactly one
// roster, its buyer's, and that each purse accounts for its roster.
func (s *StoreSuite) requireRostersMatchSales(state *model.AuctionState) {
	onRoster := make(map[model.PlayerID][]model.TeamID)
	for _, t := range state.Teams {
		for _, a := range t.Players {
			onRoster[a.ID] = append(onRoster[a.ID], t.ID)
		}
		s.Equal(t.InitialPurse-t.Spent(), t.CurrentPurse, "purse of %s", t.ID)
	}
	for _, p := range state.Players {
		if p.Status == model.PlayerStatusSold {
			s.Require().NotNil(p.SoldTo)
			s.Equal([]model.TeamID{*p.SoldTo}, onRoster[p.ID], "rosters holding %s", p.ID)
		} else {
			s.Empty(onRoster[p.ID], "rosters holding %s", p.ID)
		}
	}
}

func (s *StoreSuite) kinds() []ChangeKind {
	out := make([]ChangeKind, len(s.changes))
	for i, c := range s.changes {
		out[i] = c.Kind
	}
	return out
}

func eventTypes(c Change) []model.EventType {
	out := make([]model.EventType, len(c.Events))
	for i, e := range c.Events {
		out[i] = e.Type
	}
	return out
}

// Bid tests

func (s *StoreSuite) TestApplyBidCommitsPartialChange() {
	state := s.bid("T1", 1_000_000)

	s.Equal(int64(1_000_000), state.CurrentBid)
	s.Require().NotNil(state.LeadingTeam)
	s.Equal(model.TeamID("T1"), state.LeadingTeam.ID)
	s.Require().Len(state.BidHistory, 1)
	s.Equal(1, state.BidHistory[0].ID)
	s.Equal(s.clock.Now(), state.BidHistory[0].Timestamp)
	s.Equal(model.PlayerID("P1"), state.BidHistory[0].PlayerID)

	s.Require().Len(s.changes, 1)
	s.Equal(ChangeBid, s.changes[0].Kind)
	s.True(s.changes[0].Partial)
	s.Same(state, s.changes[0].State)
	s.Equal([]model.EventType{model.EventBidPlaced}, eventTypes(s.changes[0]))
}

func (s *StoreSuite) TestRejectedBidLeavesStateUntouched() {
	s.bid("T1", 1_000_000)
	before := s.store.State()

	_, err := s.store.ApplyBid(model.BidRequest{TeamID: "T2", Amount: 1_100_000})

	s.ErrorIs(err, model.ErrBidTooLow)
	s.Same(before, s.store.State())
	s.Len(s.changes, 1, "rejected bid must not notify observers")
}

func (s *StoreSuite) TestBidIDsAreSequential() {
	s.bid("T1", 1_000_000)
	s.bid("T2", 1_200_000)
	state := s.bid("T1", 1_400_000)

	s.Require().Len(state.BidHistory, 3)
	for i, b := range state.BidHistory {
		s.Equal(i+1, b.ID)
	}
}

func (s *StoreSuite) TestPublishedSnapshotsAreNotMutated() {
	first := s.store.State()
	s.bid("T1", 1_000_000)

	s.Nil(first.LeadingTeam)
	s.Empty(first.BidHistory)
	s.Equal(int64(1_000_000), first.CurrentBid)
}

func (s *StoreSuite) TestConcurrentBidsSerialize() {
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for _, team := range []model.TeamID{"T1", "T2"} {
		wg.Add(1)
		go func(team model.TeamID) {
			defer wg.Done()
			_, err := s.store.ApplyBid(model.BidRequest{TeamID: team, Amount: 1_000_000})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(team)
	}
	wg.Wait()

	s.Equal(1, accepted, "only one opening bid at the same amount can win")
	state := s.store.State()
	s.Len(state.BidHistory, 1)
	s.Equal(state.BidHistory[0].TeamID, state.LeadingTeam.ID)
}

// Sale tests

func (s *StoreSuite) TestConfirmSaleAdvancesAndEmitsEvents() {
	s.bid("T1", 1_000_000)
	state, err := s.store.ConfirmSale()
	s.Require().NoError(err)

	s.Equal(int64(4_000_000), state.Teams[0].CurrentPurse)
	s.Equal(model.PlayerStatusSold, state.Players[0].Status)
	s.Require().NotNil(state.CurrentPlayer)
	s.Equal(model.PlayerID("P2"), state.CurrentPlayer.ID)

	last := s.changes[len(s.changes)-1]
	s.Equal(ChangeSale, last.Kind)
	s.False(last.Partial)
	s.Equal([]model.EventType{model.EventPlayerSold, model.EventLotOpened}, eventTypes(last))
	sold, ok := last.Events[0].Payload.(model.PlayerSoldPayload)
	s.Require().True(ok)
	s.Equal(int64(1_000_000), sold.Sale.Amount)
	s.Equal(s.clock.Now(), sold.Sale.SoldAt)
}

func (s *StoreSuite) TestApplySaleRejectsNonLeader() {
	s.bid("T1", 1_000_000)
	_, err := s.store.ApplySale("T2", "P1", 1_200_000)
	s.ErrorIs(err, model.ErrSaleMismatch)
}

func (s *StoreSuite) TestMarkUnsoldAfterBidFails() {
	s.bid("T1", 1_000_000)
	_, err := s.store.MarkUnsold()
	s.ErrorIs(err, model.ErrBiddingStarted)
}

func (s *StoreSuite) TestMarkUnsoldAdvances() {
	state, err := s.store.MarkUnsold()
	s.Require().NoError(err)

	s.Equal(model.PlayerStatusUnsold, state.Players[0].Status)
	s.Equal(model.PlayerID("P2"), state.CurrentPlayer.ID)
	s.Equal([]model.EventType{model.EventPlayerUnsold, model.EventLotOpened}, eventTypes(s.changes[0]))
}

func (s *StoreSuite) TestLastLotEmitsAuctionComplete() {
	for range 5 {
		_, err := s.store.MarkUnsold()
		s.Require().NoError(err)
	}

	state := s.store.State()
	s.Nil(state.CurrentPlayer)
	s.Equal(int64(0), state.CurrentBid)
	last := s.changes[len(s.changes)-1]
	s.Equal([]model.EventType{model.EventPlayerUnsold, model.EventAuctionComplete}, eventTypes(last))

	_, err := s.store.MarkUnsold()
	s.ErrorIs(err, model.ErrNoActiveLot)
}

// Lot and set tests

func (s *StoreSuite) TestApplyLotAdvance() {
	s.bid("T1", 1_000_000)
	state, err := s.store.ApplyLotAdvance("Batsman", "P4")
	s.Require().NoError(err)

	s.Equal("Batsman", state.CurrentSet)
	s.Equal(model.PlayerID("P4"), state.CurrentPlayer.ID)
	s.Equal(int64(300_000), state.CurrentBid)
	s.Nil(state.LeadingTeam)
	s.Empty(state.BidHistory)
}

func (s *StoreSuite) TestApplyLotAdvanceRejectsPlayerOutsideSet() {
	_, err := s.store.ApplyLotAdvance("Bowler", "P3")
	s.ErrorIs(err, model.ErrPlayerNotInSet)
}

func (s *StoreSuite) TestChangeSetEmitsSetChanged() {
	_, err := s.store.ChangeSet("Bowler")
	s.Require().NoError(err)

	s.Require().Len(s.changes, 1)
	s.Equal([]model.EventType{model.EventSetChanged, model.EventLotOpened}, eventTypes(s.changes[0]))
	payload := s.changes[0].Events[0].Payload.(model.SetChangedPayload)
	s.Equal("Icon", payload.From)
	s.Equal("Bowler", payload.To)
}

func (s *StoreSuite) TestChangeSetUnknown() {
	_, err := s.store.ChangeSet("Wicketkeeper")
	s.ErrorIs(err, model.ErrUnknownSet)
	s.Empty(s.changes)
}

func (s *StoreSuite) TestRequeueUnsold() {
	_, err := s.store.MarkUnsold()
	s.Require().NoError(err)

	state, err := s.store.RequeueUnsold("Bowler")
	s.Require().NoError(err)

	idx := state.FindPlayer("P1")
	s.Equal("Bowler", state.Players[idx].Set)
	s.Equal(model.PlayerStatusAvailable, state.Players[idx].Status)
	payload := s.changes[1].Events[0].Payload.(model.UnsoldRequeuedPayload)
	s.Equal([]model.PlayerID{"P1"}, payload.Players)
}

// Replace tests

func (s *StoreSuite) TestTeamsReplaceRecomputesPurse() {
	teams := testutil.SampleCatalog().Teams
	price := int64(700_000)
	soldTo := model.TeamID("T2")
	teams[1].Players = []model.AcquiredPlayer{{
		Player: model.Player{ID: "X1", Name: "Old", Set: "Icon", BasePrice: 500_000,
			Status: model.PlayerStatusSold, SoldTo: &soldTo, SoldPrice: &price},
	}}
	teams[1].CurrentPurse = 1

	state, err := s.store.ApplyTeamsReplace(teams)
	s.Require().NoError(err)
	s.Equal(int64(4_300_000), state.Teams[1].CurrentPurse)
}

func (s *StoreSuite) TestTeamsReplaceRejectsOverspend() {
	teams := testutil.SampleCatalog().Teams
	price := int64(2_000_000)
	teams[2].Players = []model.AcquiredPlayer{{Player: model.Player{ID: "X1", BasePrice: 1, SoldPrice: &price}}}

	_, err := s.store.ApplyTeamsReplace(teams)
	s.ErrorIs(err, model.ErrInvalidCatalog)
}

func (s *StoreSuite) TestTeamsReplaceRejectsDuplicates() {
	teams := testutil.SampleCatalog().Teams
	teams[1].ID = "T1"
	_, err := s.store.ApplyTeamsReplace(teams)
	s.ErrorIs(err, model.ErrInvalidCatalog)
}

func (s *StoreSuite) TestTeamsReplaceDroppingLeaderClearsBids() {
	s.bid("T1", 1_000_000)
	teams := testutil.SampleCatalog().Teams[1:]

	state, err := s.store.ApplyTeamsReplace(teams)
	s.Require().NoError(err)
	s.Nil(state.LeadingTeam)
	s.Empty(state.BidHistory)
	s.Equal(int64(1_000_000), state.CurrentBid)
}

func (s *StoreSuite) TestTeamsReplaceRefreshesLeader() {
	s.bid("T1", 1_000_000)
	teams := testutil.SampleCatalog().Teams
	teams[0].Name = "Mumbai Indians"

	state, err := s.store.ApplyTeamsReplace(teams)
	s.Require().NoError(err)
	s.Equal("Mumbai Indians", state.LeadingTeam.Name)
	s.Len(state.BidHistory, 1)
}

func (s *StoreSuite) TestTeamsReplaceKeepsSoldPlayersOnRoster() {
	soldAt := s.clock.Now()
	s.sell("T1", "P1", 1_000_000)
	s.clock.Advance(time.Hour)

	state, err := s.store.ApplyTeamsReplace(testutil.SampleCatalog().Teams)
	s.Require().NoError(err)

	s.Equal(int64(4_000_000), state.Teams[0].CurrentPurse)
	s.Require().Len(state.Teams[0].Players, 1)
	s.Equal(model.PlayerID("P1"), state.Teams[0].Players[0].ID)
	s.Equal(soldAt, state.Teams[0].Players[0].PurchaseDate)
	s.requireRostersMatchSales(state)
}

func (s *StoreSuite) TestTeamsReplaceRejectsMissingBuyer() {
	s.sell("T1", "P1", 1_000_000)
	before := len(s.changes)

	_, err := s.store.ApplyTeamsReplace(testutil.SampleCatalog().Teams[1:])
	s.ErrorIs(err, model.ErrInvalidCatalog)
	s.Len(s.changes, before)
	s.requireRostersMatchSales(s.store.State())
}

func (s *StoreSuite) TestTeamsReplaceRejectsRosterOfAnotherTeam() {
	state := s.sell("T1", "P1", 1_000_000)
	teams := testutil.SampleCatalog().Teams
	teams[1].Players = []model.AcquiredPlayer{{Player: state.Players[0].Clone()}}

	_, err := s.store.ApplyTeamsReplace(teams)
	s.ErrorIs(err, model.ErrInvalidCatalog)
}

func (s *StoreSuite) TestPlayersReplaceRejectsStatusRegression() {
	s.sell("T1", "P1", 1_000_000)
	_, err := s.store.ApplyPlayerStatusUpdate([]model.Player{{ID: "P2", Status: model.PlayerStatusUnsold}})
	s.Require().NoError(err)

	for _, id := range []model.PlayerID{"P1", "P2"} {
		players := s.store.State().Clone().Players
		idx := s.store.State().FindPlayer(id)
		players[idx].Status = model.PlayerStatusAvailable
		players[idx].SoldTo = nil
		players[idx].SoldPrice = nil

		_, err := s.store.ApplyPlayersReplace(players)
		s.ErrorIs(err, model.ErrStatusRegression, string(id))
	}

	_, err = s.store.ApplyPlayersReplace(testutil.SampleCatalog().Players)
	s.ErrorIs(err, model.ErrStatusRegression)

	state := s.store.State()
	s.Equal(model.PlayerStatusSold, state.Players[0].Status)
	s.requireRostersMatchSales(state)
}

func (s *StoreSuite) TestPlayersReplaceRejectsRewrittenSale() {
	s.sell("T1", "P1", 1_000_000)
	players := s.store.State().Clone().Players
	buyer := model.TeamID("T2")
	players[0].SoldTo = &buyer

	_, err := s.store.ApplyPlayersReplace(players)
	s.ErrorIs(err, model.ErrInvalidCatalog)
}

func (s *StoreSuite) TestPlayersReplaceRefreshesRosterEntries() {
	s.sell("T1", "P1", 1_000_000)
	players := s.store.State().Clone().Players
	players[0].Name = "Rohit Sharma"

	state, err := s.store.ApplyPlayersReplace(players)
	s.Require().NoError(err)
	s.Require().Len(state.Teams[0].Players, 1)
	s.Equal("Rohit Sharma", state.Teams[0].Players[0].Name)
	s.Equal(int64(4_000_000), state.Teams[0].CurrentPurse)
	s.requireRostersMatchSales(state)
}

func (s *StoreSuite) TestPlayersReplaceRecordsUploadedSale() {
	players := testutil.SampleCatalog().Players
	buyer := model.TeamID("T2")
	price := int64(300_000)
	players[4].Status = model.PlayerStatusSold
	players[4].SoldTo = &buyer
	players[4].SoldPrice = &price

	state, err := s.store.ApplyPlayersReplace(players)
	s.Require().NoError(err)
	s.Equal(int64(4_700_000), state.Teams[1].CurrentPurse)
	s.Require().Len(state.Teams[1].Players, 1)
	s.Equal(s.clock.Now(), state.Teams[1].Players[0].PurchaseDate)
	s.requireRostersMatchSales(state)

	unknown := model.TeamID("T9")
	players = state.Clone().Players
	players[3].Status = model.PlayerStatusSold
	players[3].SoldTo = &unknown
	players[3].SoldPrice = &price
	_, err = s.store.ApplyPlayersReplace(players)
	s.ErrorIs(err, model.ErrInvalidCatalog)
}

func (s *StoreSuite) TestPatchWithTeamsAndPlayersStaysConsistent() {
	s.sell("T1", "P1", 1_000_000)
	state := s.store.State().Clone()
	state.Teams[0].Players = nil
	state.Players[1].Name = "Jasprit Bumrah"

	next, err := s.store.ApplyPatch(Patch{Teams: &state.Teams, Players: &state.Players})
	s.Require().NoError(err)
	s.Equal(int64(4_000_000), next.Teams[0].CurrentPurse)
	s.requireRostersMatchSales(next)
}

func (s *StoreSuite) TestPlayersReplaceKeepsOpenLot() {
	s.bid("T1", 1_000_000)
	players := testutil.SampleCatalog().Players
	players[0].Name = "Rohit Sharma"

	state, err := s.store.ApplyPlayersReplace(players)
	s.Require().NoError(err)
	s.Equal("Rohit Sharma", state.CurrentPlayer.Name)
	s.Len(state.BidHistory, 1)
}

func (s *StoreSuite) TestPlayersReplaceReopensWhenLotRemoved() {
	players := testutil.SampleCatalog().Players[1:]

	state, err := s.store.ApplyPlayersReplace(players)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("P2"), state.CurrentPlayer.ID)
	s.Equal(int64(800_000), state.CurrentBid)
}

func (s *StoreSuite) TestPlayersReplaceValidates() {
	cases := map[string]func(p []model.Player){
		"unknown set":    func(p []model.Player) { p[0].Set = "Umpire" },
		"zero price":     func(p []model.Player) { p[0].BasePrice = 0 },
		"duplicate id":   func(p []model.Player) { p[1].ID = "P1" },
		"bad status":     func(p []model.Player) { p[0].Status = "Retired" },
		"sold no record": func(p []model.Player) { p[0].Status = model.PlayerStatusSold },
	}
	for name, mutate := range cases {
		players := testutil.SampleCatalog().Players
		mutate(players)
		_, err := s.store.ApplyPlayersReplace(players)
		s.ErrorIs(err, model.ErrInvalidCatalog, name)
	}
	s.Empty(s.changes)
}

// Status update tests

func (s *StoreSuite) TestStatusUpdateOnCurrentLotAdvances() {
	state, err := s.store.ApplyPlayerStatusUpdate([]model.Player{{ID: "P1", Status: model.PlayerStatusUnsold}})
	s.Require().NoError(err)

	s.Equal(model.PlayerStatusUnsold, state.Players[0].Status)
	s.Equal(model.PlayerID("P2"), state.CurrentPlayer.ID)
	s.Equal([]model.EventType{model.EventStatusesUpdated, model.EventLotOpened}, eventTypes(s.changes[0]))
}

func (s *StoreSuite) TestStatusUpdateRejectsSold() {
	_, err := s.store.ApplyPlayerStatusUpdate([]model.Player{{ID: "P3", Status: model.PlayerStatusSold}})
	s.ErrorIs(err, model.ErrSaleMismatch)
}

func (s *StoreSuite) TestStatusUpdateRejectsRegression() {
	_, err := s.store.MarkUnsold()
	s.Require().NoError(err)

	_, err = s.store.ApplyPlayerStatusUpdate([]model.Player{{ID: "P1", Status: model.PlayerStatusAvailable}})
	s.ErrorIs(err, model.ErrStatusRegression)
}

func (s *StoreSuite) TestStatusUpdateUnknownPlayer() {
	_, err := s.store.ApplyPlayerStatusUpdate([]model.Player{{ID: "P99", Status: model.PlayerStatusUnsold}})
	s.ErrorIs(err, model.ErrUnknownPlayer)
}

func (s *StoreSuite) TestStatusUpdateOnBidLotFails() {
	s.bid("T1", 1_000_000)
	_, err := s.store.ApplyPlayerStatusUpdate([]model.Player{{ID: "P1", Status: model.PlayerStatusUnsold}})
	s.ErrorIs(err, model.ErrBiddingStarted)
	s.Equal(model.PlayerStatusAvailable, s.store.State().Players[0].Status)
}

// Patch tests

func (s *StoreSuite) TestEmptyPatchIsMalformed() {
	_, err := s.store.ApplyPatch(Patch{})
	s.ErrorIs(err, model.ErrMalformedPayload)
}

func (s *StoreSuite) TestPatchMovesLot() {
	set := "Batsman"
	state, err := s.store.ApplyPatch(Patch{CurrentSet: &set})
	s.Require().NoError(err)
	s.Equal(model.PlayerID("P3"), state.CurrentPlayer.ID)
	s.Equal(ChangePatch, s.changes[0].Kind)
	s.Equal([]model.EventType{model.EventLotOpened}, eventTypes(s.changes[0]))
}

func (s *StoreSuite) TestPatchIsAtomic() {
	teams := []model.Team{{ID: "T9", Name: "New", InitialPurse: 100}}
	players := []model.Player{{ID: "P1", Name: "Bad", Set: "Nowhere", BasePrice: 1}}

	_, err := s.store.ApplyPatch(Patch{Teams: &teams, Players: &players})
	s.ErrorIs(err, model.ErrInvalidCatalog)
	s.Len(s.store.State().Teams, 3)
}

func (s *StoreSuite) TestPatchSetsRejectsOrphanPlayers() {
	sets := []string{"Icon", "Batsman"}
	_, err := s.store.ApplyPatch(Patch{Sets: &sets})
	s.ErrorIs(err, model.ErrInvalidCatalog)
}

// Reset tests

func (s *StoreSuite) TestResetToInitial() {
	s.bid("T1", 1_000_000)
	_, err := s.store.ConfirmSale()
	s.Require().NoError(err)

	state, err := s.store.ResetToInitial(testutil.SampleCatalog())
	s.Require().NoError(err)
	s.Equal(int64(5_000_000), state.Teams[0].CurrentPurse)
	s.Equal(model.PlayerID("P1"), state.CurrentPlayer.ID)
	s.Equal(model.PlayerStatusAvailable, state.Players[0].Status)

	last := s.changes[len(s.changes)-1]
	s.Equal(ChangeReset, last.Kind)
	s.Equal([]model.EventType{model.EventAuctionReset, model.EventLotOpened}, eventTypes(last))
}

func (s *StoreSuite) TestResetRejectsInvalidCatalog() {
	c := testutil.SampleCatalog()
	c.Players[0].BasePrice = -1
	_, err := s.store.ResetToInitial(c)
	s.ErrorIs(err, model.ErrInvalidCatalog)
}

// Read tests

func (s *StoreSuite) TestPublicStateRedactsPasswords() {
	teams := testutil.SampleCatalog().Teams
	teams[0].Password = "$2a$10$hash"
	_, err := s.store.ApplyTeamsReplace(teams)
	s.Require().NoError(err)
	s.bid("T1", 1_000_000)

	public := s.store.PublicState()
	s.Empty(public.Teams[0].Password)
	s.Empty(public.LeadingTeam.Password)
	s.Equal("$2a$10$hash", s.store.AdminState().Teams[0].Password)

	hash, err := s.store.TeamPasswordHash("T1")
	s.Require().NoError(err)
	s.Equal("$2a$10$hash", hash)
	_, err = s.store.TeamPasswordHash("T9")
	s.True(errors.Is(err, model.ErrUnknownTeam))
}

func (s *StoreSuite) TestSetProgress() {
	s.bid("T1", 1_000_000)
	_, err := s.store.ConfirmSale()
	s.Require().NoError(err)
	_, err = s.store.MarkUnsold()
	s.Require().NoError(err)

	progress := s.store.SetProgress()
	s.Require().Len(progress, 3)
	s.Equal(model.SetProgress{Set: "Icon", Total: 2, Sold: 1, Unsold: 1, Percentage: 50}, progress[0])
	s.Equal(model.SetProgress{Set: "Batsman", Total: 2, Available: 2}, progress[1])
}

func (s *StoreSuite) TestUpcomingPlayersExcludesCurrentLot() {
	_, err := s.store.ChangeSet("Batsman")
	s.Require().NoError(err)

	upcoming := s.store.UpcomingPlayers(0)
	s.Require().Len(upcoming, 1)
	s.Equal(model.PlayerID("P4"), upcoming[0].ID)
}

func (s *StoreSuite) TestTeamsByPurse() {
	s.bid("T1", 1_000_000)
	_, err := s.store.ConfirmSale()
	s.Require().NoError(err)

	teams := s.store.TeamsByPurse()
	s.Equal([]model.TeamID{"T2", "T1", "T3"}, []model.TeamID{teams[0].ID, teams[1].ID, teams[2].ID})
}

func (s *StoreSuite) TestObserversSeeCommitOrder() {
	s.bid("T1", 1_000_000)
	s.bid("T2", 1_200_000)
	_, err := s.store.ConfirmSale()
	s.Require().NoError(err)
	_, err = s.store.MarkUnsold()
	s.Require().NoError(err)

	s.Equal([]ChangeKind{ChangeBid, ChangeBid, ChangeSale, ChangeUnsold}, s.kinds())
}
