package testutil

import "github.com/mcoot/auctionhouse/internal/model"

// SampleCatalog returns a small catalog with three sets, three teams and five players.
//
//	Icon:    P1 (1,000,000), P2 (800,000)
//	Batsman: P3 (500,000), P4 (300,000)
//	Bowler:  P5 (200,000)
func SampleCatalog() model.Catalog {
	return model.Catalog{
		Sets: []string{"Icon", "Batsman", "Bowler"},
		Teams: []model.Team{
			{ID: "T1", Name: "Mumbai", InitialPurse: 5_000_000, CurrentPurse: 5_000_000},
			{ID: "T2", Name: "Chennai", InitialPurse: 5_000_000, CurrentPurse: 5_000_000},
			{ID: "T3", Name: "Delhi", InitialPurse: 1_500_000, CurrentPurse: 1_500_000},
		},
		Players: []model.Player{
			{ID: "P1", Name: "Rohit", Set: "Icon", Category: "Batsman", BasePrice: 1_000_000, Status: model.PlayerStatusAvailable},
			{ID: "P2", Name: "Jasprit", Set: "Icon", Category: "Bowler", BasePrice: 800_000, Status: model.PlayerStatusAvailable},
			{ID: "P3", Name: "Shubman", Set: "Batsman", Category: "Batsman", BasePrice: 500_000, Status: model.PlayerStatusAvailable},
			{ID: "P4", Name: "Tilak", Set: "Batsman", Category: "Batsman", BasePrice: 300_000, Status: model.PlayerStatusAvailable},
			{ID: "P5", Name: "Arshdeep", Set: "Bowler", Category: "Bowler", BasePrice: 200_000, Status: model.PlayerStatusAvailable},
		},
	}
}

// StateWithLot builds an auction state from the catalog with the given player open for bidding
func StateWithLot(c model.Catalog, playerID model.PlayerID) *model.AuctionState {
	state := &model.AuctionState{
		Teams:      c.Teams,
		Players:    c.Players,
		Sets:       c.Sets,
		BidHistory: []model.Bid{},
	}
	state = state.Clone()
	if idx := state.FindPlayer(playerID); idx >= 0 {
		p := state.Players[idx].Clone()
		state.CurrentPlayer = &p
		state.CurrentSet = p.Set
		state.CurrentBid = p.BasePrice
	}
	return state
}
