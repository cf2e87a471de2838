// Package progression resolves lots and moves the auction forward.
//
// Every function takes a snapshot, leaves it untouched, and returns a new state.
package progression

import (
	"fmt"
	"time"

	"github.com/mcoot/auctionhouse/internal/model"
)

// Lot describes the lot opened after a transition
type Lot struct {
	Set      string
	Player   *model.Player // nil when nothing is open
	Complete bool          // true when no set has an available player
}

// Outcome is the result of a state transition
type Outcome struct {
	State    *model.AuctionState
	Lot      Lot
	Resolved *model.Player     // the lot that was closed, if any
	Sale     *model.SaleRecord // set when the lot was sold
}

// ConfirmSale sells the current lot to the leading team at the current bid
func ConfirmSale(state *model.AuctionState, now time.Time) (Outcome, error) {
	if state.CurrentPlayer == nil || state.LeadingTeam == nil {
		return Outcome{}, model.ErrNoLeadingBid
	}
	return ApplySale(state, state.LeadingTeam.ID, state.CurrentPlayer.ID, state.CurrentBid, now)
}

// ApplySale sells a lot to a team at a given amount.
// The team must hold the leading bid and the amount may not undercut it.
func ApplySale(state *model.AuctionState, teamID model.TeamID, playerID model.PlayerID, amount int64, now time.Time) (Outcome, error) {
	lot := state.CurrentPlayer
	if lot == nil {
		return Outcome{}, model.ErrNoActiveLot
	}
	if playerID == "" {
		playerID = lot.ID
	}
	if playerID != lot.ID {
		return Outcome{}, fmt.Errorf("%w: player %s is not the current lot", model.ErrLotAlreadyResolved, playerID)
	}
	if state.LeadingTeam == nil {
		return Outcome{}, model.ErrNoLeadingBid
	}
	if teamID != state.LeadingTeam.ID {
		return Outcome{}, fmt.Errorf("%w: team %s is not the leading team", model.ErrSaleMismatch, teamID)
	}

	next := state.Clone()
	playerIdx := next.FindPlayer(playerID)
	if playerIdx < 0 {
		return Outcome{}, model.ErrUnknownPlayer
	}
	player := &next.Players[playerIdx]
	if !player.IsAvailable() {
		return Outcome{}, model.ErrLotAlreadyResolved
	}
	teamIdx := next.FindTeam(teamID)
	if teamIdx < 0 {
		return Outcome{}, model.ErrUnknownTeam
	}
	team := &next.Teams[teamIdx]

	if amount < state.CurrentBid || amount < player.BasePrice {
		return Outcome{}, fmt.Errorf("%w: amount %d is below the leading bid %d", model.ErrSaleMismatch, amount, state.CurrentBid)
	}
	if amount > team.CurrentPurse {
		return Outcome{}, model.ErrInsufficientFunds
	}

	soldTo := team.ID
	soldPrice := amount
	player.Status = model.PlayerStatusSold
	player.SoldTo = &soldTo
	player.SoldPrice = &soldPrice

	team.CurrentPurse -= amount
	team.Players = append(team.Players, model.AcquiredPlayer{
		Player:       player.Clone(),
		PurchaseDate: now,
	})

	resolved := player.Clone()
	sale := &model.SaleRecord{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Set:        player.Set,
		TeamID:     team.ID,
		TeamName:   team.Name,
		Amount:     amount,
		SoldAt:     now,
	}

	opened := advance(next)
	return Outcome{State: next, Lot: opened, Resolved: &resolved, Sale: sale}, nil
}

// MarkUnsold closes the current lot without a sale.
// It is only allowed before any bid has been placed.
func MarkUnsold(state *model.AuctionState) (Outcome, error) {
	if state.CurrentPlayer == nil {
		return Outcome{}, model.ErrNoActiveLot
	}
	if len(state.BidHistory) > 0 {
		return Outcome{}, model.ErrBiddingStarted
	}

	next := state.Clone()
	idx := next.FindPlayer(state.CurrentPlayer.ID)
	if idx < 0 {
		return Outcome{}, model.ErrUnknownPlayer
	}
	player := &next.Players[idx]
	if !player.IsAvailable() {
		return Outcome{}, model.ErrLotAlreadyResolved
	}
	player.Status = model.PlayerStatusUnsold
	resolved := player.Clone()

	opened := advance(next)
	return Outcome{State: next, Lot: opened, Resolved: &resolved}, nil
}

// ChangeSet moves the auction to a set and opens its first available player.
// If the set has none, no lot is open until the admin moves on.
func ChangeSet(state *model.AuctionState, set string) (Outcome, error) {
	if !state.HasSet(set) {
		return Outcome{}, fmt.Errorf("%w: %s", model.ErrUnknownSet, set)
	}
	next := state.Clone()
	player := firstAvailable(next, set)
	open(next, set, player)
	return Outcome{State: next, Lot: lotOf(next)}, nil
}

// AdvanceTo opens a specific lot. An empty playerID picks the first available player in set.
func AdvanceTo(state *model.AuctionState, set string, playerID model.PlayerID) (Outcome, error) {
	if playerID == "" {
		return ChangeSet(state, set)
	}
	if !state.HasSet(set) {
		return Outcome{}, fmt.Errorf("%w: %s", model.ErrUnknownSet, set)
	}
	next := state.Clone()
	idx := next.FindPlayer(playerID)
	if idx < 0 {
		return Outcome{}, fmt.Errorf("%w: %s", model.ErrUnknownPlayer, playerID)
	}
	player := &next.Players[idx]
	if player.Set != set {
		return Outcome{}, fmt.Errorf("%w: %s is in %s", model.ErrPlayerNotInSet, player.Name, player.Set)
	}
	if !player.IsAvailable() {
		return Outcome{}, fmt.Errorf("%w: %s", model.ErrLotAlreadyResolved, player.Name)
	}
	open(next, set, player)
	return Outcome{State: next, Lot: lotOf(next)}, nil
}

// RequeueUnsold moves unsold players from earlier sets into pool and makes them available there
func RequeueUnsold(state *model.AuctionState, pool string) (Outcome, []model.PlayerID, error) {
	poolIdx := model.SetIndex(state.Sets, pool)
	if poolIdx < 0 {
		return Outcome{}, nil, fmt.Errorf("%w: %s", model.ErrUnknownSet, pool)
	}

	next := state.Clone()
	var moved []model.PlayerID
	for i := range next.Players {
		p := &next.Players[i]
		if p.Status != model.PlayerStatusUnsold {
			continue
		}
		if origin := model.SetIndex(next.Sets, p.Set); origin < 0 || origin >= poolIdx {
			continue
		}
		p.Set = pool
		p.Status = model.PlayerStatusAvailable
		moved = append(moved, p.ID)
	}

	// Nothing open: the pool may now have something to auction
	if next.CurrentPlayer == nil && len(moved) > 0 {
		advance(next)
	}
	return Outcome{State: next, Lot: lotOf(next)}, moved, nil
}

// Initial builds a fresh auction from a catalog with the first available lot open
func Initial(c model.Catalog) *model.AuctionState {
	c = c.Clone()
	sets := c.Sets
	if len(sets) == 0 {
		sets = append([]string(nil), model.DefaultSets...)
	}

	state := &model.AuctionState{
		Teams:      c.Teams,
		Players:    c.Players,
		Sets:       sets,
		BidHistory: []model.Bid{},
	}
	if state.Teams == nil {
		state.Teams = []model.Team{}
	}
	if state.Players == nil {
		state.Players = []model.Player{}
	}
	for i := range state.Teams {
		t := &state.Teams[i]
		t.Players = []model.AcquiredPlayer{}
		t.CurrentPurse = t.InitialPurse
	}
	for i := range state.Players {
		p := &state.Players[i]
		p.Status = model.PlayerStatusAvailable
		p.SoldTo = nil
		p.SoldPrice = nil
	}

	state.CurrentSet = sets[0]
	advance(state)
	return state
}

// Reopen clears bidding and opens the next available lot from the current set
func Reopen(state *model.AuctionState) Outcome {
	next := state.Clone()
	lot := advance(next)
	return Outcome{State: next, Lot: lot}
}

// NextLot returns the lot the auction would move to from the current set
func NextLot(state *model.AuctionState) Lot {
	set, player := findNext(state)
	if player == nil {
		return Lot{Set: set, Complete: true}
	}
	p := player.Clone()
	return Lot{Set: set, Player: &p}
}

// advance opens the next available lot in place, or the terminal state
func advance(state *model.AuctionState) Lot {
	set, player := findNext(state)
	open(state, set, player)
	return lotOf(state)
}

// findNext scans the current set in stored order, then each following set.
// Sets skipped over by a manual set change are picked up last, so a nil
// result means no set has an available player. Every set is inspected once.
func findNext(state *model.AuctionState) (string, *model.Player) {
	start := model.SetIndex(state.Sets, state.CurrentSet)
	if start < 0 {
		start = 0
	}
	n := len(state.Sets)
	for i := 0; i < n; i++ {
		set := state.Sets[(start+i)%n]
		if p := firstAvailable(state, set); p != nil {
			return set, p
		}
	}
	return state.CurrentSet, nil
}

func firstAvailable(state *model.AuctionState, set string) *model.Player {
	for i := range state.Players {
		p := &state.Players[i]
		if p.Set == set && p.IsAvailable() {
			return p
		}
	}
	return nil
}

// open makes player the current lot and clears bidding
func open(state *model.AuctionState, set string, player *model.Player) {
	state.CurrentSet = set
	state.LeadingTeam = nil
	state.BidHistory = []model.Bid{}
	if player == nil {
		state.CurrentPlayer = nil
		state.CurrentBid = 0
		return
	}
	p := player.Clone()
	state.CurrentPlayer = &p
	state.CurrentBid = p.BasePrice
}

func lotOf(state *model.AuctionState) Lot {
	if state.CurrentPlayer == nil {
		return Lot{Set: state.CurrentSet, Complete: state.IsComplete()}
	}
	p := state.CurrentPlayer.Clone()
	return Lot{Set: state.CurrentSet, Player: &p}
}
