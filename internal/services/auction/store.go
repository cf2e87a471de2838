// Package auction holds the authoritative auction state.
//
// The Store is the only writer. Each mutation validates against the current
// snapshot, builds a new snapshot, swaps it in and notifies observers, all
// under one lock. Snapshots are never modified after they are published.
package auction

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/auctionhouse/internal/dependencies/clock"
	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/bidding"
	"github.com/mcoot/auctionhouse/internal/services/progression"
)

// Store is the single source of truth for the auction
type Store struct {
	mu        sync.RWMutex
	state     *model.AuctionState
	observers []Observer

	policy bidding.Policy
	clock  clock.Clock
	logger *slog.Logger
}

// Config holds configuration for the store
type Config struct {
	Policy bidding.Policy
}

// NewStore creates a store with the auction opened from the catalog
func NewStore(catalog model.Catalog, cfg Config, clock clock.Clock, logger *slog.Logger) *Store {
	return &Store{
		state:  progression.Initial(catalog),
		policy: cfg.Policy,
		clock:  clock,
		logger: logger,
	}
}

// Subscribe registers an observer for committed changes.
// It returns the snapshot the observer's first change will follow.
func (s *Store) Subscribe(o Observer) *model.AuctionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
	return s.state
}

// State returns the current snapshot. It must be treated as read-only.
func (s *Store) State() *model.AuctionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// PublicState returns the current snapshot with credentials removed
func (s *Store) PublicState() *model.AuctionState {
	return s.State().Redacted()
}

// Policy returns the bid policy in force
func (s *Store) Policy() bidding.Policy {
	return s.policy
}

// commit publishes next and notifies observers. Caller must hold s.mu.
func (s *Store) commit(kind ChangeKind, next *model.AuctionState, partial bool, events ...model.Event) *model.AuctionState {
	s.state = next
	change := Change{Kind: kind, State: next, Partial: partial, Events: events}
	for _, o := range s.observers {
		o.Observe(change)
	}
	return next
}

func (s *Store) event(t model.EventType) model.Event {
	return model.Event{Type: t, Timestamp: s.clock.Now()}
}

// lotEvents describes the lot opened by a transition
func (s *Store) lotEvents(lot progression.Lot) []model.Event {
	if lot.Player != nil {
		e := s.event(model.EventLotOpened)
		e.PlayerID = lot.Player.ID
		e.Payload = model.LotOpenedPayload{Set: lot.Set, BasePrice: lot.Player.BasePrice}
		return []model.Event{e}
	}
	if lot.Complete {
		return []model.Event{s.event(model.EventAuctionComplete)}
	}
	return nil
}

// ApplyBid validates a bid and, if accepted, makes it the leading bid
func (s *Store) ApplyBid(req model.BidRequest) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := bidding.Validate(req, s.state, s.policy); err != nil {
		return nil, err
	}

	next := s.state.Clone()
	team := next.Teams[next.FindTeam(req.TeamID)].Clone()
	bid := model.Bid{
		ID:        len(next.BidHistory) + 1,
		TeamID:    team.ID,
		TeamName:  team.Name,
		Amount:    req.Amount,
		Timestamp: s.clock.Now(),
		PlayerID:  next.CurrentPlayer.ID,
	}
	next.CurrentBid = req.Amount
	next.LeadingTeam = &team
	next.BidHistory = append(next.BidHistory, bid)

	e := s.event(model.EventBidPlaced)
	e.PlayerID = bid.PlayerID
	e.TeamID = bid.TeamID
	e.Payload = model.BidPlacedPayload{Bid: bid}

	s.logger.Debug("bid accepted",
		slog.String("player_id", string(bid.PlayerID)),
		slog.String("team_id", string(bid.TeamID)),
		slog.Int64("amount", bid.Amount))

	return s.commit(ChangeBid, next, true, e), nil
}

// ConfirmSale sells the current lot to the leading team at the current bid
func (s *Store) ConfirmSale() (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := progression.ConfirmSale(s.state, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.commitSale(out), nil
}

// ApplySale sells a lot to a team at an amount chosen by the auctioneer
func (s *Store) ApplySale(teamID model.TeamID, playerID model.PlayerID, amount int64) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := progression.ApplySale(s.state, teamID, playerID, amount, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.commitSale(out), nil
}

func (s *Store) commitSale(out progression.Outcome) *model.AuctionState {
	e := s.event(model.EventPlayerSold)
	e.PlayerID = out.Sale.PlayerID
	e.TeamID = out.Sale.TeamID
	e.Payload = model.PlayerSoldPayload{Sale: *out.Sale}

	s.logger.Info("player sold",
		slog.String("player_id", string(out.Sale.PlayerID)),
		slog.String("team_id", string(out.Sale.TeamID)),
		slog.Int64("amount", out.Sale.Amount))

	events := append([]model.Event{e}, s.lotEvents(out.Lot)...)
	return s.commit(ChangeSale, out.State, false, events...)
}

// MarkUnsold closes the current lot without a sale
func (s *Store) MarkUnsold() (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := progression.MarkUnsold(s.state)
	if err != nil {
		return nil, err
	}

	e := s.event(model.EventPlayerUnsold)
	e.PlayerID = out.Resolved.ID
	e.Payload = model.PlayerUnsoldPayload{PlayerName: out.Resolved.Name, Set: out.Resolved.Set}

	s.logger.Info("player unsold", slog.String("player_id", string(out.Resolved.ID)))

	events := append([]model.Event{e}, s.lotEvents(out.Lot)...)
	return s.commit(ChangeUnsold, out.State, false, events...), nil
}

// ApplyLotAdvance opens a lot in a set. An empty playerID opens the set's first available player.
func (s *Store) ApplyLotAdvance(set string, playerID model.PlayerID) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := progression.AdvanceTo(s.state, set, playerID)
	if err != nil {
		return nil, err
	}
	return s.commit(ChangeLot, out.State, false, s.lotEvents(out.Lot)...), nil
}

// ChangeSet moves the auction to another set
func (s *Store) ChangeSet(set string) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.state.CurrentSet
	out, err := progression.ChangeSet(s.state, set)
	if err != nil {
		return nil, err
	}

	e := s.event(model.EventSetChanged)
	e.Payload = model.SetChangedPayload{From: from, To: set}

	s.logger.Info("set changed", slog.String("from", from), slog.String("to", set))

	events := append([]model.Event{e}, s.lotEvents(out.Lot)...)
	return s.commit(ChangeSet, out.State, false, events...), nil
}

// RequeueUnsold reopens unsold players from earlier sets in the pool set
func (s *Store) RequeueUnsold(pool string) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, moved, err := progression.RequeueUnsold(s.state, pool)
	if err != nil {
		return nil, err
	}

	e := s.event(model.EventUnsoldRequeued)
	e.Payload = model.UnsoldRequeuedPayload{Pool: pool, Players: moved}

	s.logger.Info("unsold players requeued", slog.String("pool", pool), slog.Int("count", len(moved)))

	return s.commit(ChangeRequeue, out.State, false, e), nil
}

// ApplyTeamsReplace replaces the team roster
func (s *Store) ApplyTeamsReplace(teams []model.Team) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := replaceTeams(next, teams); err != nil {
		return nil, err
	}
	if err := reconcileRosters(s.state, next, s.clock.Now()); err != nil {
		return nil, err
	}

	s.logger.Info("teams replaced", slog.Int("count", len(teams)))
	return s.commit(ChangeTeams, next, false, s.event(model.EventTeamsReplaced)), nil
}

// ApplyPlayersReplace replaces the player list and reopens the lot
func (s *Store) ApplyPlayersReplace(players []model.Player) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := replacePlayers(next, players); err != nil {
		return nil, err
	}
	if err := reconcileRosters(s.state, next, s.clock.Now()); err != nil {
		return nil, err
	}

	s.logger.Info("players replaced", slog.Int("count", len(players)))
	return s.commit(ChangePlayers, next, false, s.event(model.EventPlayersReplaced)), nil
}

// ApplyPlayerStatusUpdate merges player statuses by id.
// Only Available -> Unsold is accepted here; sales go through ApplySale.
func (s *Store) ApplyPlayerStatusUpdate(players []model.Player) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	currentResolved, err := mergeStatuses(next, players)
	if err != nil {
		return nil, err
	}

	events := []model.Event{s.event(model.EventStatusesUpdated)}
	if currentResolved {
		if len(next.BidHistory) > 0 {
			return nil, model.ErrBiddingStarted
		}
		out := progression.Reopen(next)
		next = out.State
		events = append(events, s.lotEvents(out.Lot)...)
	}

	return s.commit(ChangeStatuses, next, false, events...), nil
}

// ApplyPatch applies an admin bulk patch as a single mutation
func (s *Store) ApplyPatch(patch Patch) (*model.AuctionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Empty() {
		return nil, fmt.Errorf("%w: empty state update", model.ErrMalformedPayload)
	}

	next := s.state.Clone()
	if err := patch.apply(s.state, next, s.clock.Now()); err != nil {
		return nil, err
	}

	s.logger.Info("state patched",
		slog.Bool("teams", patch.Teams != nil),
		slog.Bool("players", patch.Players != nil),
		slog.Bool("sets", patch.Sets != nil),
		slog.Bool("lot", patch.CurrentSet != nil || patch.CurrentPlayer != nil))

	return s.commit(ChangePatch, next, false, s.lotEvents(lotOf(next))...), nil
}

// ResetToInitial rebuilds the auction from a catalog
func (s *Store) ResetToInitial(catalog model.Catalog) (*model.AuctionState, error) {
	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := progression.Initial(catalog)

	s.logger.Info("auction reset",
		slog.Int("teams", len(next.Teams)),
		slog.Int("players", len(next.Players)))

	events := append([]model.Event{s.event(model.EventAuctionReset)}, s.lotEvents(lotOf(next))...)
	return s.commit(ChangeReset, next, false, events...), nil
}

// TeamExists reports whether a team with the given id is on the roster
func (s *Store) TeamExists(id model.TeamID) bool {
	return s.State().FindTeam(id) >= 0
}

// TeamPasswordHash returns the stored credential for a team
func (s *Store) TeamPasswordHash(id model.TeamID) (string, error) {
	state := s.State()
	idx := state.FindTeam(id)
	if idx < 0 {
		return "", model.ErrUnknownTeam
	}
	return state.Teams[idx].Password, nil
}

func lotOf(state *model.AuctionState) progression.Lot {
	if state.CurrentPlayer == nil {
		return progression.Lot{Set: state.CurrentSet, Complete: state.IsComplete()}
	}
	p := state.CurrentPlayer.Clone()
	return progression.Lot{Set: state.CurrentSet, Player: &p}
}
