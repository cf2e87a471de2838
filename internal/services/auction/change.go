package auction

import "github.com/mcoot/auctionhouse/internal/model"

// ChangeKind names the mutation that produced a Change
type ChangeKind string

const (
	ChangeBid      ChangeKind = "bid"
	ChangeSale     ChangeKind = "sale"
	ChangeUnsold   ChangeKind = "unsold"
	ChangeLot      ChangeKind = "lot"
	ChangeSet      ChangeKind = "set"
	ChangeTeams    ChangeKind = "teams"
	ChangePlayers  ChangeKind = "players"
	ChangeStatuses ChangeKind = "statuses"
	ChangePatch    ChangeKind = "patch"
	ChangeRequeue  ChangeKind = "requeue"
	ChangeReset    ChangeKind = "reset"
)

// Change is emitted once for every committed mutation
type Change struct {
	Kind  ChangeKind
	State *model.AuctionState

	// Partial is true when only currentBid, leadingTeam and bidHistory changed
	Partial bool

	Events []model.Event
}

// Observer receives committed changes in commit order.
// Observe runs while the store holds its mutation lock and must not block on I/O.
type Observer interface {
	Observe(change Change)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(change Change)

// Observe calls f(change)
func (f ObserverFunc) Observe(change Change) {
	f(change)
}
