// Package bidding decides whether a proposed bid may be accepted.
// Everything here is pure: no locking, no I/O.
package bidding

import (
	"errors"
	"fmt"

	"github.com/mcoot/auctionhouse/internal/model"
)

// Reason is the machine-readable cause of a rejected bid
type Reason string

const (
	ReasonNoActiveLot        Reason = "NoActiveLot"
	ReasonLotAlreadyResolved Reason = "LotAlreadyResolved"
	ReasonUnknownTeam        Reason = "UnknownTeam"
	ReasonSelfOutbid         Reason = "SelfOutbid"
	ReasonInsufficientFunds  Reason = "InsufficientFunds"
	ReasonBidTooLow          Reason = "BidTooLow"
)

// Rejection is returned when a bid fails validation
type Rejection struct {
	Reason  Reason
	Message string
	err     error
}

func (r *Rejection) Error() string {
	return r.Message
}

// Unwrap exposes the model sentinel so callers can use errors.Is
func (r *Rejection) Unwrap() error {
	return r.err
}

// AsRejection extracts a Rejection from err
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

func reject(reason Reason, sentinel error, format string, args ...any) *Rejection {
	return &Rejection{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
		err:     sentinel,
	}
}

// Policy holds the configurable parts of bid validation
type Policy struct {
	// AllowSelfOutbid lets the leading team raise its own bid
	AllowSelfOutbid bool
}

// DefaultPolicy returns the default bid policy
func DefaultPolicy() Policy {
	return Policy{AllowSelfOutbid: false}
}

// Validate checks a bid against the current state.
// Checks run in a fixed order and the first failure is returned.
func Validate(req model.BidRequest, state *model.AuctionState, policy Policy) error {
	lot := state.CurrentPlayer
	if lot == nil {
		return reject(ReasonNoActiveLot, model.ErrNoActiveLot, "There is no player up for auction")
	}
	if req.PlayerID != "" && req.PlayerID != lot.ID {
		return reject(ReasonLotAlreadyResolved, model.ErrLotAlreadyResolved,
			"Bid targets player %s but the current lot is %s", req.PlayerID, lot.ID)
	}
	idx := state.FindPlayer(lot.ID)
	if idx < 0 || !state.Players[idx].IsAvailable() {
		return reject(ReasonLotAlreadyResolved, model.ErrLotAlreadyResolved,
			"%s is no longer available", lot.Name)
	}

	teamIdx := state.FindTeam(req.TeamID)
	if teamIdx < 0 {
		return reject(ReasonUnknownTeam, model.ErrUnknownTeam, "Team %s does not exist", req.TeamID)
	}
	team := &state.Teams[teamIdx]

	if !policy.AllowSelfOutbid && state.LeadingTeam != nil && state.LeadingTeam.ID == team.ID {
		return reject(ReasonSelfOutbid, model.ErrSelfOutbid, "%s already holds the leading bid", team.Name)
	}

	if team.CurrentPurse < req.Amount {
		return reject(ReasonInsufficientFunds, model.ErrInsufficientFunds,
			"%s cannot afford %d (purse %d)", team.Name, req.Amount, team.CurrentPurse)
	}

	minimum := NextMinimumBid(state)
	if req.Amount < minimum {
		return reject(ReasonBidTooLow, model.ErrBidTooLow,
			"Bid of %d is below the minimum of %d", req.Amount, minimum)
	}

	return nil
}

// NextMinimumBid returns the lowest amount the next bid may carry.
// The opening bid may equal the base price; later bids must clear the step.
func NextMinimumBid(state *model.AuctionState) int64 {
	if state.CurrentPlayer == nil {
		return 0
	}
	if len(state.BidHistory) == 0 {
		return state.CurrentPlayer.BasePrice
	}
	return state.CurrentBid + Step(state.CurrentBid)
}
