package model

import "errors"

// Common errors used across the application
var (
	// Authorization errors
	ErrUnauthorized        = errors.New("action requires the admin role")
	ErrNotIdentified       = errors.New("device has not declared an identity")
	ErrTeamBindingRequired = errors.New("team role requires an existing team id")
	ErrInvalidRole         = errors.New("invalid role")
	ErrSessionNotFound     = errors.New("session not found")

	// Bid validation errors
	ErrNoActiveLot        = errors.New("no active lot")
	ErrLotAlreadyResolved = errors.New("lot already resolved")
	ErrUnknownTeam        = errors.New("unknown team")
	ErrSelfOutbid         = errors.New("team is already the leading bidder")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrBidTooLow          = errors.New("bid too low")

	// Sale and progression errors
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrUnknownSet       = errors.New("unknown set")
	ErrNoLeadingBid     = errors.New("no leading bid")
	ErrBiddingStarted   = errors.New("bidding has already started on this lot")
	ErrSaleMismatch     = errors.New("sale does not match the leading bid")
	ErrStatusRegression = errors.New("player status cannot move back")
	ErrPlayerNotInSet   = errors.New("player does not belong to set")

	// Malformed input errors
	ErrMalformedPayload = errors.New("malformed payload")
	ErrInvalidCatalog   = errors.New("invalid catalog")

	// Storage errors
	ErrCatalogNotFound = errors.New("catalog not found")
)
