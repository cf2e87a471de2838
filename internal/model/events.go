package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventBidPlaced       EventType = "bid_placed"
	EventPlayerSold      EventType = "player_sold"
	EventPlayerUnsold    EventType = "player_unsold"
	EventLotOpened       EventType = "lot_opened"
	EventSetChanged      EventType = "set_changed"
	EventTeamsReplaced   EventType = "teams_replaced"
	EventPlayersReplaced EventType = "players_replaced"
	EventStatusesUpdated EventType = "statuses_updated"
	EventUnsoldRequeued  EventType = "unsold_requeued"
	EventAuctionReset    EventType = "auction_reset"
	EventAuctionComplete EventType = "auction_complete"
)

// Event describes a committed auction mutation
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  PlayerID  `json:"playerId,omitempty"`
	TeamID    TeamID    `json:"teamId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// BidPlacedPayload contains data for bid placed events
type BidPlacedPayload struct {
	Bid Bid `json:"bid"`
}

// PlayerSoldPayload contains data for player sold events
type PlayerSoldPayload struct {
	Sale SaleRecord `json:"sale"`
}

// PlayerUnsoldPayload contains data for player unsold events
type PlayerUnsoldPayload struct {
	PlayerName string `json:"playerName"`
	Set        string `json:"set"`
}

// LotOpenedPayload contains data for lot opened events
type LotOpenedPayload struct {
	Set       string `json:"set"`
	BasePrice int64  `json:"basePrice"`
}

// SetChangedPayload contains data for set changed events
type SetChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// UnsoldRequeuedPayload contains data for unsold requeued events
type UnsoldRequeuedPayload struct {
	Pool    string     `json:"pool"`
	Players []PlayerID `json:"players"`
}
