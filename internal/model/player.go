package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// PlayerID uniquely identifies a player in the auction catalog
type PlayerID string

// UnmarshalJSON accepts both string and numeric ids, since roster documents use either
func (id *PlayerID) UnmarshalJSON(data []byte) error {
	s, err := decodeFlexibleID(data)
	if err != nil {
		return fmt.Errorf("player id: %w", err)
	}
	*id = PlayerID(s)
	return nil
}

// PlayerStatus is the auction outcome of a player
type PlayerStatus string

const (
	PlayerStatusAvailable PlayerStatus = "Available"
	PlayerStatusSold      PlayerStatus = "Sold"
	PlayerStatusUnsold    PlayerStatus = "Unsold"
)

// Valid reports whether s is a known status
func (s PlayerStatus) Valid() bool {
	switch s {
	case PlayerStatusAvailable, PlayerStatusSold, PlayerStatusUnsold:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is allowed.
// Transitions are one-way: Available -> Sold or Available -> Unsold.
func (s PlayerStatus) CanTransitionTo(next PlayerStatus) bool {
	if s == next {
		return true
	}
	return s == PlayerStatusAvailable && (next == PlayerStatusSold || next == PlayerStatusUnsold)
}

// Player is a lot in the auction
type Player struct {
	ID        PlayerID     `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Set       string       `json:"set" yaml:"set"`
	Category  string       `json:"category,omitempty" yaml:"category,omitempty"`
	BasePrice int64        `json:"basePrice" yaml:"basePrice"`
	Status    PlayerStatus `json:"status" yaml:"status,omitempty"`
	SoldTo    *TeamID      `json:"soldTo,omitempty" yaml:"soldTo,omitempty"`
	SoldPrice *int64       `json:"soldPrice,omitempty" yaml:"soldPrice,omitempty"`
}

// IsAvailable reports whether the player can still be auctioned
func (p *Player) IsAvailable() bool {
	return p.Status == PlayerStatusAvailable
}

// Clone returns a deep copy of the player
func (p Player) Clone() Player {
	if p.SoldTo != nil {
		soldTo := *p.SoldTo
		p.SoldTo = &soldTo
	}
	if p.SoldPrice != nil {
		soldPrice := *p.SoldPrice
		p.SoldPrice = &soldPrice
	}
	return p
}

func decodeFlexibleID(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return "", fmt.Errorf("non-integer id %s", n)
	}
	return n.String(), nil
}
