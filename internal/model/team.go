package model

import (
	"fmt"
	"time"
)

// TeamID uniquely identifies a bidding team
type TeamID string

// UnmarshalJSON accepts both string and numeric ids
func (id *TeamID) UnmarshalJSON(data []byte) error {
	s, err := decodeFlexibleID(data)
	if err != nil {
		return fmt.Errorf("team id: %w", err)
	}
	*id = TeamID(s)
	return nil
}

// AcquiredPlayer is a player record on a team's roster
type AcquiredPlayer struct {
	Player       `yaml:",inline"`
	PurchaseDate time.Time `json:"purchaseDate" yaml:"purchaseDate"`
}

// Team is a bidder with a purse
type Team struct {
	ID           TeamID           `json:"id" yaml:"id"`
	Name         string           `json:"name" yaml:"name"`
	Logo         string           `json:"logo,omitempty" yaml:"logo,omitempty"`
	InitialPurse int64            `json:"initialPurse" yaml:"initialPurse"`
	CurrentPurse int64            `json:"currentPurse" yaml:"currentPurse,omitempty"`
	Players      []AcquiredPlayer `json:"players" yaml:"players,omitempty"`

	// Password is a bcrypt hash once the team has been ingested.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Spent returns the sum of sold prices over the team's roster
func (t *Team) Spent() int64 {
	var total int64
	for _, p := range t.Players {
		if p.SoldPrice != nil {
			total += *p.SoldPrice
		}
	}
	return total
}

// Clone returns a deep copy of the team
func (t Team) Clone() Team {
	players := make([]AcquiredPlayer, len(t.Players))
	for i, p := range t.Players {
		players[i] = AcquiredPlayer{Player: p.Player.Clone(), PurchaseDate: p.PurchaseDate}
	}
	t.Players = players
	return t
}

// Redacted returns a copy of the team without credentials
func (t Team) Redacted() Team {
	c := t.Clone()
	c.Password = ""
	return c
}
