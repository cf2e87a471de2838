package model

import "time"

// Bid is an accepted bid on the current lot
type Bid struct {
	ID        int       `json:"id"`
	TeamID    TeamID    `json:"teamId"`
	TeamName  string    `json:"teamName"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  PlayerID  `json:"playerId"`
}

// BidRequest is a proposed bid before validation
type BidRequest struct {
	TeamID   TeamID
	Amount   int64
	PlayerID PlayerID // optional; when set it must name the current lot
}

// AuctionState is the full authoritative auction record.
// Values handed out by the store are shared snapshots and must not be mutated.
type AuctionState struct {
	Teams         []Team   `json:"teams"`
	Players       []Player `json:"players"`
	Sets          []string `json:"sets"`
	CurrentSet    string   `json:"currentSet"`
	CurrentPlayer *Player  `json:"currentPlayer"`
	CurrentBid    int64    `json:"currentBid"`
	LeadingTeam   *Team    `json:"leadingTeam"`
	BidHistory    []Bid    `json:"bidHistory"`
}

// Clone returns a deep copy that can be modified freely
func (s *AuctionState) Clone() *AuctionState {
	c := &AuctionState{
		Teams:      make([]Team, len(s.Teams)),
		Players:    make([]Player, len(s.Players)),
		Sets:       append([]string(nil), s.Sets...),
		CurrentSet: s.CurrentSet,
		CurrentBid: s.CurrentBid,
		BidHistory: append([]Bid(nil), s.BidHistory...),
	}
	for i, t := range s.Teams {
		c.Teams[i] = t.Clone()
	}
	for i, p := range s.Players {
		c.Players[i] = p.Clone()
	}
	if s.CurrentPlayer != nil {
		p := s.CurrentPlayer.Clone()
		c.CurrentPlayer = &p
	}
	if s.LeadingTeam != nil {
		t := s.LeadingTeam.Clone()
		c.LeadingTeam = &t
	}
	if c.Sets == nil {
		c.Sets = []string{}
	}
	if c.BidHistory == nil {
		c.BidHistory = []Bid{}
	}
	return c
}

// Redacted returns a copy with team credentials removed
func (s *AuctionState) Redacted() *AuctionState {
	c := s.Clone()
	for i := range c.Teams {
		c.Teams[i].Password = ""
	}
	if c.LeadingTeam != nil {
		c.LeadingTeam.Password = ""
	}
	return c
}

// FindTeam returns the index of the team with the given id, or -1
func (s *AuctionState) FindTeam(id TeamID) int {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return i
		}
	}
	return -1
}

// FindPlayer returns the index of the player with the given id, or -1
func (s *AuctionState) FindPlayer(id PlayerID) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// HasSet reports whether name is one of the configured sets
func (s *AuctionState) HasSet(name string) bool {
	return SetIndex(s.Sets, name) >= 0
}

// IsComplete reports whether no player remains available in any set
func (s *AuctionState) IsComplete() bool {
	if s.CurrentPlayer != nil {
		return false
	}
	for i := range s.Players {
		if s.Players[i].IsAvailable() {
			return false
		}
	}
	return true
}

// SetIndex returns the position of name in sets, or -1
func SetIndex(sets []string, name string) int {
	for i, s := range sets {
		if s == name {
			return i
		}
	}
	return -1
}

// SetProgress summarises the outcome of one set
type SetProgress struct {
	Set        string  `json:"set"`
	Total      int     `json:"total"`
	Sold       int     `json:"sold"`
	Unsold     int     `json:"unsold"`
	Available  int     `json:"available"`
	Percentage float64 `json:"percentage"`
}

// SaleRecord is a ledger entry for a completed sale
type SaleRecord struct {
	PlayerID   PlayerID  `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Set        string    `json:"set"`
	TeamID     TeamID    `json:"teamId"`
	TeamName   string    `json:"teamName"`
	Amount     int64     `json:"amount"`
	SoldAt     time.Time `json:"soldAt"`
}
