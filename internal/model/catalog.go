package model

// DefaultSets is the set traversal order used when a catalog does not name one
var DefaultSets = []string{"Icon", "Batsman", "Bowler", "Keeper", "All-Rounder"}

// Catalog holds the initial roster documents an auction is reset to
type Catalog struct {
	Sets    []string `json:"sets" yaml:"sets"`
	Teams   []Team   `json:"teams" yaml:"teams"`
	Players []Player `json:"players" yaml:"players"`
}

// EmptyCatalog returns a catalog with the default sets and no teams or players
func EmptyCatalog() Catalog {
	return Catalog{
		Sets:    append([]string(nil), DefaultSets...),
		Teams:   []Team{},
		Players: []Player{},
	}
}

// Clone returns a deep copy of the catalog
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Sets:    append([]string(nil), c.Sets...),
		Teams:   make([]Team, len(c.Teams)),
		Players: make([]Player, len(c.Players)),
	}
	for i, t := range c.Teams {
		out.Teams[i] = t.Clone()
	}
	for i, p := range c.Players {
		out.Players[i] = p.Clone()
	}
	return out
}
