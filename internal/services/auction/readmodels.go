package auction

import (
	"sort"

	"github.com/mcoot/auctionhouse/internal/model"
)

// DefaultQueueLimit is the number of upcoming players shown when no limit is given
const DefaultQueueLimit = 5

// AdminState returns the unredacted snapshot
func (s *Store) AdminState() *model.AuctionState {
	return s.State()
}

// SetProgress reports sold, unsold and remaining counts for every set, in set order
func (s *Store) SetProgress() []model.SetProgress {
	state := s.State()
	out := make([]model.SetProgress, len(state.Sets))
	for i, set := range state.Sets {
		out[i].Set = set
	}
	for _, p := range state.Players {
		idx := model.SetIndex(state.Sets, p.Set)
		if idx < 0 {
			continue
		}
		prog := &out[idx]
		prog.Total++
		switch p.Status {
		case model.PlayerStatusSold:
			prog.Sold++
		case model.PlayerStatusUnsold:
			prog.Unsold++
		default:
			prog.Available++
		}
	}
	for i := range out {
		if out[i].Total > 0 {
			out[i].Percentage = float64(out[i].Sold) / float64(out[i].Total) * 100
		}
	}
	return out
}

// UpcomingPlayers lists available players in the current set after the open lot
func (s *Store) UpcomingPlayers(limit int) []model.Player {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	state := s.State()
	out := []model.Player{}
	for _, p := range state.Players {
		if len(out) == limit {
			break
		}
		if p.Set != state.CurrentSet || !p.IsAvailable() {
			continue
		}
		if state.CurrentPlayer != nil && state.CurrentPlayer.ID == p.ID {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

// TeamsByPurse returns redacted teams ordered by remaining purse, largest first
func (s *Store) TeamsByPurse() []model.Team {
	state := s.State()
	out := make([]model.Team, len(state.Teams))
	for i, t := range state.Teams {
		out[i] = t.Redacted()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CurrentPurse > out[j].CurrentPurse
	})
	return out
}
