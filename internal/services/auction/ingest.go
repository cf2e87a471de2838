package auction

import (
	"fmt"
	"time"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/progression"
)

// Patch is an admin bulk update. Nil fields are left unchanged.
// Bid fields are deliberately absent: they only change through bids and sales.
type Patch struct {
	Sets          *[]string
	Teams         *[]model.Team
	Players       *[]model.Player
	CurrentSet    *string
	CurrentPlayer *model.PlayerID
}

// Empty reports whether the patch carries no fields
func (p Patch) Empty() bool {
	return p.Sets == nil && p.Teams == nil && p.Players == nil && p.CurrentSet == nil && p.CurrentPlayer == nil
}

func (p Patch) apply(prev, next *model.AuctionState, now time.Time) error {
	if p.Sets != nil {
		if err := replaceSets(next, *p.Sets); err != nil {
			return err
		}
	}
	if p.Teams != nil {
		if err := replaceTeams(next, *p.Teams); err != nil {
			return err
		}
	}
	if p.Players != nil {
		if err := replacePlayers(next, *p.Players); err != nil {
			return err
		}
	}
	if p.Teams != nil || p.Players != nil {
		if err := reconcileRosters(prev, next, now); err != nil {
			return err
		}
	}
	if p.Players == nil && p.Sets != nil {
		// Players must still map onto the new sets
		if err := checkPlayerSets(next.Players, next.Sets); err != nil {
			return err
		}
		if next.CurrentPlayer == nil {
			*next = *progression.Reopen(next).State
		}
	}

	if p.CurrentSet != nil || p.CurrentPlayer != nil {
		set := next.CurrentSet
		if p.CurrentSet != nil {
			set = *p.CurrentSet
		}
		var playerID model.PlayerID
		if p.CurrentPlayer != nil {
			playerID = *p.CurrentPlayer
		}
		out, err := progression.AdvanceTo(next, set, playerID)
		if err != nil {
			return err
		}
		*next = *out.State
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

// ValidateCatalog checks roster documents before they are loaded
func ValidateCatalog(c model.Catalog) error {
	c = c.Clone()
	sets := c.Sets
	if len(sets) == 0 {
		sets = model.DefaultSets
	}
	if err := checkSets(sets); err != nil {
		return err
	}
	if _, err := normalizeTeams(c.Teams); err != nil {
		return err
	}
	for i := range c.Players {
		if err := checkPlayer(&c.Players[i]); err != nil {
			return err
		}
	}
	if err := checkUniquePlayers(c.Players); err != nil {
		return err
	}
	return checkPlayerSets(c.Players, sets)
}

func checkSets(sets []string) error {
	if len(sets) == 0 {
		return invalid("at least one set is required")
	}
	seen := make(map[string]bool, len(sets))
	for _, s := range sets {
		if s == "" {
			return invalid("set names must not be empty")
		}
		if seen[s] {
			return invalid("duplicate set %q", s)
		}
		seen[s] = true
	}
	return nil
}

func replaceSets(next *model.AuctionState, sets []string) error {
	if err := checkSets(sets); err != nil {
		return err
	}
	next.Sets = append([]string(nil), sets...)
	if !next.HasSet(next.CurrentSet) {
		next.CurrentSet = next.Sets[0]
	}
	return nil
}

// normalizeTeams validates teams and derives each current purse from its roster
func normalizeTeams(teams []model.Team) ([]model.Team, error) {
	out := make([]model.Team, len(teams))
	seen := make(map[model.TeamID]bool, len(teams))
	for i, t := range teams {
		t = t.Clone()
		if t.ID == "" {
			return nil, invalid("team %d has no id", i)
		}
		if seen[t.ID] {
			return nil, invalid("duplicate team id %s", t.ID)
		}
		seen[t.ID] = true
		if t.InitialPurse < 0 {
			return nil, invalid("team %s has a negative purse", t.ID)
		}
		t.CurrentPurse = t.InitialPurse - t.Spent()
		if t.CurrentPurse < 0 {
			return nil, invalid("team %s has spent more than its purse", t.ID)
		}
		out[i] = t
	}
	return out, nil
}

func replaceTeams(next *model.AuctionState, teams []model.Team) error {
	normalized, err := normalizeTeams(teams)
	if err != nil {
		return err
	}
	next.Teams = normalized

	if next.LeadingTeam == nil {
		return nil
	}
	if idx := next.FindTeam(next.LeadingTeam.ID); idx >= 0 {
		leading := next.Teams[idx].Clone()
		next.LeadingTeam = &leading
		return nil
	}

	// The leading bidder no longer exists: the lot restarts at its base price
	next.LeadingTeam = nil
	next.BidHistory = []model.Bid{}
	if next.CurrentPlayer != nil {
		next.CurrentBid = next.CurrentPlayer.BasePrice
	}
	return nil
}

func checkPlayer(p *model.Player) error {
	if p.ID == "" {
		return invalid("player %q has no id", p.Name)
	}
	if p.BasePrice <= 0 {
		return invalid("player %s must have a positive base price", p.ID)
	}
	if p.Status == "" {
		p.Status = model.PlayerStatusAvailable
	}
	if !p.Status.Valid() {
		return invalid("player %s has unknown status %q", p.ID, p.Status)
	}
	if p.Status == model.PlayerStatusSold {
		if p.SoldTo == nil || p.SoldPrice == nil {
			return invalid("sold player %s needs soldTo and soldPrice", p.ID)
		}
		if *p.SoldPrice < p.BasePrice {
			return invalid("player %s sold below base price", p.ID)
		}
	} else {
		p.SoldTo = nil
		p.SoldPrice = nil
	}
	return nil
}

func checkUniquePlayers(players []model.Player) error {
	seen := make(map[model.PlayerID]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return invalid("duplicate player id %s", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

func checkPlayerSets(players []model.Player, sets []string) error {
	for _, p := range players {
		if model.SetIndex(sets, p.Set) < 0 {
			return invalid("player %s is in unknown set %q", p.ID, p.Set)
		}
	}
	return nil
}

func replacePlayers(next *model.AuctionState, players []model.Player) error {
	incoming := make([]model.Player, len(players))
	for i, p := range players {
		p = p.Clone()
		if err := checkPlayer(&p); err != nil {
			return err
		}
		incoming[i] = p
	}
	if err := checkUniquePlayers(incoming); err != nil {
		return err
	}
	if err := checkPlayerSets(incoming, next.Sets); err != nil {
		return err
	}
	if err := checkSoldRecords(next.Players, incoming); err != nil {
		return err
	}
	next.Players = incoming

	// Keep the open lot and its bids if the player is still up for auction
	if next.CurrentPlayer != nil {
		if idx := next.FindPlayer(next.CurrentPlayer.ID); idx >= 0 && next.Players[idx].IsAvailable() {
			current := next.Players[idx].Clone()
			next.CurrentPlayer = &current
			next.CurrentSet = current.Set
			if len(next.BidHistory) == 0 || next.CurrentBid < current.BasePrice {
				next.LeadingTeam = nil
				next.BidHistory = []model.Bid{}
				next.CurrentBid = current.BasePrice
			}
			return nil
		}
	}

	*next = *progression.Reopen(next).State
	return nil
}

// checkSoldRecords rejects uploads that move a known player's status backwards
// or rewrite the record of a completed sale.
func checkSoldRecords(live, incoming []model.Player) error {
	byID := make(map[model.PlayerID]model.Player, len(live))
	for _, p := range live {
		byID[p.ID] = p
	}
	for _, p := range incoming {
		old, ok := byID[p.ID]
		if !ok {
			continue
		}
		if !old.Status.CanTransitionTo(p.Status) {
			return fmt.Errorf("%w: %s is %s", model.ErrStatusRegression, old.Name, old.Status)
		}
		if old.Status == model.PlayerStatusSold && (*old.SoldTo != *p.SoldTo || *old.SoldPrice != *p.SoldPrice) {
			return invalid("player %s was sold to %s for %d", p.ID, *old.SoldTo, *old.SoldPrice)
		}
	}
	return nil
}

// reconcileRosters rebuilds each roster from the sold players in the list and
// recomputes purses. Roster entries for players outside the list are kept.
// Purchase dates carry over from next, then prev, then default to now.
func reconcileRosters(prev, next *model.AuctionState, now time.Time) error {
	listed := make(map[model.PlayerID]int, len(next.Players))
	for i, p := range next.Players {
		listed[p.ID] = i
	}

	purchased := make(map[model.PlayerID]time.Time)
	for _, t := range prev.Teams {
		for _, a := range t.Players {
			purchased[a.ID] = a.PurchaseDate
		}
	}
	rosters := make(map[model.TeamID][]model.AcquiredPlayer, len(next.Teams))
	for _, t := range next.Teams {
		for _, a := range t.Players {
			idx, ok := listed[a.ID]
			if !ok {
				rosters[t.ID] = append(rosters[t.ID], a)
				continue
			}
			p := next.Players[idx]
			if p.Status != model.PlayerStatusSold || *p.SoldTo != t.ID {
				return invalid("team %s lists %s, which is not sold to it", t.ID, a.ID)
			}
			if !a.PurchaseDate.IsZero() {
				purchased[a.ID] = a.PurchaseDate
			}
		}
	}

	for _, p := range next.Players {
		if p.Status != model.PlayerStatusSold {
			continue
		}
		if next.FindTeam(*p.SoldTo) < 0 {
			return invalid("player %s is sold to unknown team %s", p.ID, *p.SoldTo)
		}
		date, ok := purchased[p.ID]
		if !ok {
			date = now
		}
		rosters[*p.SoldTo] = append(rosters[*p.SoldTo], model.AcquiredPlayer{Player: p.Clone(), PurchaseDate: date})
	}

	for i := range next.Teams {
		t := &next.Teams[i]
		t.Players = rosters[t.ID]
		if t.Players == nil {
			t.Players = []model.AcquiredPlayer{}
		}
		t.CurrentPurse = t.InitialPurse - t.Spent()
		if t.CurrentPurse < 0 {
			return invalid("team %s has spent more than its purse", t.ID)
		}
	}

	if next.LeadingTeam != nil {
		if idx := next.FindTeam(next.LeadingTeam.ID); idx >= 0 {
			leading := next.Teams[idx].Clone()
			next.LeadingTeam = &leading
		}
	}
	return nil
}

// mergeStatuses applies status changes by player id.
// It reports whether the current lot was closed by the update.
func mergeStatuses(next *model.AuctionState, updates []model.Player) (bool, error) {
	if len(updates) == 0 {
		return false, fmt.Errorf("%w: no players in status update", model.ErrMalformedPayload)
	}

	currentResolved := false
	for _, u := range updates {
		idx := next.FindPlayer(u.ID)
		if idx < 0 {
			return false, fmt.Errorf("%w: %s", model.ErrUnknownPlayer, u.ID)
		}
		p := &next.Players[idx]
		if !u.Status.Valid() {
			return false, fmt.Errorf("%w: unknown status %q for %s", model.ErrMalformedPayload, u.Status, u.ID)
		}
		if u.Status == p.Status {
			continue
		}
		if !p.Status.CanTransitionTo(u.Status) {
			return false, fmt.Errorf("%w: %s is %s", model.ErrStatusRegression, p.Name, p.Status)
		}
		if u.Status == model.PlayerStatusSold {
			return false, fmt.Errorf("%w: %s can only be sold through a sale", model.ErrSaleMismatch, p.Name)
		}
		p.Status = u.Status
		if next.CurrentPlayer != nil && next.CurrentPlayer.ID == p.ID {
			currentResolved = true
		}
	}
	return currentResolved, nil
}
