package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mcoot/auctionhouse/internal/api/response"
	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/realtime"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		fmt.Printf("Status: %s\n", v.Status)
		fmt.Printf("Connections: %d\n", v.Connections)
		fmt.Printf("Auction over: %t\n", v.AuctionOver)
	case response.AuthResponse:
		o.printAuth(v)
	case *model.AuctionState:
		o.printState(v)
	case response.Teams:
		o.printTeams(v.Teams)
	case response.SetProgressList:
		o.printProgress(v.Sets)
	case response.Queue:
		o.printQueue(v)
	case response.Sales:
		o.printSales(v)
	case realtime.ConnectionStats:
		o.printConnections(v)
	case response.CatalogSummary:
		fmt.Printf("Catalog: %d teams, %d players\n", v.Teams, v.Players)
		fmt.Printf("Sets: %s\n", strings.Join(v.Sets, ", "))
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// formatAmount renders an amount in lakhs and crores
func formatAmount(amount int64) string {
	switch {
	case amount >= crore:
		return fmt.Sprintf("%.2f Cr", float64(amount)/crore)
	case amount >= lakh:
		return fmt.Sprintf("%.1f L", float64(amount)/lakh)
	default:
		return fmt.Sprintf("%d", amount)
	}
}

func (o *Output) printAuth(a response.AuthResponse) {
	fmt.Printf("Logged in as %s", a.Role)
	if a.TeamID != "" {
		fmt.Printf(" (team %s)", a.TeamID)
	}
	fmt.Println()
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format("2006-01-02 15:04"))
}

func (o *Output) printState(s *model.AuctionState) {
	if s.IsComplete() {
		fmt.Println("Auction complete")
	} else if s.CurrentPlayer == nil {
		fmt.Printf("Set: %s (no player up)\n", s.CurrentSet)
	} else {
		p := s.CurrentPlayer
		fmt.Printf("Set: %s\n", s.CurrentSet)
		fmt.Printf("Up: %s (%s) %s, base %s\n", p.Name, p.ID, p.Category, formatAmount(p.BasePrice))
		fmt.Printf("Current bid: %s\n", formatAmount(s.CurrentBid))
		if s.LeadingTeam != nil {
			fmt.Printf("Leading: %s (%s)\n", s.LeadingTeam.Name, s.LeadingTeam.ID)
		}
		if n := len(s.BidHistory); n > 0 {
			fmt.Printf("Bids: %d\n", n)
		}
	}
	if len(s.Teams) > 0 {
		fmt.Println()
		o.printTeams(s.Teams)
	}
}

func (o *Output) printTeams(teams []model.Team) {
	fmt.Printf("Teams (%d):\n", len(teams))
	for _, t := range teams {
		fmt.Printf("  - %s (%s): %s left of %s, %d players\n",
			t.Name, t.ID, formatAmount(t.CurrentPurse), formatAmount(t.InitialPurse), len(t.Players))
	}
}

func (o *Output) printProgress(sets []model.SetProgress) {
	for _, p := range sets {
		fmt.Printf("%-14s %3d/%-3d sold (%5.1f%%)  %d unsold, %d left\n",
			p.Set, p.Sold, p.Total, p.Percentage, p.Unsold, p.Available)
	}
}

func (o *Output) printQueue(q response.Queue) {
	if len(q.Players) == 0 {
		fmt.Printf("No players waiting in %s\n", q.CurrentSet)
		return
	}
	fmt.Printf("Up next in %s:\n", q.CurrentSet)
	for i, p := range q.Players {
		fmt.Printf("  %d. %s (%s) %s, base %s\n", i+1, p.Name, p.ID, p.Category, formatAmount(p.BasePrice))
	}
}

func (o *Output) printSales(s response.Sales) {
	fmt.Printf("Sales (%d), total %s:\n", len(s.Sales), formatAmount(s.TotalSpent))
	for _, r := range s.Sales {
		fmt.Printf("  [%s] %s -> %s for %s\n",
			r.SoldAt.Format("15:04:05"), r.PlayerName, r.TeamName, formatAmount(r.Amount))
	}
}

func (o *Output) printConnections(c realtime.ConnectionStats) {
	fmt.Printf("Connections: %d (%d anonymous)\n", c.TotalConnections, c.Anonymous)
	if c.ActingAdmin != "" {
		fmt.Printf("Acting admin: %s\n", c.ActingAdmin)
	}
	for _, s := range c.Sessions {
		team := ""
		if s.TeamID != "" {
			team = " team " + string(s.TeamID)
		}
		fmt.Printf("  - %s %s%s since %s\n", s.DeviceID, s.Role, team, s.ConnectedAt.Format("15:04:05"))
	}
}
