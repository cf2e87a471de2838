package response

import (
	"time"

	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/auth"
)

// AuthResponse is the response for login endpoints
type AuthResponse struct {
	Token     string       `json:"token"`
	Role      model.Role   `json:"role"`
	TeamID    model.TeamID `json:"teamId,omitempty"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Token:     s.Token,
		Role:      s.Role,
		TeamID:    s.TeamID,
		ExpiresAt: s.ExpiresAt,
	}
}

// Health is the response for the health check
type Health struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	AuctionOver bool   `json:"auctionOver"`
}

// SetProgressList wraps per-set progress
type SetProgressList struct {
	Sets []model.SetProgress `json:"sets"`
}

// Queue lists the next players up in the current set
type Queue struct {
	CurrentSet string         `json:"currentSet"`
	Players    []model.Player `json:"players"`
}

// Teams lists teams by remaining purse
type Teams struct {
	Teams []model.Team `json:"teams"`
}

// Sales is the sale ledger
type Sales struct {
	Sales      []model.SaleRecord `json:"sales"`
	TotalSpent int64              `json:"totalSpent"`
}

// SalesFromLedger totals a ledger
func SalesFromLedger(records []model.SaleRecord) Sales {
	if records == nil {
		records = []model.SaleRecord{}
	}
	var total int64
	for _, r := range records {
		total += r.Amount
	}
	return Sales{Sales: records, TotalSpent: total}
}

// CatalogSummary describes a stored catalog
type CatalogSummary struct {
	Sets    []string `json:"sets"`
	Teams   int      `json:"teams"`
	Players int      `json:"players"`
}

// CatalogSummaryFromModel summarizes a catalog
func CatalogSummaryFromModel(c *model.Catalog) CatalogSummary {
	return CatalogSummary{Sets: c.Sets, Teams: len(c.Teams), Players: len(c.Players)}
}
