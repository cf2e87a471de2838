package request

import "github.com/mcoot/auctionhouse/internal/model"

// AdminLoginRequest is the request body for an admin login
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// TeamLoginRequest is the request body for a team login
type TeamLoginRequest struct {
	TeamID   model.TeamID `json:"teamId"`
	Password string       `json:"password"`
}
