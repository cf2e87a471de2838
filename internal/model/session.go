package model

import "time"

// Role is the declared role of a connected device
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTeam   Role = "team"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeam, RoleViewer:
		return true
	}
	return false
}

// ConnectionID identifies a single transport connection
type ConnectionID string

// Session binds a device identity to a live connection
type Session struct {
	DeviceID     string       `json:"deviceId"`
	Role         Role         `json:"role"`
	TeamID       TeamID       `json:"teamId,omitempty"`
	ConnectionID ConnectionID `json:"connectionId"`
	ConnectedAt  time.Time    `json:"connectedAt"`
}

// IsAdmin reports whether the session holds the auctioneer role
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
