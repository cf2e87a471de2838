// Package session tracks which device is behind each live connection.
package session

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/mcoot/auctionhouse/internal/dependencies/clock"
	"github.com/mcoot/auctionhouse/internal/model"
)

// TeamLookup reports whether a team id exists on the roster
type TeamLookup func(id model.TeamID) bool

// Registry maps connections to device sessions
type Registry struct {
	mu          sync.RWMutex
	byDevice    map[string]*model.Session
	byConn      map[model.ConnectionID]string
	actingAdmin string

	clock  clock.Clock
	logger *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(clock clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		byDevice: make(map[string]*model.Session),
		byConn:   make(map[model.ConnectionID]string),
		clock:    clock,
		logger:   logger,
	}
}

// Register binds a device identity to a connection.
// Declaring again updates the role, and a device seen on a new connection moves to it.
func (r *Registry) Register(connID model.ConnectionID, deviceID string, role model.Role, teamID model.TeamID, teamExists TeamLookup) (model.Session, error) {
	if deviceID == "" {
		return model.Session{}, fmt.Errorf("%w: deviceId is required", model.ErrMalformedPayload)
	}
	if !role.Valid() {
		return model.Session{}, fmt.Errorf("%w: %q", model.ErrInvalidRole, role)
	}
	if role == model.RoleTeam {
		if teamID == "" || teamExists == nil || !teamExists(teamID) {
			return model.Session{}, model.ErrTeamBindingRequired
		}
	} else {
		teamID = ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// The connection previously spoke for another device
	if prev, ok := r.byConn[connID]; ok && prev != deviceID {
		r.dropDeviceLocked(prev)
	}

	sess, ok := r.byDevice[deviceID]
	if !ok {
		sess = &model.Session{DeviceID: deviceID}
		r.byDevice[deviceID] = sess
	}
	if sess.ConnectionID != "" && sess.ConnectionID != connID {
		delete(r.byConn, sess.ConnectionID)
		r.logger.Info("device rebound to new connection",
			slog.String("device_id", deviceID),
			slog.String("old_connection_id", string(sess.ConnectionID)),
			slog.String("connection_id", string(connID)))
	}
	if sess.ConnectionID != connID {
		sess.ConnectedAt = r.clock.Now()
	}
	sess.ConnectionID = connID
	sess.Role = role
	sess.TeamID = teamID
	r.byConn[connID] = deviceID

	switch {
	case role == model.RoleAdmin:
		r.actingAdmin = deviceID
	case r.actingAdmin == deviceID:
		r.actingAdmin = ""
	}

	r.logger.Info("device identified",
		slog.String("device_id", deviceID),
		slog.String("role", string(role)),
		slog.String("team_id", string(teamID)))

	return *sess, nil
}

// Resolve returns the session bound to a connection
func (r *Registry) Resolve(connID model.ConnectionID) (model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deviceID, ok := r.byConn[connID]
	if !ok {
		return model.Session{}, model.ErrSessionNotFound
	}
	return *r.byDevice[deviceID], nil
}

// RequireRole resolves the connection and checks that its role is one of roles
func (r *Registry) RequireRole(connID model.ConnectionID, roles ...model.Role) (model.Session, error) {
	sess, err := r.Resolve(connID)
	if err != nil {
		return model.Session{}, model.ErrNotIdentified
	}
	if !slices.Contains(roles, sess.Role) {
		return sess, model.ErrUnauthorized
	}
	return sess, nil
}

// Unregister removes the session bound to a connection, if any
func (r *Registry) Unregister(connID model.ConnectionID) (model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deviceID, ok := r.byConn[connID]
	if !ok {
		return model.Session{}, false
	}
	sess := *r.byDevice[deviceID]
	r.dropDeviceLocked(deviceID)

	r.logger.Info("device disconnected",
		slog.String("device_id", deviceID),
		slog.String("role", string(sess.Role)))
	return sess, true
}

func (r *Registry) dropDeviceLocked(deviceID string) {
	if sess, ok := r.byDevice[deviceID]; ok {
		delete(r.byConn, sess.ConnectionID)
		delete(r.byDevice, deviceID)
	}
	if r.actingAdmin == deviceID {
		r.actingAdmin = ""
	}
}

// ActingAdmin returns the session currently holding the auctioneer role
func (r *Registry) ActingAdmin() (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.actingAdmin == "" {
		return model.Session{}, false
	}
	return *r.byDevice[r.actingAdmin], true
}

// Sessions returns all identified sessions ordered by connection time
func (r *Registry) Sessions() []model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Session, 0, len(r.byDevice))
	for _, sess := range r.byDevice {
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].DeviceID < out[j].DeviceID
		}
		return out[i].ConnectedAt.Before(out[j].ConnectedAt)
	})
	return out
}

// Count returns the number of sessions per role
func (r *Registry) Count() map[model.Role]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[model.Role]int)
	for _, sess := range r.byDevice {
		counts[sess.Role]++
	}
	return counts
}
