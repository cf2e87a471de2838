package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/auctionhouse/internal/dependencies/clock"
	"github.com/mcoot/auctionhouse/internal/dependencies/random"
	"github.com/mcoot/auctionhouse/internal/model"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

const tokenLength = 32

// Session represents an authenticated bearer token
type Session struct {
	Token     string
	Role      model.Role
	TeamID    model.TeamID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsAdmin reports whether the session carries the admin role
func (s *Session) IsAdmin() bool {
	return s.Role == model.RoleAdmin
}

// TeamCredentials looks up the stored password hash of a team
type TeamCredentials interface {
	TeamPasswordHash(id model.TeamID) (string, error)
}

// TeamCredentialsFunc adapts a function to TeamCredentials
type TeamCredentialsFunc func(id model.TeamID) (string, error)

// TeamPasswordHash calls f(id)
func (f TeamCredentialsFunc) TeamPasswordHash(id model.TeamID) (string, error) {
	return f(id)
}

// Service handles logins and bearer token sessions
type Service struct {
	teams     TeamCredentials
	clock     clock.Clock
	random    random.Random
	adminHash []byte
	cost      int

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration

	// AdminPassword enables the admin credential check. Empty leaves the admin role open.
	AdminPassword string

	BcryptCost int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 12 * time.Hour,
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(teams TeamCredentials, clock clock.Clock, random random.Random, cfg Config) (*Service, error) {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	s := &Service{
		teams:           teams,
		clock:           clock,
		random:          random,
		cost:            cfg.BcryptCost,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
	if cfg.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		s.adminHash = hash
	}
	return s, nil
}

// AdminProtected reports whether the admin role requires a credential
func (s *Service) AdminProtected() bool {
	return len(s.adminHash) > 0
}

// LoginAdmin checks the admin password and creates an admin session
func (s *Service) LoginAdmin(password string) (*Session, error) {
	if s.AdminProtected() {
		if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}
	return s.createSession(model.RoleAdmin, ""), nil
}

// LoginTeam checks a team's password and creates a session bound to that team
func (s *Service) LoginTeam(teamID model.TeamID, password string) (*Session, error) {
	hash, err := s.teams.TeamPasswordHash(teamID)
	if err != nil {
		if errors.Is(err, model.ErrUnknownTeam) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}
	return s.createSession(model.RoleTeam, teamID), nil
}

// AuthorizeIdentity checks that a declared identity is backed by a valid token where one is required
func (s *Service) AuthorizeIdentity(role model.Role, teamID model.TeamID, token string) error {
	switch role {
	case model.RoleAdmin:
		if !s.AdminProtected() {
			return nil
		}
		sess, err := s.ValidateSession(token)
		if err != nil || sess.Role != model.RoleAdmin {
			return model.ErrUnauthorized
		}
	case model.RoleTeam:
		hash, err := s.teams.TeamPasswordHash(teamID)
		if err != nil {
			return model.ErrTeamBindingRequired
		}
		if hash == "" {
			return nil
		}
		sess, err := s.ValidateSession(token)
		if err != nil {
			return model.ErrUnauthorized
		}
		// An admin may act for any team
		if sess.Role != model.RoleAdmin && (sess.Role != model.RoleTeam || sess.TeamID != teamID) {
			return model.ErrUnauthorized
		}
	}
	return nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// HashTeamPasswords returns a copy of teams with plaintext passwords replaced by bcrypt hashes.
// Passwords that are already hashes are kept.
func (s *Service) HashTeamPasswords(teams []model.Team) ([]model.Team, error) {
	out := make([]model.Team, len(teams))
	for i, t := range teams {
		t = t.Clone()
		if t.Password != "" && !isHash(t.Password) {
			hash, err := bcrypt.GenerateFromPassword([]byte(t.Password), s.cost)
			if err != nil {
				return nil, fmt.Errorf("hash password for team %s: %w", t.ID, err)
			}
			t.Password = string(hash)
		}
		out[i] = t
	}
	return out, nil
}

// HashCatalog hashes the team passwords of a catalog
func (s *Service) HashCatalog(c model.Catalog) (model.Catalog, error) {
	c = c.Clone()
	teams, err := s.HashTeamPasswords(c.Teams)
	if err != nil {
		return model.Catalog{}, err
	}
	c.Teams = teams
	return c, nil
}

func isHash(password string) bool {
	if !strings.HasPrefix(password, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(password))
	return err == nil
}

// createSession creates a new session for a role
func (s *Service) createSession(role model.Role, teamID model.TeamID) *Session {
	token := s.generateID("sess_")
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		Role:      role,
		TeamID:    teamID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	return prefix + s.random.Token(tokenLength)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// SessionCount returns the number of live sessions
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
