package auth

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/auctionhouse/internal/dependencies/clock"
	"github.com/mcoot/auctionhouse/internal/dependencies/mocks"
	"github.com/mcoot/auctionhouse/internal/model"
)

// fakeTeams serves password hashes from a map
type fakeTeams map[model.TeamID]string

func (f fakeTeams) TeamPasswordHash(id model.TeamID) (string, error) {
	hash, ok := f[id]
	if !ok {
		return "", model.ErrUnknownTeam
	}
	return hash, nil
}

type ServiceSuite struct {
	suite.Suite
	teams   fakeTeams
	clock   *clockwork.FakeClock
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	s.Require().NoError(err)
	return string(h)
}

func (s *ServiceSuite) SetupTest() {
	s.teams = fakeTeams{"T1": s.hash("mumbai123"), "T2": ""}
	s.clock = clock.NewFake(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.random.QueueToken("tokenA", "tokenB", "tokenC")

	cfg := DefaultConfig()
	cfg.AdminPassword = "letmein"
	cfg.BcryptCost = bcrypt.MinCost

	var err error
	s.service, err = New(s.teams, s.clock, s.random, cfg)
	s.Require().NoError(err)
}

// Admin login tests

func (s *ServiceSuite) TestLoginAdminSucceeds() {
	session, err := s.service.LoginAdmin("letmein")
	s.Require().NoError(err)

	s.Equal("sess_tokenA", session.Token)
	s.Equal(model.RoleAdmin, session.Role)
	s.Equal(s.clock.Now().Add(12*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestLoginAdminFailsWithWrongPassword() {
	_, err := s.service.LoginAdmin("nope")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginAdminOpenWithoutPassword() {
	service, err := New(s.teams, s.clock, s.random, Config{BcryptCost: bcrypt.MinCost})
	s.Require().NoError(err)
	s.False(service.AdminProtected())

	_, err = service.LoginAdmin("")
	s.NoError(err)
}

// Team login tests

func (s *ServiceSuite) TestLoginTeamSucceeds() {
	session, err := s.service.LoginTeam("T1", "mumbai123")
	s.Require().NoError(err)

	s.Equal(model.RoleTeam, session.Role)
	s.Equal(model.TeamID("T1"), session.TeamID)
}

func (s *ServiceSuite) TestLoginTeamFailsWithWrongPassword() {
	_, err := s.service.LoginTeam("T1", "chennai")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginTeamFailsWithUnknownTeam() {
	_, err := s.service.LoginTeam("T9", "x")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginTeamWithoutPassword() {
	_, err := s.service.LoginTeam("T2", "")
	s.NoError(err)
}

// Identity authorization tests

func (s *ServiceSuite) TestAuthorizeAdminIdentity() {
	s.ErrorIs(s.service.AuthorizeIdentity(model.RoleAdmin, "", ""), model.ErrUnauthorized)

	team, err := s.service.LoginTeam("T1", "mumbai123")
	s.Require().NoError(err)
	s.ErrorIs(s.service.AuthorizeIdentity(model.RoleAdmin, "", team.Token), model.ErrUnauthorized)

	admin, err := s.service.LoginAdmin("letmein")
	s.Require().NoError(err)
	s.NoError(s.service.AuthorizeIdentity(model.RoleAdmin, "", admin.Token))
}

func (s *ServiceSuite) TestAuthorizeTeamIdentity() {
	s.ErrorIs(s.service.AuthorizeIdentity(model.RoleTeam, "T1", ""), model.ErrUnauthorized)
	s.NoError(s.service.AuthorizeIdentity(model.RoleTeam, "T2", ""), "team without password is open")
	s.ErrorIs(s.service.AuthorizeIdentity(model.RoleTeam, "T9", ""), model.ErrTeamBindingRequired)

	session, err := s.service.LoginTeam("T1", "mumbai123")
	s.Require().NoError(err)
	s.NoError(s.service.AuthorizeIdentity(model.RoleTeam, "T1", session.Token))

	s.teams["T3"] = s.hash("delhi")
	s.ErrorIs(s.service.AuthorizeIdentity(model.RoleTeam, "T3", session.Token), model.ErrUnauthorized,
		"a team token does not open another team")
}

func (s *ServiceSuite) TestAuthorizeViewerIsOpen() {
	s.NoError(s.service.AuthorizeIdentity(model.RoleViewer, "", ""))
}

// Session tests

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, err := s.service.LoginAdmin("letmein")
	s.Require().NoError(err)

	s.clock.Advance(13 * time.Hour)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
	s.Equal(0, s.service.SessionCount())
}

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session, err := s.service.LoginAdmin("letmein")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesExpired() {
	_, err := s.service.LoginAdmin("letmein")
	s.Require().NoError(err)
	s.clock.Advance(6 * time.Hour)
	fresh, err := s.service.LoginTeam("T2", "")
	s.Require().NoError(err)
	s.clock.Advance(7 * time.Hour)

	s.service.CleanExpiredSessions()

	s.Equal(1, s.service.SessionCount())
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}

// Password hashing tests

func (s *ServiceSuite) TestHashTeamPasswords() {
	existing := s.hash("kept")
	teams := []model.Team{
		{ID: "T1", Password: "plain"},
		{ID: "T2", Password: existing},
		{ID: "T3"},
	}

	hashed, err := s.service.HashTeamPasswords(teams)
	s.Require().NoError(err)

	s.NotEqual("plain", hashed[0].Password)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(hashed[0].Password), []byte("plain")))
	s.Equal(existing, hashed[1].Password)
	s.Empty(hashed[2].Password)
	s.Equal("plain", teams[0].Password, "input must not be modified")
}

func (s *ServiceSuite) TestHashCatalog() {
	c := model.Catalog{Teams: []model.Team{{ID: "T1", Password: "x"}}}

	hashed, err := s.service.HashCatalog(c)
	s.Require().NoError(err)
	s.True(isHash(hashed.Teams[0].Password))
	s.False(isHash(c.Teams[0].Password))
}
