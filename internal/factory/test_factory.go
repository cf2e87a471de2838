package factory

import (
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/auctionhouse/internal/dependencies/clock"
	"github.com/mcoot/auctionhouse/internal/dependencies/mocks"
	"github.com/mcoot/auctionhouse/internal/events"
	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/auth"
	"github.com/mcoot/auctionhouse/internal/services/bidding"
	"github.com/mcoot/auctionhouse/internal/storage/memory"
	"github.com/mcoot/auctionhouse/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Fakes for test control
	FakeClock  *clockwork.FakeClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
	Events     *events.Recording
}

// TestAppOption customizes a TestApp
type TestAppOption func(*dependencies)

// WithCatalog boots the test app from c instead of the sample catalog
func WithCatalog(c model.Catalog) TestAppOption {
	return func(d *dependencies) { d.catalog = c }
}

// WithAdminPassword protects the admin role
func WithAdminPassword(password string) TestAppOption {
	return func(d *dependencies) { d.authConfig.AdminPassword = password }
}

// NewTestApp creates a started App with in-memory storage and controllable fakes.
// It panics if the catalog is invalid.
func NewTestApp(opts ...TestAppOption) *TestApp {
	store := memory.New()
	fakeClock := clock.NewFake(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	recording := &events.Recording{}

	deps := dependencies{
		storage:   store,
		publisher: recording,
		clock:     fakeClock,
		random:    mockRandom,
		catalog:   testutil.SampleCatalog(),
		authConfig: auth.Config{
			SessionDuration: auth.DefaultConfig().SessionDuration,
			BcryptCost:      bcrypt.MinCost,
		},
		policy: bidding.DefaultPolicy(),
		logger: testutil.NopLogger(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	app, err := newWithDependencies(deps)
	if err != nil {
		panic(err)
	}
	app.Start()

	return &TestApp{
		App:        app,
		FakeClock:  fakeClock,
		MockRandom: mockRandom,
		Memory:     store,
		Events:     recording,
	}
}
