package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/auctionhouse/internal/api"
	"github.com/mcoot/auctionhouse/internal/catalog"
	"github.com/mcoot/auctionhouse/internal/dependencies/clock"
	"github.com/mcoot/auctionhouse/internal/dependencies/random"
	"github.com/mcoot/auctionhouse/internal/events"
	"github.com/mcoot/auctionhouse/internal/events/natspub"
	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/realtime"
	"github.com/mcoot/auctionhouse/internal/services/auction"
	"github.com/mcoot/auctionhouse/internal/services/auth"
	"github.com/mcoot/auctionhouse/internal/services/bidding"
	"github.com/mcoot/auctionhouse/internal/services/ledger"
	"github.com/mcoot/auctionhouse/internal/services/session"
	"github.com/mcoot/auctionhouse/internal/storage"
	"github.com/mcoot/auctionhouse/internal/storage/memory"
	redisstorage "github.com/mcoot/auctionhouse/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage   storage.Storage
	Publisher events.Publisher

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Store       *auction.Store
	Registry    *session.Registry
	AuthService *auth.Service
	Recorder    *ledger.Recorder

	// Transport
	Hub        *realtime.Hub
	Dispatcher *realtime.Dispatcher

	// Catalog is the boot catalog, with passwords hashed
	Catalog model.Catalog

	logger         *slog.Logger
	allowedOrigins []string
	cancel         context.CancelFunc
}

// Config holds configuration for the application factory
type Config struct {
	// Port is the HTTP listen port
	Port int
	// CatalogPath is the boot catalog file (optional)
	// If empty, the auction starts from an empty catalog with the default sets
	CatalogPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Policy configures bid validation
	Policy bidding.Policy
	// AllowedOrigins restricts CORS and websocket origins. Empty or "*" allows all.
	AllowedOrigins []string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// NATSConfig enables event publishing (optional)
	NATSConfig *natspub.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSConfig != nil {
		natsPublisher, err := natspub.New(*cfg.NATSConfig, logger)
		if err != nil {
			return nil, err
		}
		publisher = natsPublisher
	}

	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}

	return newWithDependencies(dependencies{
		storage:        store,
		publisher:      publisher,
		clock:          clock.New(),
		random:         random.New(),
		catalog:        c,
		authConfig:     authCfg,
		policy:         cfg.Policy,
		allowedOrigins: cfg.AllowedOrigins,
		logger:         logger,
	})
}

// dependencies are the external pieces an App is built from
type dependencies struct {
	storage        storage.Storage
	publisher      events.Publisher
	clock          clock.Clock
	random         random.Random
	catalog        model.Catalog
	authConfig     auth.Config
	policy         bidding.Policy
	allowedOrigins []string
	logger         *slog.Logger
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(deps dependencies) (*App, error) {
	logger := deps.logger

	if err := auction.ValidateCatalog(deps.catalog); err != nil {
		return nil, err
	}

	// The store is built from the hashed catalog, so team credentials are looked up late
	var store *auction.Store
	teams := auth.TeamCredentialsFunc(func(id model.TeamID) (string, error) {
		return store.TeamPasswordHash(id)
	})
	authService, err := auth.New(teams, deps.clock, deps.random, deps.authConfig)
	if err != nil {
		return nil, err
	}
	bootCatalog, err := authService.HashCatalog(deps.catalog)
	if err != nil {
		return nil, err
	}

	store = auction.NewStore(bootCatalog, auction.Config{Policy: deps.policy}, deps.clock, logger.With(slog.String("component", "store")))
	registry := session.NewRegistry(deps.clock, logger)

	hub := realtime.NewHub(store, registry, logger)
	recorder := ledger.NewRecorder(deps.storage, deps.publisher, logger)
	store.Subscribe(recorder)

	app := &App{
		Storage:        deps.storage,
		Publisher:      deps.publisher,
		Clock:          deps.clock,
		Random:         deps.random,
		Store:          store,
		Registry:       registry,
		AuthService:    authService,
		Recorder:       recorder,
		Hub:            hub,
		Catalog:        bootCatalog,
		logger:         logger,
		allowedOrigins: deps.allowedOrigins,
	}
	app.Dispatcher = realtime.NewDispatcher(store, registry, authService, hub, app.LoadCatalog, logger)
	return app, nil
}

// LoadCatalog returns the uploaded catalog, or the boot catalog when none has been stored
func (a *App) LoadCatalog(ctx context.Context) (model.Catalog, error) {
	c, err := a.Storage.GetCatalog(ctx)
	if errors.Is(err, model.ErrCatalogNotFound) {
		return a.Catalog.Clone(), nil
	}
	if err != nil {
		return model.Catalog{}, fmt.Errorf("get catalog: %w", err)
	}
	return *c, nil
}

// SessionSweepInterval is how often expired login sessions are dropped
const SessionSweepInterval = 10 * time.Minute

// Start runs the hub, the ledger recorder and the session sweeper until Close
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.Hub.Run()
	go a.Recorder.Run(ctx)
	go a.sweepSessions(ctx)
}

func (a *App) sweepSessions(ctx context.Context) {
	ticker := a.Clock.NewTicker(SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			before := a.AuthService.SessionCount()
			a.AuthService.CleanExpiredSessions()
			if dropped := before - a.AuthService.SessionCount(); dropped > 0 {
				a.logger.Debug("expired sessions removed", slog.Int("count", dropped))
			}
		}
	}
}

// Close stops background work and flushes the ledger
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
		<-a.Recorder.Done()
	}
	a.Hub.Close()

	var errs []error
	if err := a.Publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if closer, ok := a.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Handler returns the HTTP handler serving the API and the websocket endpoint
func (a *App) Handler() http.Handler {
	wsConfig := realtime.DefaultConnectionConfig()
	wsConfig.CheckOrigin = realtime.OriginChecker(a.allowedOrigins)

	return api.NewRouter(api.RouterConfig{
		Logger:      a.logger,
		AuthService: a.AuthService,
		Store:       a.Store,
		Storage:     a.Storage,
		Hub:         a.Hub,
		WebSocket:   realtime.NewHandler(a.Hub, a.Dispatcher, wsConfig, a.logger),
	})
}
