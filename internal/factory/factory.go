package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/circle-go/internal/dependencies/clock"
	"github.com/mcoot/circle-go/internal/dependencies/random"
	"github.com/mcoot/circle-go/internal/middleware"
	"github.com/mcoot/circle-go/internal/services/auth"
	"github.com/mcoot/circle-go/internal/services/catalog"
	"github.com/mcoot/circle-go/internal/services/contest"
	"github.com/mcoot/circle-go/internal/services/progression"
	"github.com/mcoot/circle-go/internal/storage"
	"github.com/mcoot/circle-go/internal/storage/memory"
	redisstorage "github.com/mcoot/circle-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// MetricsNamespace prefixes every simulator metric
const MetricsNamespace = "circle_sim"

// App contains all wired simulator components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	CatalogService     *catalog.Service
	ProgressionService *progression.Service
	ContestController  *contest.Controller
	AuthService        *auth.Service
	Metrics            *middleware.Metrics
}

// Config holds configuration for the application factory
type Config struct {
	// CatalogPath is a problem catalog JSON file (optional)
	// If empty, the embedded catalog is loaded
	CatalogPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Seed makes problem selection and awards reproducible (optional)
	Seed *uint64
}

// New creates a new application with all dependencies wired and the problem
// catalog loaded
func New(ctx context.Context, cfg Config) (*App, error) {
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

	// Create external dependencies
	clk := clock.New()
	var rnd random.Random = random.New()
	if cfg.Seed != nil {
		rnd = random.NewSeeded(*cfg.Seed)
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, authCfg, logger)

	if cfg.CatalogPath != "" {
		if err := app.CatalogService.LoadFromFile(ctx, cfg.CatalogPath); err != nil {
			return nil, err
		}
	} else if err := app.CatalogService.LoadEmbedded(); err != nil {
		return nil, err
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	catalogService := catalog.New(logger)
	progressionService := progression.New(rnd)
	contestController := contest.NewController(store, catalogService, progressionService, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		CatalogService:     catalogService,
		ProgressionService: progressionService,
		ContestController:  contestController,
		AuthService:        authService,
		Metrics:            middleware.NewMetrics(MetricsNamespace),
	}
}
