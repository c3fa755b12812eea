package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/circle-go/internal/api"
	"github.com/mcoot/circle-go/internal/factory"
	redisstorage "github.com/mcoot/circle-go/internal/storage/redis"
)

type options struct {
	port        int
	storageType string
	redisURL    string
	seed        string
	catalogPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{
		port:        envInt("PORT", api.DefaultServerConfig().Port),
		storageType: os.Getenv("STORAGE_TYPE"),
		redisURL:    os.Getenv("REDIS_URL"),
		seed:        os.Getenv("SIM_SEED"),
		catalogPath: os.Getenv("SIM_CATALOG"),
	}

	cmd := &cobra.Command{
		Use:   "circle-sim",
		Short: "Local simulator of the contest service",
		Long: `circle-sim serves the contest HTTP API backed by an embedded problem
catalog, for local development of the circle client.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", opts.port, "Listen port (env: PORT)")
	cmd.Flags().StringVar(&opts.storageType, "storage", opts.storageType, "Storage backend: memory, redis (env: STORAGE_TYPE)")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", opts.redisURL, "Redis URL (env: REDIS_URL)")
	cmd.Flags().StringVar(&opts.seed, "seed", opts.seed, "Random seed for reproducible contests (env: SIM_SEED)")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", opts.catalogPath, "Problem catalog JSON file; embedded when empty (env: SIM_CATALOG)")

	return cmd
}

func run(ctx context.Context, opts options) error {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := factory.Config{
		CatalogPath: opts.catalogPath,
		Logger:      logger,
		StorageType: opts.storageType,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if opts.redisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = opts.redisURL
		cfg.RedisConfig = &redisCfg
	}

	if opts.seed != "" {
		seed, err := strconv.ParseUint(opts.seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", opts.seed, err)
		}
		cfg.Seed = &seed
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		AuthService:       app.AuthService,
		ContestController: app.ContestController,
		Metrics:           app.Metrics,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = opts.port
	server := api.NewServer(router, serverConfig, logger)
	if err := server.Listen(); err != nil {
		logger.Error("failed to listen", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.Int("catalog_size", app.CatalogService.Count()),
	)

	// Serve until a shutdown signal arrives
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
