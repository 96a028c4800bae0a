package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/catalog/datasets" // Register built-in datasets
	"github.com/JonMunkholm/tablekit/internal/config"
	"github.com/JonMunkholm/tablekit/internal/logging"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()
	env := catalog.Env{}

	db, err := source.OpenSQLite(cfg.SQLite.Path)
	if err != nil {
		logger.Error("failed to open sqlite", "path", cfg.SQLite.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.SQLite.Seed {
		if err := datasets.SeedSQLite(ctx, db); err != nil {
			logger.Error("failed to seed sqlite", "error", err)
			os.Exit(1)
		}
	}
	env.SQLite = db

	// Postgres is optional; datasets that need it report unavailable.
	if cfg.Database.URL != "" {
		pool, err := source.Connect(ctx, source.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		env.Postgres = pool

		if u, err := url.Parse(cfg.Database.URL); err == nil {
			logger.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			logger.Info("connected to database")
		}
	}

	logger.Info("datasets registered",
		"count", catalog.Count(),
		"groups", len(catalog.Groups()),
	)
	for _, group := range catalog.Groups() {
		logger.Debug("dataset group", "group", group, "datasets", len(catalog.ByGroup(group)))
	}

	depth := cfg.Table.MaxLeafRowFilterDepth
	store := catalog.NewStore(env, catalog.Settings{
		PageSize:              cfg.Table.PageSize,
		MaxLeafRowFilterDepth: &depth,
		Debug:                 cfg.Table.Debug,
		Logger:                logger,
	})
	server := web.NewServer(store, cfg, logger)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	if cfg.Table.MaxAge > 0 {
		go store.RunExpiry(jobCtx, cfg.Table.MaxAge, cfg.Table.MaxAge)
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down...")
		cancelJobs()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	if err := server.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
	logger.Info("server stopped")
}
