package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wowlab/guildsim/internal/auth"
	"github.com/wowlab/guildsim/internal/blizzard"
	"github.com/wowlab/guildsim/internal/bootstrap"
	"github.com/wowlab/guildsim/internal/config"
	"github.com/wowlab/guildsim/internal/database"
	"github.com/wowlab/guildsim/internal/guild"
	"github.com/wowlab/guildsim/internal/handler"
	"github.com/wowlab/guildsim/internal/notify"
	"github.com/wowlab/guildsim/internal/roster"
	"github.com/wowlab/guildsim/internal/server"
	"github.com/wowlab/guildsim/internal/simulation"
	"github.com/wowlab/guildsim/internal/stream"
	"github.com/wowlab/guildsim/internal/user"
)

// Connection pool tuning for the API workload.
const (
	dbMaxConns        = 10
	dbMaxConnIdle     = 5 * time.Minute
	dbMaxConnLifetime = 30 * time.Minute

	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	bootstrap.SetupLogger(cfg)
	handler.InitValidator()

	// Outside dev, require the full environment schema up front rather
	// than failing on the first missing credential at request time.
	if cfg.Environment != "dev" {
		warnings, err := config.ValidateEnvWithWarnings()
		if err != nil {
			slog.Error("Environment validation failed", "error", err)
			os.Exit(1)
		}
		for _, warning := range warnings {
			slog.Warn(warning)
		}
	}

	ctx := context.Background()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxConnIdle, dbMaxConnLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, dbPool); err != nil {
		slog.Error("Migrations failed", "error", err)
		os.Exit(1)
	}

	eventBus, publisher, deadLetter, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Event system initialization failed", "error", err)
		os.Exit(1)
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	sessions, err := auth.NewManager(cfg.SessionSecret, cfg.SessionDuration)
	if err != nil {
		slog.Error("Session manager initialization failed", "error", err)
		os.Exit(1)
	}

	// Simulation queue
	runner := simulation.NewSimcRunner(cfg.SimcPath)
	sims := simulation.NewService(simulation.Config{
		Workers:   cfg.QueueWorkers,
		QueueSize: cfg.QueueSize,
		Timeout:   cfg.SimcTimeout,
		Retention: cfg.JobRetention,
	}, runner, publisher)
	sims.Start()

	hub := stream.NewHub()
	hub.Start()
	streams := stream.NewHandler(sims, hub)

	// Game API access is optional. Without credentials the service still
	// parses profiles and runs simulations, just without armory lookups,
	// OAuth login or guild sync.
	var (
		bnet   *blizzard.Client
		users  user.Service
		guilds guild.Service
	)
	if cfg.BlizzardClientID != "" && cfg.BlizzardClientSecret != "" {
		bnet, err = blizzard.New(blizzard.Config{
			ClientID:     cfg.BlizzardClientID,
			ClientSecret: cfg.BlizzardClientSecret,
			Region:       cfg.BlizzardRegion,
			Locale:       cfg.DefaultLocale,
			CacheSize:    cfg.CacheMaxEntries,
			CacheStore:   repos.CacheStore,
		})
		if err != nil {
			slog.Error("Blizzard client initialization failed", "error", err)
			os.Exit(1)
		}
		users = user.NewService(repos.Users, repos.Characters, bnet, cfg.BlizzardRegion)
		guilds = guild.NewService(repos.Guilds, bnet, publisher)
	} else {
		slog.Warn("Blizzard API credentials not set, armory and login routes disabled")
	}

	var rosters roster.Service
	if guilds != nil {
		rosters = roster.NewService(repos.Rosters, guilds, publisher)
	}

	notifier, err := notify.New(notify.Config{
		Token:     cfg.DiscordToken,
		ChannelID: cfg.DiscordChannelID,
	})
	if err != nil {
		slog.Error("Discord notifier initialization failed", "error", err)
		os.Exit(1)
	}

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: eventBus,
		Hub:      hub,
		Notifier: notifier,
	}); err != nil {
		slog.Error("Event handler registration failed", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(cfg.Port, cfg.TrustedProxies, server.Dependencies{
		DBPool:      dbPool,
		Simulations: sims,
		Streams:     streams,
		Bus:         publisher,
		Users:       users,
		Guilds:      guilds,
		Rosters:     rosters,
		Sessions:    sessions,
		Bnet:        bnet,
		AuthConfig: handler.AuthConfig{
			ClientID:    cfg.BlizzardClientID,
			RedirectURI: cfg.OAuthRedirectURL,
			FrontendURL: cfg.FrontendURL,
			Region:      cfg.BlizzardRegion,
			Locale:      cfg.DefaultLocale,
			Secure:      cfg.Environment == "prod",
		},
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:      srv,
		Simulations: sims,
		Hub:         hub,
		Notifier:    notifier,
		DeadLetter:  deadLetter,
		DBPool:      dbPool,
	})
}
