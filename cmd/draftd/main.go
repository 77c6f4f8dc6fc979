package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/bot"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/clock"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/config"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/draft"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/health"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/leader"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/results"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/room"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/server"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/store"
	"github.com/MessiVomNr/PoNuzTracker-sub000/internal/telemetry"

	// Register store drivers so they are available via store.Open.
	_ "github.com/MessiVomNr/PoNuzTracker-sub000/internal/store/entstore"
	_ "github.com/MessiVomNr/PoNuzTracker-sub000/internal/store/postgres"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		slog.Error("fatal error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup telemetry.
	tp, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without OTEL export", slog.Any("error", err))
		tp = telemetry.NewNopProvider()
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			slog.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	logger := tp.Logger
	clk := clock.Real{}

	// Open store using the configured driver (sqlx or ent).
	repos, err := store.Open(ctx, cfg.Database, clk)
	if err != nil {
		return fmt.Errorf("opening store (driver=%s): %w", cfg.Database.Driver, err)
	}
	defer repos.Closer.Close()

	logger.InfoContext(ctx, "connected to database", slog.String("driver", cfg.Database.Driver))

	// Initialize managers. Completed drafts hand their room back to the lobby
	// so seats can change before a rematch.
	hub := server.NewHub(logger)
	archiver := results.NewArchiver(repos.Drafts, logger, tp.TracerProvider)
	roomMgr := room.NewManager(logger)
	draftMgr := draft.NewManager(repos.Events, archiver, hub, bot.Factory, roomMgr.Unlock, logger, tp.TracerProvider, clk)

	srv := server.New(roomMgr, draftMgr, archiver, hub, cfg.Server, cfg.Draft, logger)

	// Setup health checks.
	healthHandler := health.NewHandler(clk,
		health.Checker{
			Name:  "database",
			Check: repos.Ping,
		},
	)

	router := srv.Router()
	router.Get("/healthz", healthHandler.LivenessHandler())
	router.Get("/readyz", healthHandler.ReadinessHandler())

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "starting http server", slog.Int("port", cfg.Server.Port))
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			logger.ErrorContext(ctx, "http server error", slog.Any("error", listenErr))
		}
	}()

	// serveDrafts is the core work that only the leader should run. The HTTP
	// server itself runs on every replica so health probes keep answering.
	serveDrafts := func(ctx context.Context) {
		healthHandler.SetReady(true)
		logger.InfoContext(ctx, "draftd is running", slog.String("version", version))

		// Block until leadership is lost or process is shutting down.
		<-ctx.Done()

		healthHandler.SetReady(false)
		draftMgr.Stop()
	}

	if cfg.LeaderElection.Enabled {
		logger.InfoContext(ctx, "leader election enabled, waiting for leadership...")

		leaderCfg := leader.Config{
			Enabled:        cfg.LeaderElection.Enabled,
			LeaseName:      cfg.LeaderElection.LeaseName,
			LeaseNamespace: cfg.LeaderElection.LeaseNamespace,
			LeaseDuration:  cfg.LeaderElection.LeaseDuration,
			RenewDeadline:  cfg.LeaderElection.RenewDeadline,
			RetryPeriod:    cfg.LeaderElection.RetryPeriod,
		}
		if leaderErr := leader.Run(ctx, leaderCfg, logger, serveDrafts, func() {
			logger.Info("lost leadership, shutting down...")
			cancel()
		}); leaderErr != nil {
			return fmt.Errorf("leader election: %w", leaderErr)
		}
	} else {
		serveDrafts(ctx)
	}

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}
