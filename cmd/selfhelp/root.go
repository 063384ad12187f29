package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/selfhelp/internal/api"
	"github.com/hyperengineering/selfhelp/internal/config"
	"github.com/hyperengineering/selfhelp/internal/identity"
	"github.com/hyperengineering/selfhelp/internal/logging"
	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/tracker"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:          "selfhelp",
	Short:        "Selfhelp - habit, goal and to-do tracker",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (overrides SELFHELP_CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(reportCmd)
}

// loadConfig reads the explicit --config file when given, otherwise the
// default search path.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

// newTracker builds the tracking engine from the tracker config section.
func newTracker(cfg *config.Config, st store.Store) (*tracker.Service, error) {
	loc, err := cfg.Tracker.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	return tracker.NewService(st, tracker.Options{
		Location:           loc,
		DefaultHistoryDays: cfg.Tracker.DefaultHistoryDays,
		DefaultPageSize:    cfg.Tracker.DefaultPageSize,
		MaxPageSize:        cfg.Tracker.MaxPageSize,
	}), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.Info("configuration loaded")

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	ids := identity.NewService(db, cfg.Auth.AdminEmails)
	engine, err := newTracker(cfg, db)
	if err != nil {
		db.Close()
		return err
	}
	slog.Info("tracker initialized", "timezone", engine.Location().String())

	handler := api.NewHandler(engine, ids, db, Version)
	router := api.NewRouter(handler, ids)
	slog.Info("router initialized")

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected result of Shutdown; anything else
		// is a real failure and triggers shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := db.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
