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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/glsidebar/internal/adapter/driven/eventlog"
	gitlabadapter "github.com/ericfisherdev/glsidebar/internal/adapter/driven/gitlab"
	sqliteadapter "github.com/ericfisherdev/glsidebar/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/glsidebar/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/glsidebar/internal/adapter/driving/web"
	"github.com/ericfisherdev/glsidebar/internal/application"
	"github.com/ericfisherdev/glsidebar/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"plugin_url", cfg.PluginURL,
		"gitlab_url", cfg.GitLabURL,
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
		"view_mode", cfg.ViewMode,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the user cache database and run migrations.
	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath, "in_memory", db.InMemory())

	// 4. Wire adapters.
	userStore := sqliteadapter.NewUserRepo(db)
	if cached, err := userStore.Count(ctx); err != nil {
		slog.Warn("could not count cached users", "error", err)
	} else {
		slog.Info("user cache ready", "entries", cached)
	}
	events := eventlog.New(slog.Default(), eventlog.DefaultCapacity)

	client, err := gitlabadapter.NewClient(cfg.PluginURL, cfg.Token)
	if err != nil {
		return err
	}

	// 5. Create and start the sidebar service.
	sidebarSvc := application.NewSidebarService(client, events, cfg.ViewMode, cfg.PollInterval)
	go sidebarSvc.Start(ctx)

	userSvc := application.NewUserLookupService(userStore, client, events)
	previewSvc := application.NewPreviewService(client, sidebarSvc, cfg.Hostname())

	// 6. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(sidebarSvc, userSvc, previewSvc, events, cfg.GitLabURL, slog.Default())
	httphandler.RegisterRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(sidebarSvc, previewSvc, cfg.GitLabURL, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.Wrap(mux, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("glsidebar started",
		"listen_addr", cfg.ListenAddr,
		"view_mode", cfg.ViewMode,
	)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
