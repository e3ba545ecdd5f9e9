package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LawrenceCirillo/Alan/internal/chat"
	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/internal/genai"
	"github.com/LawrenceCirillo/Alan/internal/planner"
	"github.com/LawrenceCirillo/Alan/internal/server"
	"github.com/LawrenceCirillo/Alan/internal/store"
	"github.com/LawrenceCirillo/Alan/pkg/log"
)

type app struct {
	cfg        *config.Config
	model      genai.Model
	store      store.Store
	apiServer  *server.Server
	httpServer *http.Server
	quit       chan os.Signal
}

var (
	ErrCreateModel = errors.New("failed to create model")
	ErrOpenStore   = errors.New("failed to open workflow store")
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the chat and workflow generation API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a := &app{
				cfg:  cfg,
				quit: make(chan os.Signal, 1),
			}
			return a.run(cmd.Context())
		},
	}
}

func (a *app) run(ctx context.Context) error {
	slog.Info("Alan starting",
		slog.String("log_level", a.cfg.LogLevel),
		log.Mode(a.cfg.Offline()))

	slog.Info("Configuration loaded",
		slog.String("api_host", a.cfg.APIHost),
		slog.Int("api_port", a.cfg.APIPort),
		slog.String("model_provider", a.cfg.Model.Provider),
		slog.String("model_name", a.cfg.Model.Name),
		slog.String("backend_url", a.cfg.BackendURL),
		slog.String("store_url", a.cfg.Store.URL))

	if err := a.initialize(ctx); err != nil {
		return err
	}
	a.startServer()

	signal.Notify(a.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.quit)
	<-a.quit

	a.shutdown()
	return nil
}

func (a *app) initialize(ctx context.Context) error {
	var err error
	a.model, err = newModel(a.cfg)
	if err != nil {
		return err
	}

	a.store, err = store.Open(ctx, a.cfg.Store)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenStore, err)
	}
	return nil
}

func (a *app) startServer() {
	a.apiServer = server.NewServer(
		chat.NewHandler(a.cfg, a.model),
		planner.New(a.model, a.store),
	)

	a.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", a.cfg.APIHost, a.cfg.APIPort),
		Handler: a.apiServer.SetupRoutes(),
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", a.httpServer.Addr))
		err := a.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
			a.quit <- syscall.SIGTERM
		}
	}()
}

func (a *app) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), a.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	a.apiServer.CloseWebSockets()

	if err := a.store.Close(); err != nil {
		slog.Error("Store close failed", log.Error(err))
	}

	slog.Info("Server exited")
}

// newModel returns the configured model, or nil when running offline
func newModel(cfg *config.Config) (genai.Model, error) {
	if cfg.Offline() {
		return nil, nil
	}
	m, err := genai.New(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateModel, err)
	}
	return m, nil
}
