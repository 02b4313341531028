package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightsample/internal/config"
	"github.com/dokzlo13/lightsample/internal/scenario"
)

// App is the main application container. It owns the services of one
// generation run.
type App struct {
	cfg      *config.Config
	runID    string
	services *Services
}

// New creates a new App instance with all services initialized.
func New(cfg *config.Config) (*App, error) {
	runID := uuid.NewString()

	services, err := NewServices(cfg, runID)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		runID:    runID,
		services: services,
	}, nil
}

// RunID identifies this run in logs and ledger entries.
func (a *App) RunID() string {
	return a.runID
}

// Run executes every configured scenario in order. The first fatal error
// stops the run; compression failures are only logged.
func (a *App) Run(ctx context.Context) ([]scenario.Result, error) {
	descriptors := scenario.FromConfig(a.cfg.Scenarios)

	log.Info().
		Str("run_id", a.runID).
		Str("dir", a.services.Writer.Dir()).
		Int("scenarios", len(descriptors)).
		Bool("legacy_truncation", a.cfg.Encoding.LegacyTruncation).
		Msg("Generating fixtures")

	results, err := a.services.Runner.Run(ctx, descriptors)

	if path := a.cfg.Metrics.Textfile; path != "" {
		if werr := a.services.Metrics.WriteTextfile(path); werr != nil {
			log.Warn().Err(werr).Msg("Failed to write metrics textfile")
		}
	}

	if err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		failed += len(r.Failed)
	}
	log.Info().Str("run_id", a.runID).Int("compression_failures", failed).Msg("Fixtures generated")
	return results, nil
}

// Close releases all resources.
func (a *App) Close() {
	if a.services != nil {
		a.services.Close()
	}
}

// SignalContext creates a context that is cancelled when SIGINT or SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	return ctx
}
