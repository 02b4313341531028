package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightsample/internal/config"
	"github.com/dokzlo13/lightsample/internal/db"
	"github.com/dokzlo13/lightsample/internal/generate"
	"github.com/dokzlo13/lightsample/internal/ledger"
	"github.com/dokzlo13/lightsample/internal/metrics"
	"github.com/dokzlo13/lightsample/internal/output"
	"github.com/dokzlo13/lightsample/internal/payload"
	"github.com/dokzlo13/lightsample/internal/scenario"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Optional bookkeeping
	DB     *db.DB
	Ledger *ledger.Ledger

	Metrics *metrics.Metrics
	Writer  *output.Writer
	Runner  *scenario.Runner
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config, runID string) (*Services, error) {
	s := &Services{cfg: cfg}

	if cfg.Database.Path != "" {
		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		s.DB = database
		s.Ledger = ledger.New(database.DB)
		log.Info().Str("path", cfg.Database.Path).Msg("Artifact ledger enabled")

		if retention := cfg.Database.Retention.Duration(); retention > 0 {
			deleted, err := s.Ledger.DeleteOlderThan(retention)
			if err != nil {
				log.Error().Err(err).Msg("Failed to cleanup old ledger entries")
			} else if deleted > 0 {
				log.Info().Int64("deleted", deleted).Dur("retention", retention).Msg("Cleaned up old ledger entries")
			}
		}
	}

	s.Metrics = metrics.New()

	writer, err := output.NewWriter(cfg.Output.Dir)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Writer = writer

	if cfg.Generate.Seed != 0 {
		log.Info().Uint64("seed", cfg.Generate.Seed).Msg("Using fixed random seed")
	}

	s.Runner = scenario.NewRunner(scenario.Options{
		RunID:        runID,
		Writer:       writer,
		Encoder:      payload.Encoder{LegacyTruncation: cfg.Encoding.LegacyTruncation},
		Rand:         generate.NewRand(cfg.Generate.Seed),
		SerialPrefix: cfg.Generate.SerialPrefix,
		Compress:     cfg.Compression.IsEnabled(),
		GzipLevel:    cfg.Compression.GetLevel(),
		Ledger:       s.Ledger,
		Metrics:      s.Metrics,
	})

	return s, nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close ledger database")
		}
		s.DB = nil
	}
}
