package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"cargoflow/internal/config"
)

// SweepWorker runs the alert rule sweep on a fixed interval.
type SweepWorker struct {
	alerts AlertService
	cfg    config.SweepConfig
	logger zerolog.Logger
}

// NewSweepWorker creates a new SweepWorker.
func NewSweepWorker(alerts AlertService, cfg config.SweepConfig, logger zerolog.Logger) *SweepWorker {
	return &SweepWorker{
		alerts: alerts,
		cfg:    cfg,
		logger: logger.With().Str("component", "sweep_worker").Logger(),
	}
}

// Start runs the sweep loop until ctx is canceled. The first sweep fires
// immediately rather than waiting a full interval.
func (w *SweepWorker) Start(ctx context.Context) {
	if !w.cfg.Enabled {
		w.logger.Info().Msg("sweep worker disabled")
		return
	}

	interval := time.Duration(w.cfg.IntervalSecs) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info().Dur("interval", interval).Msg("sweep worker started")
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SweepWorker) sweep(ctx context.Context) {
	result, err := w.alerts.RunSweep(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error().Err(err).Msg("sweep failed")
		return
	}
	w.logger.Info().
		Int("created", result.AlertsCreated).
		Int("resolved", result.AlertsResolved).
		Msg("sweep finished")
}
