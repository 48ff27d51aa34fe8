package widget

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type sweepObserver interface {
	ObserveSweep(removed, remaining int)
}

// Sweeper periodically tears down abandoned session widgets so their revert
// timers never outlive the session.
type Sweeper struct {
	registry *Registry
	cron     *cron.Cron
	spec     string
	logger   zerolog.Logger
	observer sweepObserver
}

func NewSweeper(registry *Registry, spec string, logger zerolog.Logger, observer sweepObserver) *Sweeper {
	return &Sweeper{
		registry: registry,
		cron:     cron.New(),
		spec:     spec,
		logger:   logger.With().Str("component", "WidgetSweeper").Logger(),
		observer: observer,
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		s.logger.Error().Err(err).Str("spec", s.spec).Msg("failed to schedule widget sweep")
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("widget sweeper started")
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("widget sweeper stopped")
}

func (s *Sweeper) RunOnce() {
	removed := s.registry.Sweep()
	remaining := s.registry.Len()
	if s.observer != nil {
		s.observer.ObserveSweep(removed, remaining)
	}
	s.logger.Debug().
		Int("removed", removed).
		Int("remaining", remaining).
		Msg("widget sweep completed")
}
