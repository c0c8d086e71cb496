// Package maintenance runs scheduled housekeeping over the catalog.
// Its single job today is orphan cleanup: shows that have lost all
// episodes, seasons and task associations linger as empty rows until
// collected here.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmylchreest/episodarr/internal/config"
	"github.com/jmylchreest/episodarr/internal/repository"
	"github.com/robfig/cron/v3"
)

// Service owns the cron scheduler for catalog housekeeping.
type Service struct {
	shows  repository.ShowRepository
	cfg    config.MaintenanceConfig
	cron   *cron.Cron
	logger *slog.Logger
}

// NewService creates a maintenance service. The schedule uses 6-field
// cron expressions (seconds included).
func NewService(shows repository.ShowRepository, cfg config.MaintenanceConfig) *Service {
	return &Service{
		shows:  shows,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger
	return s
}

// Start registers the GC job and starts the scheduler. Disabled
// maintenance is a no-op.
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("maintenance disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.CollectOrphans(ctx); err != nil {
			s.logger.Error("orphan collection failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling maintenance: %w", err)
	}

	s.cron.Start()
	s.logger.Info("maintenance scheduled", "cron", s.cfg.Cron)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// CollectOrphans deletes shows with no episodes, no seasons and no
// task associations. Safe to call directly, outside the schedule.
func (s *Service) CollectOrphans(ctx context.Context) error {
	orphans, err := s.shows.GetOrphans(ctx)
	if err != nil {
		return fmt.Errorf("finding orphan shows: %w", err)
	}

	for _, show := range orphans {
		if err := s.shows.DeleteCascade(ctx, show.ID); err != nil {
			return fmt.Errorf("deleting orphan show %q: %w", show.Name, err)
		}
		s.logger.Info("collected orphan show", "show", show.Name)
	}

	if len(orphans) > 0 {
		s.logger.Info("orphan collection completed", "removed", len(orphans))
	}
	return nil
}
