package series

import (
	"context"

	"github.com/jmylchreest/episodarr/internal/models"
)

// AddAlternateName attaches an alternate name to a show. An alternate
// name already attached elsewhere is a conflict naming the owning show.
func (s *Service) AddAlternateName(ctx context.Context, showID models.ULID, name string) (*models.AlternateName, error) {
	show, err := s.ShowByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	alt, err := s.repos.Shows.AddAlternateName(ctx, showID, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("added alternate name", "show", show.Name, "alternate", name)
	return alt, nil
}

// RemoveAlternateName detaches an alternate name from a show.
func (s *Service) RemoveAlternateName(ctx context.Context, showID models.ULID, name string) error {
	return s.repos.Shows.RemoveAlternateName(ctx, showID, models.NormalizeShowName(name))
}

// AssociateTask records that a configured task tracks this show.
// Shows with task associations count as configured and are exempt from
// orphan cleanup.
func (s *Service) AssociateTask(ctx context.Context, showID models.ULID, taskName string) error {
	if taskName == "" {
		return models.ErrTaskNameRequired
	}
	if _, err := s.ShowByID(ctx, showID); err != nil {
		return err
	}
	return s.repos.Shows.AddTask(ctx, showID, taskName)
}

// DissociateTask removes a task association.
func (s *Service) DissociateTask(ctx context.Context, showID models.ULID, taskName string) error {
	return s.repos.Shows.RemoveTask(ctx, showID, taskName)
}
