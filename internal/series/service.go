// Package series implements the series tracking engine: release
// ingestion into the show/season/episode catalog, numbering-scheme
// classification, and the query operations the pipeline builds on.
package series

import (
	"context"
	"log/slog"

	"github.com/jmylchreest/episodarr/internal/events"
	"github.com/jmylchreest/episodarr/internal/repository"
	"gorm.io/gorm"
)

// Service is the series engine. All persistent state lives in the
// catalog store; the service itself is stateless and safe for
// concurrent use. Duplicate-insert races between concurrent callers
// resolve through the store's unique keys, not through locking here.
type Service struct {
	db     *gorm.DB
	repos  *repository.Set
	bus    *events.Bus
	logger *slog.Logger
}

// NewService creates a series service on the given database handle.
func NewService(db *gorm.DB, bus *events.Bus) *Service {
	return &Service{
		db:     db,
		repos:  repository.NewSet(db),
		bus:    bus,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the service.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger
	return s
}

// withTransaction runs fn with a repository set bound to one
// transaction. A single logical operation never spans more than one
// transaction, and never nests another inside it.
func (s *Service) withTransaction(ctx context.Context, fn func(repos *repository.Set) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repository.NewSet(tx))
	})
}
