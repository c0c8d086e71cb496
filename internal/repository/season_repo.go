package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmylchreest/episodarr/internal/models"
	"gorm.io/gorm"
)

// seasonRepo implements SeasonRepository using GORM.
type seasonRepo struct {
	db *gorm.DB
}

// NewSeasonRepository creates a new SeasonRepository.
func NewSeasonRepository(db *gorm.DB) *seasonRepo {
	return &seasonRepo{db: db}
}

// GetOrCreate resolves a season by (show, identifier), creating it when
// absent. A duplicate-insert race resolves as a lookup.
func (r *seasonRepo) GetOrCreate(ctx context.Context, season *models.Season) (*models.Season, bool, error) {
	existing, err := r.GetByIdentifier(ctx, season.ShowID, season.Identifier)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if err := r.db.WithContext(ctx).Create(season).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := r.GetByIdentifier(ctx, season.ShowID, season.Identifier)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("creating season: %w", err)
	}
	return season, true, nil
}

// GetByID retrieves a season by ID with releases preloaded.
func (r *seasonRepo) GetByID(ctx context.Context, id models.ULID) (*models.Season, error) {
	var season models.Season
	err := r.db.WithContext(ctx).Preload("Releases").Where("id = ?", id).First(&season).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting season by ID: %w", err)
	}
	return &season, nil
}

// GetByIdentifier retrieves a season of a show by canonical identifier.
func (r *seasonRepo) GetByIdentifier(ctx context.Context, showID models.ULID, identifier string) (*models.Season, error) {
	var season models.Season
	err := r.db.WithContext(ctx).Preload("Releases").
		Where("show_id = ? AND identifier = ?", showID, identifier).
		First(&season).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting season by identifier: %w", err)
	}
	return &season, nil
}

// ListByShow returns a show's seasons in season-number order with
// half-open [start, stop) slicing.
func (r *seasonRepo) ListByShow(ctx context.Context, showID models.ULID, start, stop int) ([]*models.Season, error) {
	q := r.db.WithContext(ctx).Preload("Releases").
		Where("show_id = ?", showID).
		Order("season ASC").Order("id ASC")

	if start > 0 {
		q = q.Offset(start)
	}
	if stop > 0 {
		q = q.Limit(stop - start)
	}

	var seasons []*models.Season
	if err := q.Find(&seasons).Error; err != nil {
		return nil, fmt.Errorf("listing seasons: %w", err)
	}
	return seasons, nil
}

// Delete removes a season and its releases.
func (r *seasonRepo) Delete(ctx context.Context, id models.ULID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season_id = ?", id).Delete(&models.SeasonRelease{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Season{}).Error
	})
	if err != nil {
		return fmt.Errorf("deleting season: %w", err)
	}
	return nil
}
