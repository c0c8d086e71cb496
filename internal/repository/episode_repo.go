package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/episodarr/internal/models"
	"gorm.io/gorm"
)

// episodeRepo implements EpisodeRepository using GORM.
type episodeRepo struct {
	db *gorm.DB
}

// NewEpisodeRepository creates a new EpisodeRepository.
func NewEpisodeRepository(db *gorm.DB) *episodeRepo {
	return &episodeRepo{db: db}
}

// GetOrCreate resolves an episode by (show, identifier), creating it
// when absent. When a concurrent insert wins the race on the unique
// key, the loser's insert becomes a lookup.
func (r *episodeRepo) GetOrCreate(ctx context.Context, episode *models.Episode) (*models.Episode, bool, error) {
	existing, err := r.GetByIdentifier(ctx, episode.ShowID, episode.Identifier)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if err := r.db.WithContext(ctx).Create(episode).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := r.GetByIdentifier(ctx, episode.ShowID, episode.Identifier)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("creating episode: %w", err)
	}
	return episode, true, nil
}

// GetByID retrieves an episode by ID with releases preloaded.
func (r *episodeRepo) GetByID(ctx context.Context, id models.ULID) (*models.Episode, error) {
	var episode models.Episode
	err := r.db.WithContext(ctx).Preload("Releases").Where("id = ?", id).First(&episode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting episode by ID: %w", err)
	}
	return &episode, nil
}

// GetByIdentifier retrieves an episode of a show by canonical identifier.
func (r *episodeRepo) GetByIdentifier(ctx context.Context, showID models.ULID, identifier string) (*models.Episode, error) {
	var episode models.Episode
	err := r.db.WithContext(ctx).Preload("Releases").
		Where("show_id = ? AND identifier = ?", showID, identifier).
		First(&episode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting episode by identifier: %w", err)
	}
	return &episode, nil
}

// ListByShow returns a show's episodes in scheme order with half-open
// [start, stop) slicing.
func (r *episodeRepo) ListByShow(ctx context.Context, showID models.ULID, scheme models.IdentifierScheme, start, stop int) ([]*models.Episode, error) {
	q := r.db.WithContext(ctx).Preload("Releases").Where("show_id = ?", showID)

	switch scheme {
	case models.SchemeDate:
		// Canonical identifiers are ISO dates: string order is date order.
		q = q.Order("identifier ASC")
	case models.SchemeSequence:
		q = q.Order("number ASC")
	default:
		q = q.Order("season ASC").Order("number ASC")
	}
	q = q.Order("id ASC")

	if start > 0 {
		q = q.Offset(start)
	}
	if stop > 0 {
		q = q.Limit(stop - start)
	}

	var episodes []*models.Episode
	if err := q.Find(&episodes).Error; err != nil {
		return nil, fmt.Errorf("listing episodes: %w", err)
	}
	return episodes, nil
}

// CountAfter counts episodes strictly after the (season, number) key.
func (r *episodeRepo) CountAfter(ctx context.Context, showID models.ULID, season, number int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("show_id = ?", showID).
		Where("identified_by NOT IN ?", []string{string(models.SchemeSpecial)}).
		Where("(season > ?) OR (season = ? AND number > ?)", season, season, number).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting episodes after: %w", err)
	}
	return count, nil
}

// CountSeenAfter counts episodes whose earliest release was first seen
// after the given time.
func (r *episodeRepo) CountSeenAfter(ctx context.Context, showID models.ULID, after time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("show_id = ?", showID).
		Where(`EXISTS (SELECT 1 FROM episode_releases
			WHERE episode_releases.episode_id = series_episodes.id
			AND episode_releases.first_seen > ?)`, after).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting episodes seen after: %w", err)
	}
	return count, nil
}

// SchemeHistogram counts episodes per concrete identified_by value.
// Unset and special rows carry no evidence and are excluded.
func (r *episodeRepo) SchemeHistogram(ctx context.Context, showID models.ULID) (map[models.IdentifierScheme]int64, error) {
	type row struct {
		IdentifiedBy string
		Count        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Episode{}).
		Select("identified_by, COUNT(*) as count").
		Where("show_id = ?", showID).
		Where("identified_by IS NOT NULL AND identified_by != '' AND identified_by != ?", string(models.SchemeSpecial)).
		Group("identified_by").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("building scheme histogram: %w", err)
	}

	histogram := make(map[models.IdentifierScheme]int64, len(rows))
	for _, r := range rows {
		histogram[models.IdentifierScheme(r.IdentifiedBy)] = r.Count
	}
	return histogram, nil
}

// Delete removes an episode and its releases.
func (r *episodeRepo) Delete(ctx context.Context, id models.ULID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("episode_id = ?", id).Delete(&models.EpisodeRelease{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Episode{}).Error
	})
	if err != nil {
		return fmt.Errorf("deleting episode: %w", err)
	}
	return nil
}
