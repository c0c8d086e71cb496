package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmylchreest/episodarr/internal/models"
	"gorm.io/gorm"
)

// showRepo implements ShowRepository using GORM.
type showRepo struct {
	db *gorm.DB
}

// NewShowRepository creates a new ShowRepository.
func NewShowRepository(db *gorm.DB) *showRepo {
	return &showRepo{db: db}
}

// Create creates a new show.
func (r *showRepo) Create(ctx context.Context, show *models.Show) error {
	if err := r.db.WithContext(ctx).Create(show).Error; err != nil {
		return fmt.Errorf("creating show: %w", err)
	}
	return nil
}

// GetByID retrieves a show by ID.
func (r *showRepo) GetByID(ctx context.Context, id models.ULID) (*models.Show, error) {
	var show models.Show
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting show by ID: %w", err)
	}
	return &show, nil
}

// GetByNormalizedName resolves a show by normalized name, falling back
// to alternate names sharing the same normalized form.
func (r *showRepo) GetByNormalizedName(ctx context.Context, normalized string) (*models.Show, error) {
	var show models.Show
	err := r.db.WithContext(ctx).Where("name_normalized = ?", normalized).First(&show).Error
	if err == nil {
		return &show, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("getting show by normalized name: %w", err)
	}

	var alt models.AlternateName
	err = r.db.WithContext(ctx).Where("alt_name_normalized = ?", normalized).First(&alt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting show by alternate name: %w", err)
	}
	return r.GetByID(ctx, alt.ShowID)
}

// FindByName retrieves shows whose name contains the fragment.
func (r *showRepo) FindByName(ctx context.Context, fragment string) ([]*models.Show, error) {
	var shows []*models.Show
	normalized := models.NormalizeShowName(fragment)
	err := r.db.WithContext(ctx).
		Where("name_normalized LIKE ?", "%"+normalized+"%").
		Order("name_normalized ASC").
		Find(&shows).Error
	if err != nil {
		return nil, fmt.Errorf("finding shows by name: %w", err)
	}
	return shows, nil
}

// Update persists changes to an existing show.
func (r *showRepo) Update(ctx context.Context, show *models.Show) error {
	if err := r.db.WithContext(ctx).Save(show).Error; err != nil {
		return fmt.Errorf("updating show: %w", err)
	}
	return nil
}

// DeleteCascade deletes a show with all dependents, children before
// parents, in one transaction.
func (r *showRepo) DeleteCascade(ctx context.Context, id models.ULID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var episodeIDs []models.ULID
		if err := tx.Model(&models.Episode{}).Where("show_id = ?", id).Pluck("id", &episodeIDs).Error; err != nil {
			return err
		}
		if len(episodeIDs) > 0 {
			if err := tx.Where("episode_id IN ?", episodeIDs).Delete(&models.EpisodeRelease{}).Error; err != nil {
				return err
			}
		}

		var seasonIDs []models.ULID
		if err := tx.Model(&models.Season{}).Where("show_id = ?", id).Pluck("id", &seasonIDs).Error; err != nil {
			return err
		}
		if len(seasonIDs) > 0 {
			if err := tx.Where("season_id IN ?", seasonIDs).Delete(&models.SeasonRelease{}).Error; err != nil {
				return err
			}
		}

		// The begin pointer references an episode about to disappear.
		if err := tx.Model(&models.Show{}).Where("id = ?", id).Update("begin_episode_id", nil).Error; err != nil {
			return err
		}

		for _, m := range []any{
			&models.Episode{}, &models.Season{},
			&models.AlternateName{}, &models.ShowTask{},
		} {
			if err := tx.Where("show_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).Delete(&models.Show{}).Error
	})
	if err != nil {
		return fmt.Errorf("deleting show cascade: %w", err)
	}
	return nil
}

// GetSummary returns a filtered, paginated summary listing.
// The deterministic tie-break for equal sort keys is surrogate id
// ascending.
func (r *showRepo) GetSummary(ctx context.Context, opts SummaryOptions) ([]ShowSummary, error) {
	q := r.db.WithContext(ctx).Model(&models.Show{})

	switch opts.Configured {
	case ConfiguredOnly:
		q = q.Where("EXISTS (SELECT 1 FROM series_tasks WHERE series_tasks.show_id = series.id)")
	case Unconfigured:
		q = q.Where("NOT EXISTS (SELECT 1 FROM series_tasks WHERE series_tasks.show_id = series.id)")
	}

	if opts.Premieres {
		q = q.Where("COALESCE((SELECT MAX(season) FROM series_episodes WHERE series_episodes.show_id = series.id), 0) <= 1").
			Where("COALESCE((SELECT MAX(number) FROM series_episodes WHERE series_episodes.show_id = series.id), 0) <= 2").
			Where(`EXISTS (
				SELECT 1 FROM episode_releases
				JOIN series_episodes ON series_episodes.id = episode_releases.episode_id
				WHERE series_episodes.show_id = series.id AND episode_releases.downloaded)`)
	}

	dir := "ASC"
	if opts.Descending {
		dir = "DESC"
	}
	if opts.SortByName {
		q = q.Order("series.name_normalized " + dir).Order("series.id ASC")
	} else {
		q = q.Order(fmt.Sprintf(`(SELECT MAX(first_seen) FROM episode_releases
			JOIN series_episodes ON series_episodes.id = episode_releases.episode_id
			WHERE series_episodes.show_id = series.id) %s`, dir)).
			Order("series.id ASC")
	}

	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var shows []*models.Show
	if err := q.Find(&shows).Error; err != nil {
		return nil, fmt.Errorf("getting series summary: %w", err)
	}

	summaries := make([]ShowSummary, 0, len(shows))
	for _, show := range shows {
		summary := ShowSummary{Show: show}

		if err := r.db.WithContext(ctx).Model(&models.Episode{}).
			Where("show_id = ?", show.ID).Count(&summary.EpisodeCount).Error; err != nil {
			return nil, fmt.Errorf("counting episodes: %w", err)
		}

		if err := r.db.WithContext(ctx).Model(&models.EpisodeRelease{}).
			Joins("JOIN series_episodes ON series_episodes.id = episode_releases.episode_id").
			Where("series_episodes.show_id = ? AND episode_releases.downloaded", show.ID).
			Count(&summary.DownloadedCount).Error; err != nil {
			return nil, fmt.Errorf("counting downloaded releases: %w", err)
		}

		var latest []models.EpisodeRelease
		if err := r.db.WithContext(ctx).Model(&models.EpisodeRelease{}).
			Joins("JOIN series_episodes ON series_episodes.id = episode_releases.episode_id").
			Where("series_episodes.show_id = ?", show.ID).
			Order("episode_releases.first_seen DESC").
			Limit(1).Find(&latest).Error; err != nil {
			return nil, fmt.Errorf("getting latest first_seen: %w", err)
		}
		if len(latest) > 0 {
			t := latest[0].FirstSeen
			summary.LatestFirstSeen = &t
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// AddAlternateName attaches an alternate name to a show.
func (r *showRepo) AddAlternateName(ctx context.Context, showID models.ULID, altName string) (*models.AlternateName, error) {
	normalized := models.NormalizeShowName(altName)

	var existing models.AlternateName
	err := r.db.WithContext(ctx).Where("alt_name_normalized = ?", normalized).First(&existing).Error
	if err == nil {
		if existing.ShowID == showID {
			return &existing, nil
		}
		var owner models.Show
		ownerName := existing.ShowID.String()
		if lookupErr := r.db.WithContext(ctx).Where("id = ?", existing.ShowID).First(&owner).Error; lookupErr == nil {
			ownerName = owner.Name
		}
		return nil, &models.ConflictError{
			Subject: altName,
			Detail:  fmt.Sprintf("alternate name already belongs to show %q", ownerName),
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking alternate name: %w", err)
	}

	alt := &models.AlternateName{
		ShowID:            showID,
		AltName:           altName,
		AltNameNormalized: normalized,
	}
	if err := r.db.WithContext(ctx).Create(alt).Error; err != nil {
		// Lost a duplicate-insert race: surface as a conflict, the same
		// as the pre-check path.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &models.ConflictError{
				Subject: altName,
				Detail:  "alternate name already belongs to another show",
			}
		}
		return nil, fmt.Errorf("creating alternate name: %w", err)
	}
	return alt, nil
}

// RemoveAlternateName detaches an alternate name by normalized form.
func (r *showRepo) RemoveAlternateName(ctx context.Context, showID models.ULID, normalized string) error {
	result := r.db.WithContext(ctx).
		Where("show_id = ? AND alt_name_normalized = ?", showID, normalized).
		Delete(&models.AlternateName{})
	if result.Error != nil {
		return fmt.Errorf("removing alternate name: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &models.NotFoundError{Kind: "alternate name", Key: normalized}
	}
	return nil
}

// AddTask records that a configured task references the show.
func (r *showRepo) AddTask(ctx context.Context, showID models.ULID, taskName string) error {
	task := &models.ShowTask{ShowID: showID, TaskName: taskName}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil // already associated
		}
		return fmt.Errorf("adding task association: %w", err)
	}
	return nil
}

// RemoveTask removes a task association.
func (r *showRepo) RemoveTask(ctx context.Context, showID models.ULID, taskName string) error {
	err := r.db.WithContext(ctx).
		Where("show_id = ? AND task_name = ?", showID, taskName).
		Delete(&models.ShowTask{}).Error
	if err != nil {
		return fmt.Errorf("removing task association: %w", err)
	}
	return nil
}

// GetOrphans returns shows with no episodes, no seasons and no task
// associations.
func (r *showRepo) GetOrphans(ctx context.Context) ([]*models.Show, error) {
	var shows []*models.Show
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM series_episodes WHERE series_episodes.show_id = series.id)").
		Where("NOT EXISTS (SELECT 1 FROM series_seasons WHERE series_seasons.show_id = series.id)").
		Where("NOT EXISTS (SELECT 1 FROM series_tasks WHERE series_tasks.show_id = series.id)").
		Find(&shows).Error
	if err != nil {
		return nil, fmt.Errorf("getting orphan shows: %w", err)
	}
	return shows, nil
}
