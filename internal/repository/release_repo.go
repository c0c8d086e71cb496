package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmylchreest/episodarr/internal/models"
	"gorm.io/gorm"
)

// releaseRepo implements ReleaseRepository using GORM.
type releaseRepo struct {
	db *gorm.DB
}

// NewReleaseRepository creates a new ReleaseRepository.
func NewReleaseRepository(db *gorm.DB) *releaseRepo {
	return &releaseRepo{db: db}
}

// GetOrCreateEpisodeRelease resolves a release by the unique
// (episode, title, quality, proper_count) key. Re-ingesting an identical
// observed release returns the stored row untouched; in particular
// first_seen and downloaded keep their original values.
func (r *releaseRepo) GetOrCreateEpisodeRelease(ctx context.Context, release *models.EpisodeRelease) (*models.EpisodeRelease, bool, error) {
	lookup := func() (*models.EpisodeRelease, error) {
		var existing models.EpisodeRelease
		err := r.db.WithContext(ctx).
			Where("episode_id = ? AND title = ? AND quality = ? AND proper_count = ?",
				release.EpisodeID, release.Title, release.Quality, release.ProperCount).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("getting episode release: %w", err)
		}
		return &existing, nil
	}

	existing, err := lookup()
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if err := r.db.WithContext(ctx).Create(release).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := lookup()
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("creating episode release: %w", err)
	}
	return release, true, nil
}

// GetOrCreateSeasonRelease is the season-pack analogue of
// GetOrCreateEpisodeRelease.
func (r *releaseRepo) GetOrCreateSeasonRelease(ctx context.Context, release *models.SeasonRelease) (*models.SeasonRelease, bool, error) {
	lookup := func() (*models.SeasonRelease, error) {
		var existing models.SeasonRelease
		err := r.db.WithContext(ctx).
			Where("season_id = ? AND title = ? AND quality = ? AND proper_count = ?",
				release.SeasonID, release.Title, release.Quality, release.ProperCount).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("getting season release: %w", err)
		}
		return &existing, nil
	}

	existing, err := lookup()
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if err := r.db.WithContext(ctx).Create(release).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := lookup()
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("creating season release: %w", err)
	}
	return release, true, nil
}

// GetEpisodeReleaseByID retrieves an episode release by ID.
func (r *releaseRepo) GetEpisodeReleaseByID(ctx context.Context, id models.ULID) (*models.EpisodeRelease, error) {
	var release models.EpisodeRelease
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&release).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting episode release by ID: %w", err)
	}
	return &release, nil
}

// GetSeasonReleaseByID retrieves a season release by ID.
func (r *releaseRepo) GetSeasonReleaseByID(ctx context.Context, id models.ULID) (*models.SeasonRelease, error) {
	var release models.SeasonRelease
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&release).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting season release by ID: %w", err)
	}
	return &release, nil
}

// MarkEpisodeReleaseDownloaded flags a release as downloaded.
func (r *releaseRepo) MarkEpisodeReleaseDownloaded(ctx context.Context, id models.ULID) error {
	result := r.db.WithContext(ctx).Model(&models.EpisodeRelease{}).
		Where("id = ?", id).Update("downloaded", true)
	if result.Error != nil {
		return fmt.Errorf("marking episode release downloaded: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &models.NotFoundError{Kind: "episode release", Key: id.String()}
	}
	return nil
}

// MarkSeasonReleaseDownloaded flags a release as downloaded.
func (r *releaseRepo) MarkSeasonReleaseDownloaded(ctx context.Context, id models.ULID) error {
	result := r.db.WithContext(ctx).Model(&models.SeasonRelease{}).
		Where("id = ?", id).Update("downloaded", true)
	if result.Error != nil {
		return fmt.Errorf("marking season release downloaded: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &models.NotFoundError{Kind: "season release", Key: id.String()}
	}
	return nil
}

// DownloadedTitlesForShow collects downloaded release titles across a
// show's episodes and seasons.
func (r *releaseRepo) DownloadedTitlesForShow(ctx context.Context, showID models.ULID) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).Model(&models.EpisodeRelease{}).
		Joins("JOIN series_episodes ON series_episodes.id = episode_releases.episode_id").
		Where("series_episodes.show_id = ? AND episode_releases.downloaded", showID).
		Pluck("episode_releases.title", &titles).Error
	if err != nil {
		return nil, fmt.Errorf("collecting downloaded episode titles: %w", err)
	}

	var seasonTitles []string
	err = r.db.WithContext(ctx).Model(&models.SeasonRelease{}).
		Joins("JOIN series_seasons ON series_seasons.id = season_releases.season_id").
		Where("series_seasons.show_id = ? AND season_releases.downloaded", showID).
		Pluck("season_releases.title", &seasonTitles).Error
	if err != nil {
		return nil, fmt.Errorf("collecting downloaded season titles: %w", err)
	}

	return append(titles, seasonTitles...), nil
}
