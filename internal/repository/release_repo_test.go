package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseRepo_GetOrCreateEpisodeRelease(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReleaseRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "For All Mankind")
	ep := createTestEpisode(t, db, show.ID, 1, 1)

	first, created, err := repo.GetOrCreateEpisodeRelease(ctx, &models.EpisodeRelease{
		EpisodeID: ep.ID,
		Title:     "For.All.Mankind.S01E01.1080p.WEB-DL",
		Quality:   "1080p webdl",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.FirstSeen.IsZero())

	t.Run("re-ingest preserves the stored row", func(t *testing.T) {
		again, created, err := repo.GetOrCreateEpisodeRelease(ctx, &models.EpisodeRelease{
			EpisodeID: ep.ID,
			Title:     "For.All.Mankind.S01E01.1080p.WEB-DL",
			Quality:   "1080p webdl",
			FirstSeen: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
		assert.True(t, again.FirstSeen.Equal(first.FirstSeen))
	})

	t.Run("proper count is part of the identity", func(t *testing.T) {
		proper, created, err := repo.GetOrCreateEpisodeRelease(ctx, &models.EpisodeRelease{
			EpisodeID:   ep.ID,
			Title:       "For.All.Mankind.S01E01.1080p.WEB-DL",
			Quality:     "1080p webdl",
			ProperCount: 1,
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, first.ID, proper.ID)
	})

	t.Run("quality is part of the identity", func(t *testing.T) {
		_, created, err := repo.GetOrCreateEpisodeRelease(ctx, &models.EpisodeRelease{
			EpisodeID: ep.ID,
			Title:     "For.All.Mankind.S01E01.1080p.WEB-DL",
			Quality:   "720p hdtv",
		})
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestReleaseRepo_GetOrCreateSeasonRelease(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReleaseRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Packed Show")
	season := &models.Season{
		ShowID:       show.ID,
		Identifier:   "S02",
		IdentifiedBy: models.SchemeEp,
		Season:       2,
	}
	require.NoError(t, db.Create(season).Error)

	first, created, err := repo.GetOrCreateSeasonRelease(ctx, &models.SeasonRelease{
		SeasonID: season.ID,
		Title:    "Packed.Show.S02.1080p.BluRay",
		Quality:  "1080p bluray",
	})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.GetOrCreateSeasonRelease(ctx, &models.SeasonRelease{
		SeasonID: season.ID,
		Title:    "Packed.Show.S02.1080p.BluRay",
		Quality:  "1080p bluray",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
}

func TestReleaseRepo_MarkDownloaded(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReleaseRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Downloaded Show")
	ep := createTestEpisode(t, db, show.ID, 1, 1)
	release, _, err := repo.GetOrCreateEpisodeRelease(ctx, &models.EpisodeRelease{
		EpisodeID: ep.ID,
		Title:     "Downloaded.Show.S01E01.720p",
		Quality:   "720p",
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkEpisodeReleaseDownloaded(ctx, release.ID))

	stored, err := repo.GetEpisodeReleaseByID(ctx, release.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Downloaded)

	t.Run("unknown id is not found", func(t *testing.T) {
		err := repo.MarkEpisodeReleaseDownloaded(ctx, models.NewULID())
		assert.True(t, models.IsNotFound(err))
	})
}

func TestReleaseRepo_DownloadedTitlesForShow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReleaseRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Forgettable Show")
	ep := createTestEpisode(t, db, show.ID, 1, 1)
	require.NoError(t, db.Create(&models.EpisodeRelease{
		EpisodeID:  ep.ID,
		Title:      "Forgettable.Show.S01E01.720p",
		Quality:    "720p",
		Downloaded: true,
	}).Error)
	require.NoError(t, db.Create(&models.EpisodeRelease{
		EpisodeID: ep.ID,
		Title:     "Forgettable.Show.S01E01.1080p",
		Quality:   "1080p",
	}).Error)

	season := &models.Season{
		ShowID:       show.ID,
		Identifier:   "S01",
		IdentifiedBy: models.SchemeEp,
		Season:       1,
	}
	require.NoError(t, db.Create(season).Error)
	require.NoError(t, db.Create(&models.SeasonRelease{
		SeasonID:   season.ID,
		Title:      "Forgettable.Show.S01.1080p.Pack",
		Quality:    "1080p",
		Downloaded: true,
	}).Error)

	titles, err := repo.DownloadedTitlesForShow(ctx, show.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Forgettable.Show.S01E01.720p",
		"Forgettable.Show.S01.1080p.Pack",
	}, titles)
}
