package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpisodeRepo_GetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEpisodeRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Severance")

	first, created, err := repo.GetOrCreate(ctx, &models.Episode{
		ShowID:       show.ID,
		Identifier:   "S01E02",
		IdentifiedBy: models.SchemeEp,
		Season:       1,
		Number:       2,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, first.ID.IsZero())

	second, created, err := repo.GetOrCreate(ctx, &models.Episode{
		ShowID:       show.ID,
		Identifier:   "S01E02",
		IdentifiedBy: models.SchemeEp,
		Season:       1,
		Number:       2,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	t.Run("same identifier on another show is independent", func(t *testing.T) {
		other := createTestShow(t, db, "Another Show")
		ep, created, err := repo.GetOrCreate(ctx, &models.Episode{
			ShowID:       other.ID,
			Identifier:   "S01E02",
			IdentifiedBy: models.SchemeEp,
			Season:       1,
			Number:       2,
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, first.ID, ep.ID)
	})
}

func TestEpisodeRepo_GetByIdentifier(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEpisodeRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Severance")
	ep := createTestEpisode(t, db, show.ID, 2, 5)

	found, err := repo.GetByIdentifier(ctx, show.ID, "S02E05")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ep.ID, found.ID)

	missing, err := repo.GetByIdentifier(ctx, show.ID, "S09E09")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEpisodeRepo_ListByShow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEpisodeRepository(db)
	ctx := context.Background()

	t.Run("ep scheme orders by season then number", func(t *testing.T) {
		show := createTestShow(t, db, "Ordered Show")
		// Insert out of order on purpose.
		createTestEpisode(t, db, show.ID, 2, 1)
		createTestEpisode(t, db, show.ID, 1, 2)
		createTestEpisode(t, db, show.ID, 1, 1)

		episodes, err := repo.ListByShow(ctx, show.ID, models.SchemeEp, 0, 0)
		require.NoError(t, err)
		require.Len(t, episodes, 3)
		assert.Equal(t, "S01E01", episodes[0].Identifier)
		assert.Equal(t, "S01E02", episodes[1].Identifier)
		assert.Equal(t, "S02E01", episodes[2].Identifier)
	})

	t.Run("date scheme orders by identifier", func(t *testing.T) {
		show := createTestShow(t, db, "Daily Show Test")
		for _, day := range []string{"2026-02-01", "2026-01-15", "2026-01-20"} {
			require.NoError(t, db.Create(&models.Episode{
				ShowID:       show.ID,
				Identifier:   day,
				IdentifiedBy: models.SchemeDate,
			}).Error)
		}

		episodes, err := repo.ListByShow(ctx, show.ID, models.SchemeDate, 0, 0)
		require.NoError(t, err)
		require.Len(t, episodes, 3)
		assert.Equal(t, "2026-01-15", episodes[0].Identifier)
		assert.Equal(t, "2026-02-01", episodes[2].Identifier)
	})

	t.Run("slicing", func(t *testing.T) {
		show := createTestShow(t, db, "Sliced Show")
		for n := 1; n <= 5; n++ {
			createTestEpisode(t, db, show.ID, 1, n)
		}

		episodes, err := repo.ListByShow(ctx, show.ID, models.SchemeEp, 1, 3)
		require.NoError(t, err)
		require.Len(t, episodes, 2)
		assert.Equal(t, "S01E02", episodes[0].Identifier)
		assert.Equal(t, "S01E03", episodes[1].Identifier)
	})

	t.Run("releases are preloaded", func(t *testing.T) {
		show := createTestShow(t, db, "Preload Show")
		ep := createTestEpisode(t, db, show.ID, 1, 1)
		require.NoError(t, db.Create(&models.EpisodeRelease{
			EpisodeID: ep.ID,
			Title:     "Preload.Show.S01E01.1080p",
			Quality:   "1080p",
		}).Error)

		episodes, err := repo.ListByShow(ctx, show.ID, models.SchemeEp, 0, 0)
		require.NoError(t, err)
		require.Len(t, episodes, 1)
		require.Len(t, episodes[0].Releases, 1)
	})
}

func TestEpisodeRepo_CountAfter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEpisodeRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Counted Show")
	createTestEpisode(t, db, show.ID, 1, 1)
	createTestEpisode(t, db, show.ID, 1, 2)
	createTestEpisode(t, db, show.ID, 2, 1)
	require.NoError(t, db.Create(&models.Episode{
		ShowID:       show.ID,
		Identifier:   "Christmas Special",
		IdentifiedBy: models.SchemeSpecial,
	}).Error)

	count, err := repo.CountAfter(ctx, show.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountAfter(ctx, show.ID, 2, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEpisodeRepo_CountSeenAfter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEpisodeRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Seen Show")
	cutoff := time.Now().Add(-time.Hour)

	old := createTestEpisode(t, db, show.ID, 1, 1)
	require.NoError(t, db.Create(&models.EpisodeRelease{
		EpisodeID: old.ID,
		Title:     "old",
		Quality:   "720p",
		FirstSeen: cutoff.Add(-time.Hour),
	}).Error)

	fresh := createTestEpisode(t, db, show.ID, 1, 2)
	require.NoError(t, db.Create(&models.EpisodeRelease{
		EpisodeID: fresh.ID,
		Title:     "fresh",
		Quality:   "720p",
		FirstSeen: cutoff.Add(time.Minute),
	}).Error)

	count, err := repo.CountSeenAfter(ctx, show.ID, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEpisodeRepo_SchemeHistogram(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEpisodeRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Mixed Show")
	createTestEpisode(t, db, show.ID, 1, 1)
	createTestEpisode(t, db, show.ID, 1, 2)
	require.NoError(t, db.Create(&models.Episode{
		ShowID:       show.ID,
		Identifier:   "42",
		IdentifiedBy: models.SchemeSequence,
		Number:       42,
	}).Error)
	require.NoError(t, db.Create(&models.Episode{
		ShowID:       show.ID,
		Identifier:   "Pilot Special",
		IdentifiedBy: models.SchemeSpecial,
	}).Error)

	histogram, err := repo.SchemeHistogram(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, map[models.IdentifierScheme]int64{
		models.SchemeEp:       2,
		models.SchemeSequence: 1,
	}, histogram)
}

func TestEpisodeRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEpisodeRepository(db)
	ctx := context.Background()

	show := createTestShow(t, db, "Doomed Show")
	ep := createTestEpisode(t, db, show.ID, 1, 1)
	require.NoError(t, db.Create(&models.EpisodeRelease{
		EpisodeID: ep.ID,
		Title:     "doomed",
		Quality:   "720p",
	}).Error)

	require.NoError(t, repo.Delete(ctx, ep.ID))

	var episodes, releases int64
	require.NoError(t, db.Model(&models.Episode{}).Count(&episodes).Error)
	require.NoError(t, db.Model(&models.EpisodeRelease{}).Count(&releases).Error)
	assert.Zero(t, episodes)
	assert.Zero(t, releases)
}
