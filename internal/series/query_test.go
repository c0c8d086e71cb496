package series

import (
	"context"
	"testing"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/jmylchreest/episodarr/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markDownloaded(t *testing.T, svc *Service, release *models.EpisodeRelease) {
	t.Helper()
	require.NoError(t, svc.repos.Releases.MarkEpisodeReleaseDownloaded(context.Background(), release.ID))
}

func TestGetLatestRelease(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("returns the comparator-latest downloaded episode", func(t *testing.T) {
		show := ingestEpisode(t, svc, "Latest Show", 1, 1, "720p", "a").Show
		markDownloaded(t, svc, ingestEpisode(t, svc, "Latest Show", 1, 1, "720p", "a").EpisodeReleases[0])
		markDownloaded(t, svc, ingestEpisode(t, svc, "Latest Show", 2, 3, "720p", "b").EpisodeReleases[0])
		markDownloaded(t, svc, ingestEpisode(t, svc, "Latest Show", 2, 1, "720p", "c").EpisodeReleases[0])

		latest, err := svc.GetLatestRelease(ctx, show.ID, true, nil)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "S02E03", latest.Entity().EntityIdentifier())
		assert.Equal(t, "b", latest.Title())
	})

	t.Run("downloaded filter excludes pending releases", func(t *testing.T) {
		show := ingestEpisode(t, svc, "Pending Show", 1, 1, "720p", "a").Show
		markDownloaded(t, svc, ingestEpisode(t, svc, "Pending Show", 1, 1, "720p", "a").EpisodeReleases[0])
		ingestEpisode(t, svc, "Pending Show", 1, 2, "720p", "b")

		latest, err := svc.GetLatestRelease(ctx, show.ID, true, nil)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "S01E01", latest.Entity().EntityIdentifier())

		all, err := svc.GetLatestRelease(ctx, show.ID, false, nil)
		require.NoError(t, err)
		assert.Equal(t, "S01E02", all.Entity().EntityIdentifier())
	})

	t.Run("season filter", func(t *testing.T) {
		show := ingestEpisode(t, svc, "Filtered Show", 1, 1, "720p", "a").Show
		markDownloaded(t, svc, ingestEpisode(t, svc, "Filtered Show", 1, 1, "720p", "a").EpisodeReleases[0])
		markDownloaded(t, svc, ingestEpisode(t, svc, "Filtered Show", 2, 1, "720p", "b").EpisodeReleases[0])

		one := 1
		latest, err := svc.GetLatestRelease(ctx, show.ID, true, &one)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "S01E01", latest.Entity().EntityIdentifier())
	})

	t.Run("prefers higher quality then proper count on one episode", func(t *testing.T) {
		show := ingestEpisode(t, svc, "Quality Show", 1, 1, "480p", "Quality.Show.S01E01.480p").Show
		markDownloaded(t, svc, ingestEpisode(t, svc, "Quality Show", 1, 1, "480p", "Quality.Show.S01E01.480p").EpisodeReleases[0])
		markDownloaded(t, svc, ingestEpisode(t, svc, "Quality Show", 1, 1, "720p", "Quality.Show.S01E01.720p").EpisodeReleases[0])

		latest, err := svc.GetLatestRelease(ctx, show.ID, true, nil)
		require.NoError(t, err)
		assert.Equal(t, "Quality.Show.S01E01.720p", latest.Title())

		proper, err := svc.StoreParser(ctx, ParsedRelease{
			Name:        "Quality Show",
			Identifiers: []string{"S01E01"},
			Season:      1,
			Episode:     1,
			IDType:      models.SchemeEp,
			ProperCount: 1,
			Title:       "Quality.Show.S01E01.PROPER.720p",
			Quality:     "720p",
		}, StoreOptions{})
		require.NoError(t, err)
		markDownloaded(t, svc, proper.EpisodeReleases[0])

		latest, err = svc.GetLatestRelease(ctx, show.ID, true, nil)
		require.NoError(t, err)
		assert.Equal(t, "Quality.Show.S01E01.PROPER.720p", latest.Title())
	})

	t.Run("season pack wins only on strictly greater key", func(t *testing.T) {
		show := ingestEpisode(t, svc, "Pack Show", 2, 4, "720p", "ep").Show
		markDownloaded(t, svc, ingestEpisode(t, svc, "Pack Show", 2, 4, "720p", "ep").EpisodeReleases[0])

		samePack, err := svc.StoreParser(ctx, ParsedRelease{
			Name:        "Pack Show",
			SeasonPack:  true,
			Identifiers: []string{"S02"},
			Season:      2,
			IDType:      models.SchemeEp,
			Title:       "Pack.Show.S02.720p",
			Quality:     "720p",
		}, StoreOptions{})
		require.NoError(t, err)
		require.NoError(t, svc.repos.Releases.MarkSeasonReleaseDownloaded(ctx, samePack.SeasonReleases[0].ID))

		// Same season ties: the episode stands.
		latest, err := svc.GetLatestRelease(ctx, show.ID, true, nil)
		require.NoError(t, err)
		assert.Equal(t, "ep", latest.Title())

		laterPack, err := svc.StoreParser(ctx, ParsedRelease{
			Name:        "Pack Show",
			SeasonPack:  true,
			Identifiers: []string{"S03"},
			Season:      3,
			IDType:      models.SchemeEp,
			Title:       "Pack.Show.S03.720p",
			Quality:     "720p",
		}, StoreOptions{})
		require.NoError(t, err)
		require.NoError(t, svc.repos.Releases.MarkSeasonReleaseDownloaded(ctx, laterPack.SeasonReleases[0].ID))

		latest, err = svc.GetLatestRelease(ctx, show.ID, true, nil)
		require.NoError(t, err)
		assert.Equal(t, "Pack.Show.S03.720p", latest.Title())
		assert.NotNil(t, latest.Season)
	})

	t.Run("no matching releases yields nil", func(t *testing.T) {
		show := ingestEpisode(t, svc, "Empty Show", 1, 1, "720p", "a").Show
		latest, err := svc.GetLatestRelease(ctx, show.ID, true, nil)
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("unknown show", func(t *testing.T) {
		_, err := svc.GetLatestRelease(ctx, models.NewULID(), true, nil)
		assert.True(t, models.IsNotFound(err))
	})
}

func TestNewEntitiesAfter(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	t.Run("counts strictly greater episodes", func(t *testing.T) {
		ingestEpisode(t, svc, "After Show", 1, 1, "720p", "a")
		ingestEpisode(t, svc, "After Show", 1, 2, "720p", "b")
		mid := ingestEpisode(t, svc, "After Show", 2, 1, "720p", "c")
		ingestEpisode(t, svc, "After Show", 2, 2, "720p", "d")

		count, err := svc.NewEntitiesAfter(ctx, mid.Episodes[0].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("same episode is not after itself", func(t *testing.T) {
		last := ingestEpisode(t, svc, "Single Show", 1, 1, "480p", "Single.Show.S01E01.480p")
		count, err := svc.NewEntitiesAfter(ctx, last.Episodes[0].ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("date scheme reports zero", func(t *testing.T) {
		show := ingestEpisode(t, svc, "Daily After Show", 1, 1, "720p", "x").Show
		episode := &models.Episode{
			ShowID:       show.ID,
			Identifier:   "2026-01-15",
			IdentifiedBy: models.SchemeDate,
		}
		require.NoError(t, db.Create(episode).Error)

		count, err := svc.NewEntitiesAfter(ctx, episode.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("unknown episode", func(t *testing.T) {
		_, err := svc.NewEntitiesAfter(ctx, models.NewULID())
		assert.True(t, models.IsNotFound(err))
	})
}

func TestShowEpisodesAndSeasons(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	show := ingestEpisode(t, svc, "Listing Show", 2, 1, "720p", "a").Show
	ingestEpisode(t, svc, "Listing Show", 1, 2, "720p", "b")
	ingestEpisode(t, svc, "Listing Show", 1, 1, "720p", "c")
	for _, season := range []string{"S02", "S01"} {
		_, err := svc.StoreParser(ctx, ParsedRelease{
			Name:        "Listing Show",
			SeasonPack:  true,
			Identifiers: []string{season},
			IDType:      models.SchemeEp,
			Title:       "Listing.Show." + season,
			Quality:     "720p",
		}, StoreOptions{})
		require.NoError(t, err)
	}

	episodes, err := svc.ShowEpisodes(ctx, show.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, episodes, 3)
	assert.Equal(t, "S01E01", episodes[0].Identifier)
	assert.Equal(t, "S02E01", episodes[2].Identifier)

	sliced, err := svc.ShowEpisodes(ctx, show.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, sliced, 1)
	assert.Equal(t, "S01E02", sliced[0].Identifier)

	seasons, err := svc.ShowSeasons(ctx, show.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, "S01", seasons[0].Identifier)
}

func TestGetSeriesSummary(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	showA := ingestEpisode(t, svc, "Alpha Show", 1, 1, "720p", "a").Show
	ingestEpisode(t, svc, "Beta Show", 1, 1, "720p", "b")
	require.NoError(t, svc.AssociateTask(ctx, showA.ID, "tv-task"))

	rows, err := svc.GetSeriesSummary(ctx, repository.SummaryOptions{
		Configured: repository.ConfiguredOnly,
		SortByName: true,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alpha Show", rows[0].Show.Name)
}
