package series

import (
	"context"
	"testing"

	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreParser_CreatesShowEpisodeRelease(t *testing.T) {
	svc, db, _ := newTestService(t)

	result := ingestEpisode(t, svc, "Example Show", 1, 2, "720p", "Example.Show.S01E02.720p")

	require.NotNil(t, result.Show)
	assert.Equal(t, "Example Show", result.Show.Name)
	assert.Equal(t, models.SchemeAuto, result.Show.IdentifiedBy)
	require.Len(t, result.Episodes, 1)
	assert.Equal(t, "S01E02", result.Episodes[0].Identifier)
	assert.Equal(t, 1, result.Episodes[0].Season)
	assert.Equal(t, 2, result.Episodes[0].Number)
	require.Len(t, result.EpisodeReleases, 1)
	assert.False(t, result.EpisodeReleases[0].ID.IsZero())
	assert.False(t, result.EpisodeReleases[0].Downloaded)

	var shows int64
	require.NoError(t, db.Model(&models.Show{}).Count(&shows).Error)
	assert.Equal(t, int64(1), shows)
}

func TestStoreParser_Idempotent(t *testing.T) {
	svc, db, _ := newTestService(t)

	first := ingestEpisode(t, svc, "Example Show", 1, 2, "720p", "Show.S01E02.720p")
	second := ingestEpisode(t, svc, "Example Show", 1, 2, "720p", "Show.S01E02.720p")

	assert.Equal(t, first.Show.ID, second.Show.ID)
	assert.Equal(t, first.Episodes[0].ID, second.Episodes[0].ID)
	assert.Equal(t, first.EpisodeReleases[0].ID, second.EpisodeReleases[0].ID)

	var releases int64
	require.NoError(t, db.Model(&models.EpisodeRelease{}).Count(&releases).Error)
	assert.Equal(t, int64(1), releases)
}

func TestStoreParser_ProperIsANewRelease(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	ingestEpisode(t, svc, "Example Show", 1, 2, "720p", "Show.S01E02.720p")

	result, err := svc.StoreParser(ctx, ParsedRelease{
		Name:        "Example Show",
		Identifiers: []string{"S01E02"},
		Season:      1,
		Episode:     2,
		IDType:      models.SchemeEp,
		ProperCount: 1,
		Title:       "Show.S01E02.PROPER.720p",
		Quality:     "720p",
	}, StoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.EpisodeReleases[0].ProperCount)

	var releases int64
	require.NoError(t, db.Model(&models.EpisodeRelease{}).Count(&releases).Error)
	assert.Equal(t, int64(2), releases)
}

func TestStoreParser_ResolvesByNormalizedName(t *testing.T) {
	svc, _, _ := newTestService(t)

	first := ingestEpisode(t, svc, "The Example Show", 1, 1, "720p", "a")
	second := ingestEpisode(t, svc, "the.example.SHOW", 1, 2, "720p", "b")

	assert.Equal(t, first.Show.ID, second.Show.ID)
}

func TestStoreParser_SeasonPack(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.StoreParser(ctx, ParsedRelease{
		Name:        "Example Show",
		SeasonPack:  true,
		Identifiers: []string{"S01"},
		Season:      1,
		IDType:      models.SchemeEp,
		Title:       "Example.Show.S01.1080p.Pack",
		Quality:     "1080p",
	}, StoreOptions{})
	require.NoError(t, err)

	require.Len(t, result.Seasons, 1)
	assert.Equal(t, "S01", result.Seasons[0].Identifier)
	assert.True(t, result.Seasons[0].IsSeasonPack())
	require.Len(t, result.SeasonReleases, 1)
	assert.Empty(t, result.Episodes)
}

func TestStoreParser_MultiSeasonPack(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.StoreParser(ctx, ParsedRelease{
		Name:        "Example Show",
		SeasonPack:  true,
		Identifiers: []string{"S01", "S02"},
		IDType:      models.SchemeEp,
		Title:       "Example.Show.S01-S02.Complete",
		Quality:     "1080p",
	}, StoreOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Seasons, 2)
	assert.Len(t, result.SeasonReleases, 2)
}

func TestStoreParser_PreResolvedShow(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	existing := ingestEpisode(t, svc, "Example Show", 1, 1, "720p", "a").Show

	result, err := svc.StoreParser(ctx, ParsedRelease{
		Name:        "Totally Different Name",
		Identifiers: []string{"S01E02"},
		Season:      1,
		Episode:     2,
		IDType:      models.SchemeEp,
		Title:       "b",
		Quality:     "720p",
	}, StoreOptions{Show: existing})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.Show.ID)
}

func TestStoreParser_SchemeConflictOnLockedShow(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	show := ingestEpisode(t, svc, "Example Show", 1, 1, "720p", "a").Show
	show.IdentifiedBy = models.SchemeEp
	require.NoError(t, db.Save(show).Error)

	_, err := svc.StoreParser(ctx, ParsedRelease{
		Name:        "Example Show",
		Identifiers: []string{"2026-01-15"},
		IDType:      models.SchemeDate,
		Title:       "Example.Show.2026.01.15",
		Quality:     "720p",
	}, StoreOptions{})
	require.Error(t, err)
	assert.True(t, models.IsConflict(err))

	t.Run("specials are always admitted", func(t *testing.T) {
		_, err := svc.StoreParser(ctx, ParsedRelease{
			Name:        "Example Show",
			Identifiers: []string{"Christmas Special"},
			IDType:      models.SchemeSpecial,
			Title:       "Example.Show.Christmas.Special",
			Quality:     "720p",
		}, StoreOptions{})
		require.NoError(t, err)
	})
}

func TestStoreParser_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		parsed ParsedRelease
	}{
		{"missing name", ParsedRelease{Identifiers: []string{"S01E01"}, IDType: models.SchemeEp, Title: "t"}},
		{"missing identifiers", ParsedRelease{Name: "x", IDType: models.SchemeEp, Title: "t"}},
		{"missing title", ParsedRelease{Name: "x", Identifiers: []string{"S01E01"}, IDType: models.SchemeEp}},
		{"bad scheme", ParsedRelease{Name: "x", Identifiers: []string{"S01E01"}, IDType: "weird", Title: "t"}},
		{"auto is not a concrete scheme", ParsedRelease{Name: "x", Identifiers: []string{"S01E01"}, IDType: models.SchemeAuto, Title: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.StoreParser(ctx, tt.parsed, StoreOptions{})
			require.Error(t, err)
		})
	}
}

func TestAddEntity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	show := ingestEpisode(t, svc, "Example Show", 1, 1, "720p", "a").Show

	t.Run("creates an episode from an identifier", func(t *testing.T) {
		entity, err := svc.AddEntity(ctx, show.ID, "s02e03")
		require.NoError(t, err)
		assert.Equal(t, "S02E03", entity.EntityIdentifier())
		assert.False(t, entity.IsSeasonPack())
	})

	t.Run("creates a season from a pack identifier", func(t *testing.T) {
		entity, err := svc.AddEntity(ctx, show.ID, "S04")
		require.NoError(t, err)
		assert.Equal(t, "S04", entity.EntityIdentifier())
		assert.True(t, entity.IsSeasonPack())
	})

	t.Run("existing entity is returned, not duplicated", func(t *testing.T) {
		first, err := svc.AddEntity(ctx, show.ID, "S02E03")
		require.NoError(t, err)
		second, err := svc.AddEntity(ctx, show.ID, "S02E03")
		require.NoError(t, err)
		assert.Equal(t, first.EntityID(), second.EntityID())
	})

	t.Run("unknown show", func(t *testing.T) {
		_, err := svc.AddEntity(ctx, models.NewULID(), "S01E01")
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("garbage identifier", func(t *testing.T) {
		_, err := svc.AddEntity(ctx, show.ID, "not an identifier")
		require.Error(t, err)
	})
}
