package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full catalog schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Show{},
		&models.Season{},
		&models.Episode{},
		&models.EpisodeRelease{},
		&models.SeasonRelease{},
		&models.AlternateName{},
		&models.ShowTask{},
		&models.QualityHistory{},
	)
	require.NoError(t, err)

	return db
}

// createTestShow persists a show with defaults suitable for tests.
func createTestShow(t *testing.T, db *gorm.DB, name string) *models.Show {
	t.Helper()

	show := &models.Show{Name: name}
	require.NoError(t, db.Create(show).Error)
	return show
}

// createTestEpisode persists an ep-scheme episode for a show.
func createTestEpisode(t *testing.T, db *gorm.DB, showID models.ULID, season, number int) *models.Episode {
	t.Helper()

	episode := &models.Episode{
		ShowID:       showID,
		Identifier:   models.EpIdentifier(season, number),
		IdentifiedBy: models.SchemeEp,
		Season:       season,
		Number:       number,
	}
	require.NoError(t, db.Create(episode).Error)
	return episode
}
