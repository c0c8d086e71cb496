package maintenance

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jmylchreest/episodarr/internal/config"
	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/jmylchreest/episodarr/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Show{},
		&models.Season{},
		&models.Episode{},
		&models.EpisodeRelease{},
		&models.SeasonRelease{},
		&models.AlternateName{},
		&models.ShowTask{},
	))
	return db
}

func TestCollectOrphans(t *testing.T) {
	db := setupDB(t)
	shows := repository.NewShowRepository(db)
	svc := NewService(shows, config.MaintenanceConfig{Enabled: true})
	ctx := context.Background()

	orphan := &models.Show{Name: "Empty Show"}
	require.NoError(t, db.Create(orphan).Error)

	tracked := &models.Show{Name: "Tracked Show"}
	require.NoError(t, db.Create(tracked).Error)
	require.NoError(t, db.Create(&models.Episode{
		ShowID:       tracked.ID,
		Identifier:   "S01E01",
		IdentifiedBy: models.SchemeEp,
		Season:       1,
		Number:       1,
	}).Error)

	configured := &models.Show{Name: "Configured Show"}
	require.NoError(t, db.Create(configured).Error)
	require.NoError(t, shows.AddTask(ctx, configured.ID, "tv-task"))

	require.NoError(t, svc.CollectOrphans(ctx))

	var names []string
	require.NoError(t, db.Model(&models.Show{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Configured Show", "Tracked Show"}, names)
}

func TestStart_Disabled(t *testing.T) {
	db := setupDB(t)
	svc := NewService(repository.NewShowRepository(db), config.MaintenanceConfig{Enabled: false})
	require.NoError(t, svc.Start())
}

func TestStart_BadCron(t *testing.T) {
	db := setupDB(t)
	svc := NewService(repository.NewShowRepository(db), config.MaintenanceConfig{
		Enabled: true,
		Cron:    "not a schedule",
	})
	assert.Error(t, svc.Start())
}
