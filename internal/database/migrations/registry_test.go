package migrations

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMigrationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestMigrator_Up(t *testing.T) {
	db := setupMigrationTestDB(t)
	ctx := context.Background()

	m := NewMigrator(db, nil)
	m.RegisterAll(AllMigrations())
	require.NoError(t, m.Up(ctx))

	for _, table := range []string{
		"series", "series_seasons", "series_episodes",
		"episode_releases", "season_releases",
		"series_alternate_names", "series_tasks", "quality_history",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestMigrator_UpIsIdempotent(t *testing.T) {
	db := setupMigrationTestDB(t)
	ctx := context.Background()

	m := NewMigrator(db, nil)
	m.RegisterAll(AllMigrations())
	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Up(ctx))

	var count int64
	require.NoError(t, db.Model(&MigrationRecord{}).Count(&count).Error)
	assert.Equal(t, int64(len(AllMigrations())), count)
}

func TestMigrator_Status(t *testing.T) {
	db := setupMigrationTestDB(t)
	ctx := context.Background()

	m := NewMigrator(db, nil)
	m.RegisterAll(AllMigrations())
	require.NoError(t, m.Up(ctx))

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, len(AllMigrations()))
	for _, s := range statuses {
		assert.True(t, s.Applied, s.Version)
		assert.NotNil(t, s.AppliedAt, s.Version)
	}
}

func TestMigration002_RecomputesNormalizedNames(t *testing.T) {
	db := setupMigrationTestDB(t)
	ctx := context.Background()

	m := NewMigrator(db, nil)
	m.RegisterAll([]Migration{migration001Schema()})
	require.NoError(t, m.Up(ctx))

	// Simulate a legacy row normalized with plain lowercasing.
	show := &models.Show{Name: "The.Office.(US)", NameNormalized: "the.office.(us)"}
	require.NoError(t, db.Create(show).Error)

	m2 := NewMigrator(db, nil)
	m2.RegisterAll([]Migration{migration002RenormalizeNames()})
	require.NoError(t, m2.Up(ctx))

	var updated models.Show
	require.NoError(t, db.First(&updated, "id = ?", show.ID).Error)
	assert.Equal(t, "the office us", updated.NameNormalized)
}
