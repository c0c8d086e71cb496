package series

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jmylchreest/episodarr/internal/events"
	"github.com/jmylchreest/episodarr/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *events.Bus) {
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

	bus := events.NewBus(testLogger())
	return NewService(db, bus).WithLogger(testLogger()), db, bus
}

// ingestEpisode stores a single-episode release and returns the result.
func ingestEpisode(t *testing.T, svc *Service, show string, season, number int, quality, title string) *StoreResult {
	t.Helper()

	result, err := svc.StoreParser(context.Background(), ParsedRelease{
		Name:        show,
		Identifiers: []string{models.EpIdentifier(season, number)},
		Season:      season,
		Episode:     number,
		IDType:      models.SchemeEp,
		Title:       title,
		Quality:     quality,
	}, StoreOptions{})
	require.NoError(t, err)
	return result
}
