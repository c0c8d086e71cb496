// Package migrations provides database migration management for episodarr.
package migrations

import (
	"time"

	"github.com/jmylchreest/episodarr/internal/models"
	"gorm.io/gorm"
)

// AllMigrations returns all registered migrations in order.
// Migrations are monotonic and forward-only; none of them drops user
// download history.
// - 001: Schema creation using GORM AutoMigrate
// - 002: Recompute normalized names for shows and alternate names
// - 003: Backfill first_seen on releases from created_at
func AllMigrations() []Migration {
	return []Migration{
		migration001Schema(),
		migration002RenormalizeNames(),
		migration003BackfillFirstSeen(),
	}
}

// migration001Schema creates all database tables using GORM AutoMigrate.
func migration001Schema() Migration {
	return Migration{
		Version:     "001",
		Description: "Create all database tables",
		Up: func(tx *gorm.DB) error {
			// AutoMigrate all models in dependency order
			return tx.AutoMigrate(
				// Catalog graph
				&models.Show{},
				&models.Season{},
				&models.Episode{},
				&models.EpisodeRelease{},
				&models.SeasonRelease{},
				&models.AlternateName{},
				&models.ShowTask{},

				// Upgrade decision engine
				&models.QualityHistory{},
			)
		},
		Down: func(tx *gorm.DB) error {
			// Drop tables in reverse dependency order
			tables := []string{
				"quality_history",
				"series_tasks",
				"series_alternate_names",
				"season_releases",
				"episode_releases",
				"series_episodes",
				"series_seasons",
				"series",
			}
			for _, table := range tables {
				if tx.Migrator().HasTable(table) {
					if err := tx.Migrator().DropTable(table); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

// migration002RenormalizeNames recomputes the normalized natural keys.
// Early builds normalized names with plain lowercasing; the current rule
// also strips diacritics and collapses punctuation, so stored keys must
// be recomputed to keep the uniqueness invariant meaningful.
func migration002RenormalizeNames() Migration {
	return Migration{
		Version:     "002",
		Description: "Recompute normalized show and alternate names",
		Up: func(tx *gorm.DB) error {
			var shows []models.Show
			if err := tx.Find(&shows).Error; err != nil {
				return err
			}
			for i := range shows {
				normalized := models.NormalizeShowName(shows[i].Name)
				if normalized == shows[i].NameNormalized {
					continue
				}
				if err := tx.Model(&shows[i]).Update("name_normalized", normalized).Error; err != nil {
					return err
				}
			}

			var alts []models.AlternateName
			if err := tx.Find(&alts).Error; err != nil {
				return err
			}
			for i := range alts {
				normalized := models.NormalizeShowName(alts[i].AltName)
				if normalized == alts[i].AltNameNormalized {
					continue
				}
				if err := tx.Model(&alts[i]).Update("alt_name_normalized", normalized).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: nil, // normalization is not reversible
	}
}

// migration003BackfillFirstSeen fills first_seen from created_at on
// releases imported before first_seen existed. No rows are removed.
func migration003BackfillFirstSeen() Migration {
	return Migration{
		Version:     "003",
		Description: "Backfill first_seen on releases from created_at",
		Up: func(tx *gorm.DB) error {
			zero := time.Time{}
			if err := tx.Model(&models.EpisodeRelease{}).
				Where("first_seen IS NULL OR first_seen = ?", zero).
				Update("first_seen", gorm.Expr("created_at")).Error; err != nil {
				return err
			}
			return tx.Model(&models.SeasonRelease{}).
				Where("first_seen IS NULL OR first_seen = ?", zero).
				Update("first_seen", gorm.Expr("created_at")).Error
		},
		Down: nil, // backfill only touches null values, nothing to undo
	}
}
