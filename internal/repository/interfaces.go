// Package repository defines data access interfaces for the episodarr
// catalog. All database access goes through these interfaces, enabling
// easy testing and database backend switching.
package repository

import (
	"context"
	"time"

	"github.com/jmylchreest/episodarr/internal/models"
)

// ConfiguredFilter selects shows by the presence of task associations.
type ConfiguredFilter string

// Configured filter values.
const (
	ConfiguredAll  ConfiguredFilter = "all"
	ConfiguredOnly ConfiguredFilter = "configured"
	Unconfigured   ConfiguredFilter = "unconfigured"
)

// SummaryOptions controls the GetSummary listing.
type SummaryOptions struct {
	Configured ConfiguredFilter
	// Premieres restricts to shows whose maximum observed season is <=1
	// and maximum episode number is <=2 and which have at least one
	// downloaded release.
	Premieres bool
	// SortByName sorts by show name; otherwise by most recent release
	// first_seen. Ties always break by surrogate id ascending.
	SortByName bool
	Descending bool
	Offset     int
	Limit      int
}

// ShowSummary is one row of the series summary listing.
type ShowSummary struct {
	Show            *models.Show
	EpisodeCount    int64
	DownloadedCount int64
	LatestFirstSeen *time.Time
}

// ShowRepository defines operations for show persistence.
type ShowRepository interface {
	// Create creates a new show.
	Create(ctx context.Context, show *models.Show) error
	// GetByID retrieves a show by ID, or nil when absent.
	GetByID(ctx context.Context, id models.ULID) (*models.Show, error)
	// GetByNormalizedName resolves a show by its normalized name or by
	// an alternate name with the same normalized form.
	GetByNormalizedName(ctx context.Context, normalized string) (*models.Show, error)
	// FindByName retrieves shows whose name contains the given fragment,
	// case-insensitively.
	FindByName(ctx context.Context, fragment string) ([]*models.Show, error)
	// Update persists changes to an existing show.
	Update(ctx context.Context, show *models.Show) error
	// DeleteCascade deletes a show and all of its episodes, seasons,
	// releases, alternate names and task associations in one transaction.
	DeleteCascade(ctx context.Context, id models.ULID) error
	// GetSummary returns a filtered, paginated summary listing.
	GetSummary(ctx context.Context, opts SummaryOptions) ([]ShowSummary, error)
	// AddAlternateName attaches an alternate name to a show. Attaching a
	// name already owned by a different show is a ConflictError.
	AddAlternateName(ctx context.Context, showID models.ULID, altName string) (*models.AlternateName, error)
	// RemoveAlternateName detaches an alternate name by normalized form.
	RemoveAlternateName(ctx context.Context, showID models.ULID, normalized string) error
	// AddTask records that a configured task references the show.
	AddTask(ctx context.Context, showID models.ULID, taskName string) error
	// RemoveTask removes a task association.
	RemoveTask(ctx context.Context, showID models.ULID, taskName string) error
	// GetOrphans returns shows with no episodes, no seasons and no task
	// associations, eligible for garbage collection.
	GetOrphans(ctx context.Context) ([]*models.Show, error)
}

// EpisodeRepository defines operations for episode persistence.
type EpisodeRepository interface {
	// GetOrCreate resolves an episode by (show, identifier), creating it
	// when absent. A duplicate-insert race resolves as a lookup.
	GetOrCreate(ctx context.Context, episode *models.Episode) (*models.Episode, bool, error)
	// GetByID retrieves an episode by ID with releases preloaded, or nil.
	GetByID(ctx context.Context, id models.ULID) (*models.Episode, error)
	// GetByIdentifier retrieves an episode of a show by canonical
	// identifier, or nil.
	GetByIdentifier(ctx context.Context, showID models.ULID, identifier string) (*models.Episode, error)
	// ListByShow returns a show's episodes ordered for its scheme, with
	// half-open [start, stop) slicing; stop <= 0 means unbounded.
	ListByShow(ctx context.Context, showID models.ULID, scheme models.IdentifierScheme, start, stop int) ([]*models.Episode, error)
	// CountAfter counts episodes of the show strictly after the given
	// (season, number) ordering key.
	CountAfter(ctx context.Context, showID models.ULID, season, number int) (int64, error)
	// CountSeenAfter counts episodes first seen after the given time,
	// the fallback for rows missing season/number.
	CountSeenAfter(ctx context.Context, showID models.ULID, after time.Time) (int64, error)
	// SchemeHistogram counts episodes per concrete identified_by value,
	// excluding unset and special rows.
	SchemeHistogram(ctx context.Context, showID models.ULID) (map[models.IdentifierScheme]int64, error)
	// Delete removes an episode and its releases.
	Delete(ctx context.Context, id models.ULID) error
}

// SeasonRepository defines operations for season-pack persistence.
type SeasonRepository interface {
	// GetOrCreate resolves a season by (show, identifier), creating it
	// when absent. A duplicate-insert race resolves as a lookup.
	GetOrCreate(ctx context.Context, season *models.Season) (*models.Season, bool, error)
	// GetByID retrieves a season by ID with releases preloaded, or nil.
	GetByID(ctx context.Context, id models.ULID) (*models.Season, error)
	// GetByIdentifier retrieves a season of a show by canonical
	// identifier, or nil.
	GetByIdentifier(ctx context.Context, showID models.ULID, identifier string) (*models.Season, error)
	// ListByShow returns a show's seasons in season-number order with
	// half-open [start, stop) slicing; stop <= 0 means unbounded.
	ListByShow(ctx context.Context, showID models.ULID, start, stop int) ([]*models.Season, error)
	// Delete removes a season and its releases.
	Delete(ctx context.Context, id models.ULID) error
}

// ReleaseRepository defines operations for release persistence.
type ReleaseRepository interface {
	// GetOrCreateEpisodeRelease resolves a release by the unique
	// (episode, title, quality, proper_count) key, creating it when
	// absent. Returns the row and whether it was created.
	GetOrCreateEpisodeRelease(ctx context.Context, release *models.EpisodeRelease) (*models.EpisodeRelease, bool, error)
	// GetOrCreateSeasonRelease is the season-pack analogue.
	GetOrCreateSeasonRelease(ctx context.Context, release *models.SeasonRelease) (*models.SeasonRelease, bool, error)
	// GetEpisodeReleaseByID retrieves an episode release by ID, or nil.
	GetEpisodeReleaseByID(ctx context.Context, id models.ULID) (*models.EpisodeRelease, error)
	// GetSeasonReleaseByID retrieves a season release by ID, or nil.
	GetSeasonReleaseByID(ctx context.Context, id models.ULID) (*models.SeasonRelease, error)
	// MarkEpisodeReleaseDownloaded flags a release as downloaded.
	MarkEpisodeReleaseDownloaded(ctx context.Context, id models.ULID) error
	// MarkSeasonReleaseDownloaded flags a release as downloaded.
	MarkSeasonReleaseDownloaded(ctx context.Context, id models.ULID) error
	// DownloadedTitlesForShow collects downloaded release titles across
	// a show's episodes and seasons, for forget notifications.
	DownloadedTitlesForShow(ctx context.Context, showID models.ULID) ([]string, error)
}

// QualityHistoryRepository defines operations for the upgrade engine's
// best-seen tracking table.
type QualityHistoryRepository interface {
	// GetByIdentifier retrieves the best-seen row, or nil.
	GetByIdentifier(ctx context.Context, identifier string) (*models.QualityHistory, error)
	// Upsert inserts the row, or updates the existing one; first_seen is
	// preserved on update.
	Upsert(ctx context.Context, history *models.QualityHistory) error
	// DeleteByIdentifier removes the row for an identifier.
	DeleteByIdentifier(ctx context.Context, identifier string) error
}
