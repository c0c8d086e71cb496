package repository

import (
	"gorm.io/gorm"
)

// Set bundles all catalog repositories bound to one database handle.
// Binding a Set to a transaction handle makes every repository in it
// participate in that transaction.
type Set struct {
	Shows    ShowRepository
	Episodes EpisodeRepository
	Seasons  SeasonRepository
	Releases ReleaseRepository
	History  QualityHistoryRepository
}

// NewSet creates repositories bound to the given database handle, which
// may be a transaction.
func NewSet(db *gorm.DB) *Set {
	return &Set{
		Shows:    NewShowRepository(db),
		Episodes: NewEpisodeRepository(db),
		Seasons:  NewSeasonRepository(db),
		Releases: NewReleaseRepository(db),
		History:  NewQualityHistoryRepository(db),
	}
}
