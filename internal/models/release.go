package models

import (
	"time"

	"gorm.io/gorm"
)

// EpisodeRelease represents one observed content artifact for an
// episode. The (episode_id, title, quality, proper_count) tuple is
// unique: re-ingesting the identical observed release is a no-op lookup.
type EpisodeRelease struct {
	BaseModel

	EpisodeID ULID `gorm:"type:varchar(26);not null;index;uniqueIndex:idx_episode_releases_identity" json:"episode_id"`

	// Title is the original observed release title.
	Title string `gorm:"not null;size:1024;uniqueIndex:idx_episode_releases_identity" json:"title"`

	// Quality is the structured quality requirement string.
	Quality string `gorm:"size:255;uniqueIndex:idx_episode_releases_identity" json:"quality"`

	// ProperCount counts proper/repack supersessions. A higher count at
	// the same quality supersedes a lower one.
	ProperCount int `gorm:"default:0;uniqueIndex:idx_episode_releases_identity" json:"proper_count"`

	Downloaded bool `gorm:"default:false;index" json:"downloaded"`

	// FirstSeen is set at creation and never mutated afterwards.
	FirstSeen time.Time `gorm:"not null" json:"first_seen"`

	Episode *Episode `gorm:"foreignKey:EpisodeID" json:"episode,omitempty"`
}

// TableName returns the table name for EpisodeRelease.
func (EpisodeRelease) TableName() string {
	return "episode_releases"
}

// BeforeCreate stamps first_seen and validates the release.
func (r *EpisodeRelease) BeforeCreate(tx *gorm.DB) error {
	if err := r.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if r.EpisodeID.IsZero() {
		return ErrEpisodeIDRequired
	}
	if r.Title == "" {
		return ErrTitleRequired
	}
	if r.FirstSeen.IsZero() {
		r.FirstSeen = time.Now()
	}
	return nil
}

// SeasonRelease represents one observed season-pack artifact, with the
// same identity and supersession rules as EpisodeRelease.
type SeasonRelease struct {
	BaseModel

	SeasonID ULID `gorm:"type:varchar(26);not null;index;uniqueIndex:idx_season_releases_identity" json:"season_id"`

	Title       string `gorm:"not null;size:1024;uniqueIndex:idx_season_releases_identity" json:"title"`
	Quality     string `gorm:"size:255;uniqueIndex:idx_season_releases_identity" json:"quality"`
	ProperCount int    `gorm:"default:0;uniqueIndex:idx_season_releases_identity" json:"proper_count"`

	Downloaded bool `gorm:"default:false;index" json:"downloaded"`

	FirstSeen time.Time `gorm:"not null" json:"first_seen"`

	Season *Season `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
}

// TableName returns the table name for SeasonRelease.
func (SeasonRelease) TableName() string {
	return "season_releases"
}

// BeforeCreate stamps first_seen and validates the release.
func (r *SeasonRelease) BeforeCreate(tx *gorm.DB) error {
	if err := r.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if r.SeasonID.IsZero() {
		return ErrSeasonIDRequired
	}
	if r.Title == "" {
		return ErrTitleRequired
	}
	if r.FirstSeen.IsZero() {
		r.FirstSeen = time.Now()
	}
	return nil
}
