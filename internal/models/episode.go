package models

import (
	"gorm.io/gorm"
)

// Episode represents a single addressable episode of a show. The
// identifier is the scheme-specific canonical string (S01E02, a sequence
// integer, or an ISO date) and is unique per show.
type Episode struct {
	BaseModel

	ShowID ULID `gorm:"type:varchar(26);not null;index;uniqueIndex:idx_series_episodes_show_identifier" json:"show_id"`

	// Identifier is the canonical scheme-specific identity string.
	Identifier string `gorm:"not null;size:64;uniqueIndex:idx_series_episodes_show_identifier" json:"identifier"`

	// IdentifiedBy is the scheme a successful parse assigned. It is
	// fixed at creation; "special" marks non-canonical bonus content.
	IdentifiedBy IdentifierScheme `gorm:"size:16" json:"identified_by"`

	// Season and Number are only meaningful for ep/sequence schemes.
	Season int `gorm:"default:0" json:"season"`
	Number int `gorm:"default:0" json:"number"`

	Releases []EpisodeRelease `gorm:"foreignKey:EpisodeID" json:"releases,omitempty"`

	Show *Show `gorm:"foreignKey:ShowID" json:"show,omitempty"`
}

// TableName returns the table name for Episode.
func (Episode) TableName() string {
	return "series_episodes"
}

// Validate performs basic validation on the episode.
func (e *Episode) Validate() error {
	if e.ShowID.IsZero() {
		return ErrShowIDRequired
	}
	if e.Identifier == "" {
		return ErrIdentifierRequired
	}
	if e.IdentifiedBy != "" && !e.IdentifiedBy.Valid() {
		return ErrInvalidScheme
	}
	return nil
}

// BeforeCreate is a GORM hook that validates the episode.
func (e *Episode) BeforeCreate(tx *gorm.DB) error {
	if err := e.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	return e.Validate()
}

// Scheme returns the scheme this episode was identified by.
func (e *Episode) Scheme() IdentifierScheme {
	return e.IdentifiedBy
}

// SortSeason returns the season component of the ordering key.
func (e *Episode) SortSeason() int {
	return e.Season
}

// SortNumber returns the number component of the ordering key.
func (e *Episode) SortNumber() int {
	return e.Number
}

// EntityIdentifier returns the canonical identifier string.
func (e *Episode) EntityIdentifier() string {
	return e.Identifier
}

// IsSeasonPack returns false; an episode addresses a single entry.
func (e *Episode) IsSeasonPack() bool {
	return false
}

// EntityID returns the surrogate id, used as the deterministic final
// tie-break in orderings.
func (e *Episode) EntityID() ULID {
	return e.ID
}

// Downloaded returns true if any release of this episode is downloaded.
func (e *Episode) Downloaded() bool {
	for i := range e.Releases {
		if e.Releases[i].Downloaded {
			return true
		}
	}
	return false
}
