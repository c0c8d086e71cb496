package models

import (
	"gorm.io/gorm"
)

// Season represents a season-pack identity for a show: a single release
// artifact covering an entire season. Identified by season number with a
// canonical Sxx identifier, unique per show.
type Season struct {
	BaseModel

	ShowID ULID `gorm:"type:varchar(26);not null;index;uniqueIndex:idx_series_seasons_show_identifier" json:"show_id"`

	// Identifier is the canonical season identity string, e.g. S01.
	Identifier string `gorm:"not null;size:64;uniqueIndex:idx_series_seasons_show_identifier" json:"identifier"`

	// IdentifiedBy is the scheme the season pack was parsed under.
	IdentifiedBy IdentifierScheme `gorm:"size:16" json:"identified_by"`

	Season int `gorm:"default:0" json:"season"`

	Releases []SeasonRelease `gorm:"foreignKey:SeasonID" json:"releases,omitempty"`

	Show *Show `gorm:"foreignKey:ShowID" json:"show,omitempty"`
}

// TableName returns the table name for Season.
func (Season) TableName() string {
	return "series_seasons"
}

// Validate performs basic validation on the season.
func (s *Season) Validate() error {
	if s.ShowID.IsZero() {
		return ErrShowIDRequired
	}
	if s.Identifier == "" {
		return ErrIdentifierRequired
	}
	return nil
}

// BeforeCreate is a GORM hook that validates the season.
func (s *Season) BeforeCreate(tx *gorm.DB) error {
	if err := s.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	return s.Validate()
}

// Scheme returns the scheme this season was identified by.
func (s *Season) Scheme() IdentifierScheme {
	return s.IdentifiedBy
}

// SortSeason returns the season component of the ordering key.
func (s *Season) SortSeason() int {
	return s.Season
}

// SortNumber returns 0: a season pack orders by season alone.
func (s *Season) SortNumber() int {
	return 0
}

// EntityIdentifier returns the canonical identifier string.
func (s *Season) EntityIdentifier() string {
	return s.Identifier
}

// IsSeasonPack returns true.
func (s *Season) IsSeasonPack() bool {
	return true
}

// EntityID returns the surrogate id.
func (s *Season) EntityID() ULID {
	return s.ID
}

// Completed returns true if at least one release of this season pack is
// marked downloaded.
func (s *Season) Completed() bool {
	for i := range s.Releases {
		if s.Releases[i].Downloaded {
			return true
		}
	}
	return false
}
