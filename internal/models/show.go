package models

import (
	"gorm.io/gorm"
)

// Show represents a tracked series. Identity is the normalized name,
// which is unique across the catalog; alternate names map additional
// normalized strings to the same show.
type Show struct {
	BaseModel

	// Name is the display name as first observed.
	Name string `gorm:"not null;size:512" json:"name"`

	// NameNormalized is the case/punctuation-insensitive natural key.
	NameNormalized string `gorm:"not null;size:512;uniqueIndex:idx_series_name_normalized" json:"name_normalized"`

	// IdentifiedBy is the numbering scheme locked for this show.
	// "auto" means scheme detection has not yet accumulated enough
	// evidence; the empty string means detection was explicitly re-armed.
	IdentifiedBy IdentifierScheme `gorm:"size:16;default:auto" json:"identified_by"`

	// BeginEpisodeID optionally marks the first in-scope episode.
	// It must reference an episode of this same show.
	BeginEpisodeID *ULID `gorm:"type:varchar(26)" json:"begin_episode_id,omitempty"`

	Episodes       []Episode       `gorm:"foreignKey:ShowID" json:"episodes,omitempty"`
	Seasons        []Season        `gorm:"foreignKey:ShowID" json:"seasons,omitempty"`
	AlternateNames []AlternateName `gorm:"foreignKey:ShowID" json:"alternate_names,omitempty"`
	Tasks          []ShowTask      `gorm:"foreignKey:ShowID" json:"tasks,omitempty"`

	BeginEpisode *Episode `gorm:"foreignKey:BeginEpisodeID" json:"begin_episode,omitempty"`
}

// TableName returns the table name for Show.
func (Show) TableName() string {
	return "series"
}

// Validate performs basic validation on the show.
func (s *Show) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	return nil
}

// BeforeCreate is a GORM hook that fills the normalized name and
// validates the show.
func (s *Show) BeforeCreate(tx *gorm.DB) error {
	if err := s.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if s.NameNormalized == "" {
		s.NameNormalized = NormalizeShowName(s.Name)
	}
	if s.IdentifiedBy == "" {
		s.IdentifiedBy = SchemeAuto
	}
	return s.Validate()
}

// AlternateName maps an additional normalized name string to exactly one
// show. The normalized string is globally unique: attaching the same
// alternate name to a different show is a conflict, never a silent
// reassignment.
type AlternateName struct {
	BaseModel

	ShowID ULID `gorm:"type:varchar(26);not null;index" json:"show_id"`

	// AltName is the alternate display name.
	AltName string `gorm:"not null;size:512" json:"alt_name"`

	// AltNameNormalized is the unique normalized form.
	AltNameNormalized string `gorm:"not null;size:512;uniqueIndex:idx_series_alt_name_normalized" json:"alt_name_normalized"`

	Show *Show `gorm:"foreignKey:ShowID" json:"show,omitempty"`
}

// TableName returns the table name for AlternateName.
func (AlternateName) TableName() string {
	return "series_alternate_names"
}

// BeforeCreate fills the normalized form and validates the row.
func (a *AlternateName) BeforeCreate(tx *gorm.DB) error {
	if err := a.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if a.ShowID.IsZero() {
		return ErrShowIDRequired
	}
	if a.AltName == "" {
		return ErrNameRequired
	}
	if a.AltNameNormalized == "" {
		a.AltNameNormalized = NormalizeShowName(a.AltName)
	}
	return nil
}

// ShowTask is a weak reference recording that a configured pipeline task
// references the show. Used for housekeeping only, never ownership: a
// show with no episodes, no seasons and no task associations is eligible
// for garbage collection.
type ShowTask struct {
	BaseModel

	ShowID   ULID   `gorm:"type:varchar(26);not null;index;uniqueIndex:idx_series_tasks_show_task" json:"show_id"`
	TaskName string `gorm:"not null;size:255;uniqueIndex:idx_series_tasks_show_task" json:"task_name"`

	Show *Show `gorm:"foreignKey:ShowID" json:"show,omitempty"`
}

// TableName returns the table name for ShowTask.
func (ShowTask) TableName() string {
	return "series_tasks"
}

// BeforeCreate validates the association.
func (t *ShowTask) BeforeCreate(tx *gorm.DB) error {
	if err := t.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if t.ShowID.IsZero() {
		return ErrShowIDRequired
	}
	if t.TaskName == "" {
		return ErrTaskNameRequired
	}
	return nil
}
