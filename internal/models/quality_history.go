package models

import (
	"time"

	"gorm.io/gorm"
)

// QualityHistory tracks, per generic content identifier, the best
// quality and proper count seen so far. It is deliberately decoupled
// from the show/episode graph so it can rank arbitrary content.
// Append-mostly: the row is only ever overwritten with a strictly better
// candidate, never downgraded.
type QualityHistory struct {
	BaseModel

	// Identifier is a free-form content identifier, e.g.
	// "some show S01E02".
	Identifier string `gorm:"not null;size:512;uniqueIndex:idx_quality_history_identifier" json:"identifier"`

	// Quality is the canonical quality string of the best release seen.
	Quality string `gorm:"size:255" json:"quality"`

	// ProperCount is the proper count of the best release seen.
	ProperCount int `gorm:"default:0" json:"proper_count"`

	// Title is the observed title of the best release seen.
	Title string `gorm:"size:1024" json:"title"`

	// FirstSeen is when this identifier was first observed; it anchors
	// the upgrade engine's timeframe window and is never mutated.
	FirstSeen time.Time `gorm:"not null" json:"first_seen"`
}

// TableName returns the table name for QualityHistory.
func (QualityHistory) TableName() string {
	return "quality_history"
}

// BeforeCreate stamps first_seen and validates the row.
func (q *QualityHistory) BeforeCreate(tx *gorm.DB) error {
	if err := q.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if q.Identifier == "" {
		return ErrIdentifierRequired
	}
	if q.FirstSeen.IsZero() {
		q.FirstSeen = time.Now()
	}
	return nil
}
