package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmylchreest/episodarr/internal/models"
	"gorm.io/gorm"
)

// qualityHistoryRepo implements QualityHistoryRepository using GORM.
type qualityHistoryRepo struct {
	db *gorm.DB
}

// NewQualityHistoryRepository creates a new QualityHistoryRepository.
func NewQualityHistoryRepository(db *gorm.DB) *qualityHistoryRepo {
	return &qualityHistoryRepo{db: db}
}

// GetByIdentifier retrieves the best-seen row for an identifier.
func (r *qualityHistoryRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.QualityHistory, error) {
	var history models.QualityHistory
	err := r.db.WithContext(ctx).Where("identifier = ?", identifier).First(&history).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting quality history: %w", err)
	}
	return &history, nil
}

// Upsert inserts the row or updates the existing one in place.
// first_seen anchors the timeframe window, so updates never touch it.
func (r *qualityHistoryRepo) Upsert(ctx context.Context, history *models.QualityHistory) error {
	existing, err := r.GetByIdentifier(ctx, history.Identifier)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := r.db.WithContext(ctx).Create(history).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return r.Upsert(ctx, history)
			}
			return fmt.Errorf("creating quality history: %w", err)
		}
		return nil
	}

	err = r.db.WithContext(ctx).Model(existing).Updates(map[string]any{
		"quality":      history.Quality,
		"proper_count": history.ProperCount,
		"title":        history.Title,
	}).Error
	if err != nil {
		return fmt.Errorf("updating quality history: %w", err)
	}
	history.ID = existing.ID
	history.FirstSeen = existing.FirstSeen
	return nil
}

// DeleteByIdentifier removes the row for an identifier.
func (r *qualityHistoryRepo) DeleteByIdentifier(ctx context.Context, identifier string) error {
	err := r.db.WithContext(ctx).Where("identifier = ?", identifier).Delete(&models.QualityHistory{}).Error
	if err != nil {
		return fmt.Errorf("deleting quality history: %w", err)
	}
	return nil
}
