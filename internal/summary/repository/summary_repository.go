package repository

import (
	"errors"

	"github.com/seeya29/SmartBrief/internal/summary/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryRepository defines the persistence operations for summary records.
type SummaryRepository interface {
	// Upsert writes a record with replace semantics keyed by summary_id:
	// writing the same id twice overwrites atomically, never duplicates.
	Upsert(record *domain.SummaryRecord) error
	// GetByID retrieves one record, or domain.ErrNotFound.
	GetByID(summaryID string) (*domain.SummaryRecord, error)
	// ListRecent returns up to limit records for a user/platform pair,
	// newest generated_at first, ties broken by most recent write.
	ListRecent(userID, platform string, limit int) ([]*domain.SummaryRecord, error)
}

type gormSummaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a GORM-backed SummaryRepository.
func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &gormSummaryRepository{db: db}
}

func (r *gormSummaryRepository) Upsert(record *domain.SummaryRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "summary_id"}},
		UpdateAll: true,
	}).Create(record).Error
}

func (r *gormSummaryRepository) GetByID(summaryID string) (*domain.SummaryRecord, error) {
	var record domain.SummaryRecord
	err := r.db.Where("summary_id = ?", summaryID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *gormSummaryRepository) ListRecent(userID, platform string, limit int) ([]*domain.SummaryRecord, error) {
	var records []*domain.SummaryRecord
	err := r.db.
		Where("user_id = ? AND platform = ?", userID, platform).
		Order("generated_at DESC, updated_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
