package db

import (
	"github.com/terraincognita07/rangepick/internal/models"
	"gorm.io/gorm"
)

type RangeUpdateRepository struct {
	database *gorm.DB
}

func NewRangeUpdateRepository(database *gorm.DB) *RangeUpdateRepository {
	return &RangeUpdateRepository{database: database}
}

func (repo *RangeUpdateRepository) Create(update *models.RangeUpdate) error {
	return repo.database.Create(update).Error
}

func (repo *RangeUpdateRepository) ListByPicker(pickerID string, limit int) ([]models.RangeUpdate, error) {
	updates := make([]models.RangeUpdate, 0)
	query := repo.database.Where("picker_id = ?", pickerID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&updates).Error; err != nil {
		return nil, err
	}
	return updates, nil
}
