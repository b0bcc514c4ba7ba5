package db

import (
	"time"

	"github.com/terraincognita07/rangepick/internal/models"
	"gorm.io/gorm"
)

type PickerSessionRepository struct {
	database *gorm.DB
}

func NewPickerSessionRepository(database *gorm.DB) *PickerSessionRepository {
	return &PickerSessionRepository{database: database}
}

func (repo *PickerSessionRepository) Create(session *models.PickerSession) error {
	return repo.database.Create(session).Error
}

func (repo *PickerSessionRepository) FindByID(id string) (models.PickerSession, bool, error) {
	session := models.PickerSession{}
	result := repo.database.Where("id = ?", id).Limit(1).Find(&session)
	if result.Error != nil {
		return models.PickerSession{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.PickerSession{}, false, nil
	}
	return session, true, nil
}

func (repo *PickerSessionRepository) Save(session *models.PickerSession) error {
	return repo.database.Save(session).Error
}

// SaveWithUpdate persists the session together with the update it emitted,
// so neither is written without the other.
func (repo *PickerSessionRepository) SaveWithUpdate(session *models.PickerSession, update *models.RangeUpdate) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(update).Error; err != nil {
			return err
		}
		return tx.Save(session).Error
	})
}

// Delete removes the session and the updates it emitted. It reports false
// when no session matched.
func (repo *PickerSessionRepository) Delete(id string) (bool, error) {
	deleted := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("picker_id = ?", id).Delete(&models.RangeUpdate{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.PickerSession{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (repo *PickerSessionRepository) DeleteIdleBefore(cutoff time.Time) (int64, error) {
	var deleted int64
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		idle := tx.Model(&models.PickerSession{}).Select("id").Where("updated_at < ?", cutoff)
		if err := tx.Where("picker_id IN (?)", idle).Delete(&models.RangeUpdate{}).Error; err != nil {
			return err
		}
		result := tx.Where("updated_at < ?", cutoff).Delete(&models.PickerSession{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

func (repo *PickerSessionRepository) Count() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.PickerSession{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
