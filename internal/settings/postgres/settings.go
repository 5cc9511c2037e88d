package postgres

import (
	"errors"
	"time"

	"github.com/campussrc/src-portal/internal/settings"
	settingDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/setting"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) settings.Repository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetAll() ([]*settings.Setting, error) {
	var rows []*settingDatamodel.Setting
	err := r.db.Order("key ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*settings.Setting, 0, len(rows))
	for _, row := range rows {
		result = append(result, settings.FromDataModel(row))
	}
	return result, nil
}

func (r *SettingsRepository) GetByKey(key string) (*settings.Setting, error) {
	var row settingDatamodel.Setting
	err := r.db.Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return settings.FromDataModel(&row), nil
}

func (r *SettingsRepository) Upsert(key, value string, updatedBy int64) (*settings.Setting, error) {
	row := settingDatamodel.Setting{
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	return r.GetByKey(key)
}
