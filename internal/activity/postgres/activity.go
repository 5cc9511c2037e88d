package postgres

import (
	"github.com/campussrc/src-portal/internal/activity"
	activityDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(entry *activity.Entry) error {
	row := activity.ToDataModel(entry)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	entry.ID = row.ID
	entry.CreatedAt = row.CreatedAt
	return nil
}

func (r *ActivityRepository) List(limit int) ([]*activity.Entry, error) {
	var rows []*activityDatamodel.ActivityLog
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*activity.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, activity.FromDataModel(row))
	}
	return entries, nil
}
