package setting

import "time"

type Setting struct {
	ID        int64     `gorm:"primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex;not null"`
	Value     string    `gorm:"column:value"`
	UpdatedBy int64     `gorm:"column:updated_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Setting) TableName() string {
	return "settings"
}
