package activity

import "time"

// ActivityLog records one administrative action for the audit trail.
type ActivityLog struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	Action    string    `gorm:"column:action;not null"`
	Entity    string    `gorm:"column:entity"`
	EntityID  int64     `gorm:"column:entity_id"`
	Detail    string    `gorm:"column:detail"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
