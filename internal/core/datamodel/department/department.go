package department

import "time"

type Department struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}

type DepartmentContact struct {
	ID           int64     `gorm:"primaryKey"`
	DepartmentID int64     `gorm:"column:department_id;not null;index"`
	FullName     string    `gorm:"column:full_name;not null"`
	Role         string    `gorm:"column:role"`
	Phone        string    `gorm:"column:phone"`
	Email        string    `gorm:"column:email"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DepartmentContact) TableName() string {
	return "department_contacts"
}
