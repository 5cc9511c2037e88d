package department

import (
	"time"

	departmentDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/department"
)

// Department is a council department with its published contact list.
type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	Contacts    []Contact `json:"contacts,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Contact struct {
	ID           int64  `json:"id"`
	DepartmentID int64  `json:"department_id"`
	FullName     string `json:"full_name"`
	Role         string `json:"role,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func ContactFromDataModel(c *departmentDatamodel.DepartmentContact) Contact {
	return Contact{
		ID:           c.ID,
		DepartmentID: c.DepartmentID,
		FullName:     c.FullName,
		Role:         c.Role,
		Phone:        c.Phone,
		Email:        c.Email,
	}
}
