package postgres

import (
	"errors"

	"github.com/campussrc/src-portal/internal/department"
	departmentDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.Repository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll() ([]*department.Department, error) {
	var rows []*departmentDatamodel.Department
	err := r.db.Where("is_active = true").Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	departments := make([]*department.Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, department.FromDataModel(row))
	}
	return departments, nil
}

func (r *DepartmentRepository) GetByID(id int64) (*department.Department, error) {
	var row departmentDatamodel.Department
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return department.FromDataModel(&row), nil
}

func (r *DepartmentRepository) GetContacts(departmentID int64) ([]department.Contact, error) {
	var rows []*departmentDatamodel.DepartmentContact
	err := r.db.Where("department_id = ?", departmentID).Order("full_name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	contacts := make([]department.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, department.ContactFromDataModel(row))
	}
	return contacts, nil
}
