package postgres

import (
	"errors"

	"github.com/campussrc/src-portal/internal/user"
	userDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ? AND is_active = true", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetPermissions(userID int64) ([]string, error) {
	var permissions []string
	err := r.db.Table("permissions").
		Joins("JOIN user_permissions ON permissions.id = user_permissions.permission_id").
		Where("user_permissions.user_id = ?", userID).
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}
