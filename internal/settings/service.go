package settings

import (
	"log/slog"

	"github.com/campussrc/src-portal/internal"
)

const PermissionUpdate = "settings:update"

type Repository interface {
	GetAll() ([]*Setting, error)
	GetByKey(key string) (*Setting, error)
	Upsert(key, value string, updatedBy int64) (*Setting, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll() ([]*Setting, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("GetAll: failed to fetch settings", "error", err)
		return nil, internal.NewInternalError("failed to fetch settings", err)
	}
	return all, nil
}

func (s *Service) GetByKey(key string) (*Setting, error) {
	setting, err := s.repo.GetByKey(key)
	if err != nil {
		s.logger.Error("GetByKey: failed to fetch setting", "error", err, "key", key)
		return nil, internal.NewInternalError("failed to fetch setting", err)
	}
	if setting == nil {
		return nil, internal.ErrSettingNotFound
	}
	return setting, nil
}

func (s *Service) Update(userID int64, userPermissions []string, key string, dto UpdateSettingDTO) (*Setting, error) {
	if !hasAnyPermission(userPermissions, []string{PermissionUpdate, "admin"}) {
		s.logger.Warn("Update: permission denied", "user_id", userID, "key", key)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	setting, err := s.repo.Upsert(key, dto.Value, userID)
	if err != nil {
		s.logger.Error("Update: failed to store setting", "error", err, "key", key)
		return nil, internal.NewInternalError("failed to store setting", err)
	}

	s.logger.Info("setting updated", "key", key, "user_id", userID)
	return setting, nil
}

func hasAnyPermission(userPermissions, required []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range required {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}
