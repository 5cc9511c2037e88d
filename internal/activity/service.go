package activity

import (
	"log/slog"

	"github.com/campussrc/src-portal/internal"
)

const PermissionRead = "activity:read"

type Repository interface {
	Insert(entry *Entry) error
	List(limit int) ([]*Entry, error)
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

// Record persists an audit entry. Failures are logged but never propagated to
// the caller, the audited operation has already committed.
func (s *Service) Record(userID int64, action, entity string, entityID int64, detail string) {
	entry := &Entry{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}

	if err := s.repo.Insert(entry); err != nil {
		s.logger.Error("Record: failed to store activity entry",
			"error", err, "action", action, "user_id", userID)
	}
}

func (s *Service) List(userID int64, userPermissions []string, limit int) ([]*Entry, error) {
	if !hasAnyPermission(userPermissions, []string{PermissionRead, "admin"}) {
		s.logger.Warn("List: permission denied", "user_id", userID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}

	entries, err := s.repo.List(limit)
	if err != nil {
		s.logger.Error("List: failed to fetch activity entries", "error", err)
		return nil, internal.NewInternalError("failed to fetch activity log", err)
	}
	return entries, nil
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
