package department

import (
	"log/slog"

	"github.com/campussrc/src-portal/internal"
)

type Repository interface {
	GetAll() ([]*Department, error)
	GetByID(id int64) (*Department, error)
	GetContacts(departmentID int64) ([]Contact, error)
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

func (s *Service) GetAll() ([]*Department, error) {
	departments, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("GetAll: failed to fetch departments", "error", err)
		return nil, internal.NewInternalError("failed to fetch departments", err)
	}
	return departments, nil
}

func (s *Service) GetByID(id int64) (*Department, error) {
	dept, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("GetByID: failed to fetch department", "error", err, "department_id", id)
		return nil, internal.NewInternalError("failed to fetch department", err)
	}
	if dept == nil {
		return nil, internal.ErrDepartmentNotFound
	}

	contacts, err := s.repo.GetContacts(id)
	if err != nil {
		s.logger.Error("GetByID: failed to fetch contacts", "error", err, "department_id", id)
		return nil, internal.NewInternalError("failed to fetch department contacts", err)
	}
	dept.Contacts = contacts

	return dept, nil
}
