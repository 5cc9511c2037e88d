package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campussrc/src-portal/internal"
	budgetDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/budget"
	"github.com/campussrc/src-portal/internal/core/events"
	"github.com/shopspring/decimal"
)

// Permission names checked by the ledger. "admin" implies all of them.
const (
	PermissionRead   = "budget:read"
	PermissionCreate = "budget:create"
	PermissionUpdate = "budget:update"
	PermissionDelete = "budget:delete"
	PermissionAdmin  = "admin"
)

// Repository defines the data access methods for the allocation ledger. The
// mutating methods are atomic: the category write and the compensating budget
// write commit together or not at all.
type Repository interface {
	ActiveBudget() (*budgetDatamodel.Budget, error)
	CreateBudget(b *budgetDatamodel.Budget) error
	GetBudget(id int64) (*budgetDatamodel.Budget, error)
	GetCategory(id int64) (*budgetDatamodel.BudgetCategory, error)
	ListCategories(budgetID int64) ([]*budgetDatamodel.BudgetCategory, error)
	TransactionCount(categoryID int64) (int64, error)
	TransactionCounts(budgetID int64) (map[int64]int64, error)
	CreateCategory(cat *budgetDatamodel.BudgetCategory) (*budgetDatamodel.Budget, error)
	UpdateCategory(id int64, name, description string, allocated decimal.Decimal) (*budgetDatamodel.BudgetCategory, *budgetDatamodel.Budget, error)
	DeleteCategory(id int64) (*budgetDatamodel.Budget, error)
}

// Service maintains the allocation invariant between the active budget and its
// categories: allocated == sum of category allocations, remaining == total - allocated.
type Service struct {
	repo         Repository
	bus          *events.EventBus
	logger       *slog.Logger
	defaultTotal decimal.Decimal
	fiscalYear   string
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger, cfg internal.BudgetConfig) *Service {
	total, err := cfg.DefaultTotal()
	if err != nil {
		total = decimal.NewFromInt(100000)
	}

	fiscalYear := cfg.FiscalYear
	if fiscalYear == "" {
		year := time.Now().Year()
		fiscalYear = fmt.Sprintf("%d/%d", year, year+1)
	}

	return &Service{
		repo:         repo,
		bus:          bus,
		logger:       logger,
		defaultTotal: total,
		fiscalYear:   fiscalYear,
	}
}

// EnsureActiveBudget returns the newest approved budget, creating one with the
// configured default total when none exists yet.
func (s *Service) EnsureActiveBudget(userID int64) (*Budget, error) {
	data, err := s.repo.ActiveBudget()
	if err != nil {
		s.logger.Error("failed to query active budget", "error", err)
		return nil, internal.NewInternalError("failed to load active budget", err)
	}
	if data != nil {
		return BudgetFromDataModel(data), nil
	}

	data = &budgetDatamodel.Budget{
		FiscalYear:      s.fiscalYear,
		TotalAmount:     s.defaultTotal,
		AllocatedAmount: decimal.Zero,
		RemainingAmount: s.defaultTotal,
		Status:          budgetDatamodel.StatusApproved,
		CreatedBy:       userID,
	}
	if err := s.repo.CreateBudget(data); err != nil {
		s.logger.Error("failed to initialize budget", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to initialize budget", err).
			WithDetails(string(internal.ErrCodeBudgetInitFailed))
	}

	s.logger.Info("initialized budget",
		"budget_id", data.ID,
		"fiscal_year", data.FiscalYear,
		"total_amount", data.TotalAmount,
		"user_id", userID)

	return BudgetFromDataModel(data), nil
}

// Overview returns the active budget snapshot with all its categories.
func (s *Service) Overview(userID int64, userPermissions []string) (*OverviewResponse, error) {
	if !hasAnyPermission(userPermissions, PermissionRead, PermissionAdmin) {
		s.logger.Warn("budget overview denied: insufficient permissions", "user_id", userID)
		return nil, internal.ErrUnauthorizedAccess
	}

	b, err := s.EnsureActiveBudget(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListCategories(b.ID)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err, "budget_id", b.ID)
		return nil, internal.NewInternalError("failed to list categories", err)
	}

	counts, err := s.repo.TransactionCounts(b.ID)
	if err != nil {
		s.logger.Error("failed to count transactions", "error", err, "budget_id", b.ID)
		return nil, internal.NewInternalError("failed to count transactions", err)
	}

	categories := make([]CategoryResponse, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, CategoryFromDataModel(row).ToResponse(counts[row.ID]))
	}

	return &OverviewResponse{
		Budget:     b.ToResponse(),
		Categories: categories,
	}, nil
}

// AddCategory creates a category and increments the budget allocation in one
// atomic unit. Over-allocation is not capped; remaining may go negative.
func (s *Service) AddCategory(userID int64, userPermissions []string, dto CreateCategoryDTO) (*MutationResponse, error) {
	if !hasAnyPermission(userPermissions, PermissionCreate, PermissionUpdate, PermissionAdmin) {
		s.logger.Warn("add category denied: insufficient permissions", "user_id", userID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		s.logger.Warn("add category validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	b, err := s.EnsureActiveBudget(userID)
	if err != nil {
		return nil, err
	}

	cat := CategoryToDataModel(NewCategory(b.ID, dto.Name, dto.Description, dto.AllocatedAmount))
	refreshed, err := s.repo.CreateCategory(cat)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to create category", "error", err, "budget_id", b.ID, "user_id", userID)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created",
		"category_id", cat.ID,
		"budget_id", b.ID,
		"allocated", cat.AllocatedAmount,
		"user_id", userID)

	s.publish(events.NewCategoryCreatedEvent(cat.ID, b.ID, cat.Name, cat.AllocatedAmount, userID))

	return &MutationResponse{
		Category: CategoryFromDataModel(cat).ToResponse(0),
		Budget:   BudgetFromDataModel(refreshed).ToResponse(),
	}, nil
}

// EditCategory updates a category and applies the allocation delta to the
// budget atomically. A zero delta skips the budget write.
func (s *Service) EditCategory(userID int64, userPermissions []string, categoryID int64, dto UpdateCategoryDTO) (*MutationResponse, error) {
	if !hasAnyPermission(userPermissions, PermissionUpdate, PermissionAdmin) {
		s.logger.Warn("edit category denied: insufficient permissions", "user_id", userID, "category_id", categoryID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		s.logger.Warn("edit category validation failed", "error", err, "category_id", categoryID)
		return nil, err
	}

	cat, refreshed, err := s.repo.UpdateCategory(categoryID, dto.Name, dto.Description, dto.AllocatedAmount)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to update category", "error", err, "category_id", categoryID)
		return nil, internal.NewInternalError("failed to update category", err)
	}

	count, err := s.repo.TransactionCount(categoryID)
	if err != nil {
		s.logger.Error("failed to count transactions", "error", err, "category_id", categoryID)
		return nil, internal.NewInternalError("failed to count transactions", err)
	}

	s.logger.Info("category updated",
		"category_id", categoryID,
		"allocated", cat.AllocatedAmount,
		"user_id", userID)

	s.publish(events.NewCategoryUpdatedEvent(cat.ID, cat.BudgetID, cat.Name, cat.AllocatedAmount, userID))

	return &MutationResponse{
		Category: CategoryFromDataModel(cat).ToResponse(count),
		Budget:   BudgetFromDataModel(refreshed).ToResponse(),
	}, nil
}

// DeleteCategory removes a category with no recorded transactions and returns
// its allocation to the budget atomically.
func (s *Service) DeleteCategory(userID int64, userPermissions []string, categoryID int64) (*BudgetResponse, error) {
	if !hasAnyPermission(userPermissions, PermissionDelete, PermissionAdmin) {
		s.logger.Warn("delete category denied: insufficient permissions", "user_id", userID, "category_id", categoryID)
		return nil, internal.ErrUnauthorizedAccess
	}

	cat, err := s.repo.GetCategory(categoryID)
	if err != nil {
		s.logger.Error("failed to load category", "error", err, "category_id", categoryID)
		return nil, internal.NewInternalError("failed to load category", err)
	}
	if cat == nil {
		return nil, internal.ErrCategoryNotFound
	}

	refreshed, err := s.repo.DeleteCategory(categoryID)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return nil, appErr
		}
		s.logger.Error("failed to delete category", "error", err, "category_id", categoryID)
		return nil, internal.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted",
		"category_id", categoryID,
		"returned_allocation", cat.AllocatedAmount,
		"user_id", userID)

	s.publish(events.NewCategoryDeletedEvent(cat.ID, cat.BudgetID, cat.Name, cat.AllocatedAmount, userID))

	resp := BudgetFromDataModel(refreshed).ToResponse()
	return &resp, nil
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish budget event", "event_type", event.EventType(), "error", err)
	}
}

func hasAnyPermission(userPermissions []string, required ...string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range required {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}
