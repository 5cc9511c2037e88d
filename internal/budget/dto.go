package budget

import (
	"time"

	"github.com/campussrc/src-portal/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateCategoryDTO struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

func (dto CreateCategoryDTO) Validate() error {
	if err := validation.ValidateCategoryName(dto.Name); err != nil {
		return err
	}
	if err := validation.ValidateAllocatedAmount(dto.AllocatedAmount); err != nil {
		return err
	}
	return nil
}

type UpdateCategoryDTO struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

func (dto UpdateCategoryDTO) Validate() error {
	if err := validation.ValidateCategoryName(dto.Name); err != nil {
		return err
	}
	if err := validation.ValidateAllocatedAmount(dto.AllocatedAmount); err != nil {
		return err
	}
	return nil
}

type BudgetResponse struct {
	ID              int64           `json:"id"`
	FiscalYear      string          `json:"fiscal_year"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	OverAllocated   bool            `json:"over_allocated"`
	CreatedAt       time.Time       `json:"created_at"`
}

type CategoryResponse struct {
	ID               int64           `json:"id"`
	BudgetID         int64           `json:"budget_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	AllocatedAmount  decimal.Decimal `json:"allocated_amount"`
	SpentAmount      decimal.Decimal `json:"spent_amount"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount"`
	Overspent        bool            `json:"overspent"`
	TransactionCount int64           `json:"transaction_count"`
}

type OverviewResponse struct {
	Budget     BudgetResponse     `json:"budget"`
	Categories []CategoryResponse `json:"categories"`
}

// MutationResponse is returned by add and edit operations: the affected
// category plus the refreshed budget snapshot.
type MutationResponse struct {
	Category CategoryResponse `json:"category"`
	Budget   BudgetResponse   `json:"budget"`
}

func (b *Budget) ToResponse() BudgetResponse {
	return BudgetResponse{
		ID:              b.ID,
		FiscalYear:      b.FiscalYear,
		TotalAmount:     b.TotalAmount,
		AllocatedAmount: b.AllocatedAmount,
		RemainingAmount: b.RemainingAmount,
		Status:          b.Status,
		OverAllocated:   b.OverAllocated(),
		CreatedAt:       b.CreatedAt,
	}
}

func (c *Category) ToResponse(transactionCount int64) CategoryResponse {
	remaining := c.Remaining()
	return CategoryResponse{
		ID:               c.ID,
		BudgetID:         c.BudgetID,
		Name:             c.Name,
		Description:      c.Description,
		AllocatedAmount:  c.AllocatedAmount,
		SpentAmount:      c.SpentAmount,
		RemainingAmount:  remaining,
		Overspent:        remaining.IsNegative(),
		TransactionCount: transactionCount,
	}
}
