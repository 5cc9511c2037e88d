package budget

import (
	"time"

	budgetDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/budget"
	"github.com/shopspring/decimal"
)

// Budget is the single active financial envelope the ledger operates on.
// Only the newest budget with status "approved" is ever mutated.
type Budget struct {
	ID              int64           `json:"id"`
	FiscalYear      string          `json:"fiscal_year"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	CreatedBy       int64           `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OverAllocated reports whether category allocations exceed the budget total.
// Over-allocation is allowed; callers surface it, they do not block it.
func (b *Budget) OverAllocated() bool {
	return b.RemainingAmount.IsNegative()
}

// Reconciles checks the allocation invariant on a snapshot.
func (b *Budget) Reconciles() bool {
	return b.AllocatedAmount.Add(b.RemainingAmount).Equal(b.TotalAmount)
}

type Category struct {
	ID              int64           `json:"id"`
	BudgetID        int64           `json:"budget_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Remaining is allocated minus spent. Negative means overspend, which is a
// reporting fact rather than an error.
func (c *Category) Remaining() decimal.Decimal {
	return c.AllocatedAmount.Sub(c.SpentAmount)
}

func NewCategory(budgetID int64, name, description string, allocated decimal.Decimal) *Category {
	now := time.Now()
	return &Category{
		BudgetID:        budgetID,
		Name:            name,
		Description:     description,
		AllocatedAmount: allocated,
		SpentAmount:     decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func BudgetToDataModel(b *Budget) *budgetDatamodel.Budget {
	return &budgetDatamodel.Budget{
		ID:              b.ID,
		FiscalYear:      b.FiscalYear,
		TotalAmount:     b.TotalAmount,
		AllocatedAmount: b.AllocatedAmount,
		RemainingAmount: b.RemainingAmount,
		Status:          b.Status,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func BudgetFromDataModel(b *budgetDatamodel.Budget) *Budget {
	return &Budget{
		ID:              b.ID,
		FiscalYear:      b.FiscalYear,
		TotalAmount:     b.TotalAmount,
		AllocatedAmount: b.AllocatedAmount,
		RemainingAmount: b.RemainingAmount,
		Status:          b.Status,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func CategoryToDataModel(c *Category) *budgetDatamodel.BudgetCategory {
	return &budgetDatamodel.BudgetCategory{
		ID:              c.ID,
		BudgetID:        c.BudgetID,
		Name:            c.Name,
		Description:     c.Description,
		AllocatedAmount: c.AllocatedAmount,
		SpentAmount:     c.SpentAmount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func CategoryFromDataModel(c *budgetDatamodel.BudgetCategory) *Category {
	return &Category{
		ID:              c.ID,
		BudgetID:        c.BudgetID,
		Name:            c.Name,
		Description:     c.Description,
		AllocatedAmount: c.AllocatedAmount,
		SpentAmount:     c.SpentAmount,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
