package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusApproved = "approved"

// Budget is the financial envelope for one fiscal period. AllocatedAmount and
// RemainingAmount are derived from the category rows and must reconcile with
// TotalAmount after every committed mutation.
type Budget struct {
	ID              int64           `gorm:"primaryKey"`
	FiscalYear      string          `gorm:"column:fiscal_year"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null"`
	AllocatedAmount decimal.Decimal `gorm:"column:allocated_amount;type:numeric(14,2);not null"`
	RemainingAmount decimal.Decimal `gorm:"column:remaining_amount;type:numeric(14,2);not null"`
	Status          string          `gorm:"column:status;default:approved"`
	CreatedBy       int64           `gorm:"column:created_by"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Budget) TableName() string {
	return "budgets"
}

// BudgetCategory is a named sub-allocation of a budget. SpentAmount is written
// by the transaction subsystem, never by the ledger.
type BudgetCategory struct {
	ID              int64           `gorm:"primaryKey"`
	BudgetID        int64           `gorm:"column:budget_id;not null;index"`
	Name            string          `gorm:"column:name;not null"`
	Description     string          `gorm:"column:description"`
	AllocatedAmount decimal.Decimal `gorm:"column:allocated_amount;type:numeric(14,2);not null"`
	SpentAmount     decimal.Decimal `gorm:"column:spent_amount;type:numeric(14,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (BudgetCategory) TableName() string {
	return "budget_categories"
}
