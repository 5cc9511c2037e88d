package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetTransaction is a financial ledger entry recorded against a budget
// category by the transaction-recording subsystem. The allocation ledger only
// counts these rows: a category with transactions cannot be deleted.
type BudgetTransaction struct {
	ID          int64           `gorm:"primaryKey"`
	CategoryID  int64           `gorm:"column:category_id;not null;index"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Description string          `gorm:"column:description"`
	RecordedBy  int64           `gorm:"column:recorded_by"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (BudgetTransaction) TableName() string {
	return "budget_transactions"
}
