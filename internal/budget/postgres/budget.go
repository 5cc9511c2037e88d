package postgres

import (
	"errors"
	"time"

	"github.com/campussrc/src-portal/internal"
	"github.com/campussrc/src-portal/internal/budget"
	budgetDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/budget"
	transactionDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/transaction"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetRepository implements the budget.Repository interface using GORM. Each
// mutating method runs in a single transaction spanning the category write and
// the compensating budget write.
type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) budget.Repository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) ActiveBudget() (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.Where("status = ?", budgetDatamodel.StatusApproved).
		Order("created_at DESC, id DESC").
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) CreateBudget(b *budgetDatamodel.Budget) error {
	return r.db.Create(b).Error
}

func (r *BudgetRepository) GetBudget(id int64) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) GetCategory(id int64) (*budgetDatamodel.BudgetCategory, error) {
	var cat budgetDatamodel.BudgetCategory
	err := r.db.Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *BudgetRepository) ListCategories(budgetID int64) ([]*budgetDatamodel.BudgetCategory, error) {
	var categories []*budgetDatamodel.BudgetCategory
	err := r.db.Where("budget_id = ?", budgetID).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *BudgetRepository) TransactionCount(categoryID int64) (int64, error) {
	var count int64
	err := r.db.Model(&transactionDatamodel.BudgetTransaction{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// TransactionCounts returns the transaction count per category for one budget
// in a single grouped query. Categories without transactions are absent.
func (r *BudgetRepository) TransactionCounts(budgetID int64) (map[int64]int64, error) {
	type categoryCount struct {
		CategoryID int64
		Total      int64
	}

	var rows []categoryCount
	err := r.db.Model(&transactionDatamodel.BudgetTransaction{}).
		Select("budget_transactions.category_id AS category_id, COUNT(*) AS total").
		Joins("JOIN budget_categories ON budget_categories.id = budget_transactions.category_id").
		Where("budget_categories.budget_id = ?", budgetID).
		Group("budget_transactions.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	return counts, nil
}

// CreateCategory inserts the category and increments the parent budget's
// allocation in one transaction. If the budget row cannot be updated the
// category insert rolls back with it.
func (r *BudgetRepository) CreateCategory(cat *budgetDatamodel.BudgetCategory) (*budgetDatamodel.Budget, error) {
	var snapshot *budgetDatamodel.Budget

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cat).Error; err != nil {
			return err
		}

		b, err := r.lockBudget(tx, cat.BudgetID)
		if err != nil {
			return err
		}

		if err := r.applyAllocationDelta(tx, b, cat.AllocatedAmount); err != nil {
			return err
		}

		snapshot = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// UpdateCategory rewrites the category and applies the allocation delta to the
// parent budget. The delta is computed from the stored row after the budget
// lock is held, so concurrent edits serialize instead of losing updates.
func (r *BudgetRepository) UpdateCategory(id int64, name, description string, allocated decimal.Decimal) (*budgetDatamodel.BudgetCategory, *budgetDatamodel.Budget, error) {
	var catOut *budgetDatamodel.BudgetCategory
	var budgetOut *budgetDatamodel.Budget

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current budgetDatamodel.BudgetCategory
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrCategoryNotFound
			}
			return err
		}

		b, err := r.lockBudget(tx, current.BudgetID)
		if err != nil {
			return err
		}

		// re-read under the budget lock; another edit may have committed
		// between the first read and lock acquisition
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrCategoryNotFound
			}
			return err
		}

		delta := allocated.Sub(current.AllocatedAmount)

		current.Name = name
		current.Description = description
		current.AllocatedAmount = allocated
		current.UpdatedAt = time.Now()
		if err := tx.Save(&current).Error; err != nil {
			return err
		}

		if !delta.IsZero() {
			if err := r.applyAllocationDelta(tx, b, delta); err != nil {
				return err
			}
		}

		catOut = &current
		budgetOut = b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return catOut, budgetOut, nil
}

// DeleteCategory removes the category and returns its allocation to the parent
// budget. A category with recorded transactions is rejected before any write.
func (r *BudgetRepository) DeleteCategory(id int64) (*budgetDatamodel.Budget, error) {
	var snapshot *budgetDatamodel.Budget

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current budgetDatamodel.BudgetCategory
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrCategoryNotFound
			}
			return err
		}

		b, err := r.lockBudget(tx, current.BudgetID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&transactionDatamodel.BudgetTransaction{}).
			Where("category_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return internal.ErrCategoryHasTransactions
		}

		if err := tx.Delete(&budgetDatamodel.BudgetCategory{}, id).Error; err != nil {
			return err
		}

		if err := r.applyAllocationDelta(tx, b, current.AllocatedAmount.Neg()); err != nil {
			return err
		}

		snapshot = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// lockBudget loads the budget row, taking a SELECT ... FOR UPDATE lock on
// postgres so concurrent category mutations against the same budget serialize.
func (r *BudgetRepository) lockBudget(tx *gorm.DB, id int64) (*budgetDatamodel.Budget, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var b budgetDatamodel.Budget
	if err := q.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBudgetNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) applyAllocationDelta(tx *gorm.DB, b *budgetDatamodel.Budget, delta decimal.Decimal) error {
	b.AllocatedAmount = b.AllocatedAmount.Add(delta)
	b.RemainingAmount = b.TotalAmount.Sub(b.AllocatedAmount)

	res := tx.Model(&budgetDatamodel.Budget{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"allocated_amount": b.AllocatedAmount,
			"remaining_amount": b.RemainingAmount,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrBudgetNotFound
	}
	return nil
}
