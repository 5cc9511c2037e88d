package budget_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/campussrc/src-portal/internal"
	"github.com/campussrc/src-portal/internal/budget"
	budgetDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/budget"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func TestBudgetService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Budget Service Suite")
}

// MockRepository implements budget.Repository for testing. It keeps the
// allocation ledger consistent the way the real repository does: every
// category mutation adjusts the parent budget in the same call.
type MockRepository struct {
	budget       *budgetDatamodel.Budget
	categories   map[int64]*budgetDatamodel.BudgetCategory
	transactions map[int64]int64
	nextID       int64
	countQueries int
	shouldFail   bool
	failError    error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories:   make(map[int64]*budgetDatamodel.BudgetCategory),
		transactions: make(map[int64]int64),
		nextID:       1,
	}
}

func (m *MockRepository) ActiveBudget() (*budgetDatamodel.Budget, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.budget, nil
}

func (m *MockRepository) CreateBudget(b *budgetDatamodel.Budget) error {
	if m.shouldFail {
		return m.failError
	}
	b.ID = m.nextID
	m.nextID++
	m.budget = b
	return nil
}

func (m *MockRepository) GetBudget(id int64) (*budgetDatamodel.Budget, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	if m.budget == nil || m.budget.ID != id {
		return nil, nil
	}
	return m.budget, nil
}

func (m *MockRepository) GetCategory(id int64) (*budgetDatamodel.BudgetCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	cat, exists := m.categories[id]
	if !exists {
		return nil, nil
	}
	return cat, nil
}

func (m *MockRepository) ListCategories(budgetID int64) ([]*budgetDatamodel.BudgetCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*budgetDatamodel.BudgetCategory
	for _, cat := range m.categories {
		if cat.BudgetID == budgetID {
			result = append(result, cat)
		}
	}
	return result, nil
}

func (m *MockRepository) TransactionCount(categoryID int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	return m.transactions[categoryID], nil
}

func (m *MockRepository) TransactionCounts(budgetID int64) (map[int64]int64, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	m.countQueries++
	counts := make(map[int64]int64)
	for id, cat := range m.categories {
		if cat.BudgetID == budgetID && m.transactions[id] > 0 {
			counts[id] = m.transactions[id]
		}
	}
	return counts, nil
}

func (m *MockRepository) CreateCategory(cat *budgetDatamodel.BudgetCategory) (*budgetDatamodel.Budget, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	if m.budget == nil || m.budget.ID != cat.BudgetID {
		return nil, internal.ErrBudgetNotFound
	}
	cat.ID = m.nextID
	m.nextID++
	m.categories[cat.ID] = cat
	m.applyDelta(cat.AllocatedAmount)
	return m.budget, nil
}

func (m *MockRepository) UpdateCategory(id int64, name, description string, allocated decimal.Decimal) (*budgetDatamodel.BudgetCategory, *budgetDatamodel.Budget, error) {
	if m.shouldFail {
		return nil, nil, m.failError
	}
	cat, exists := m.categories[id]
	if !exists {
		return nil, nil, internal.ErrCategoryNotFound
	}
	delta := allocated.Sub(cat.AllocatedAmount)
	cat.Name = name
	cat.Description = description
	cat.AllocatedAmount = allocated
	m.applyDelta(delta)
	return cat, m.budget, nil
}

func (m *MockRepository) DeleteCategory(id int64) (*budgetDatamodel.Budget, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	cat, exists := m.categories[id]
	if !exists {
		return nil, internal.ErrCategoryNotFound
	}
	if m.transactions[id] > 0 {
		return nil, internal.ErrCategoryHasTransactions
	}
	delete(m.categories, id)
	m.applyDelta(cat.AllocatedAmount.Neg())
	return m.budget, nil
}

func (m *MockRepository) applyDelta(delta decimal.Decimal) {
	m.budget.AllocatedAmount = m.budget.AllocatedAmount.Add(delta)
	m.budget.RemainingAmount = m.budget.TotalAmount.Sub(m.budget.AllocatedAmount)
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) SetTransactionCount(categoryID, count int64) {
	m.transactions[categoryID] = count
}

var _ = Describe("Budget Service", func() {
	var (
		mockRepo *MockRepository
		service  *budget.Service
		logger   *slog.Logger
	)

	treasurerPerms := []string{"budget:read", "budget:create", "budget:update", "budget:delete"}
	readOnlyPerms := []string{"budget:read"}
	noPerms := []string{}

	newDTO := func(name string, amount string) budget.CreateCategoryDTO {
		return budget.CreateCategoryDTO{
			Name:            name,
			Description:     "test category",
			AllocatedAmount: decimal.RequireFromString(amount),
		}
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = budget.NewService(mockRepo, nil, logger, internal.BudgetConfig{
			DefaultTotalAmount: "100000.00",
			FiscalYear:         "2026",
		})
	})

	Describe("Overview", func() {
		It("should create the budget lazily when none exists", func() {
			overview, err := service.Overview(1, readOnlyPerms)
			Expect(err).NotTo(HaveOccurred())
			Expect(overview.Budget.TotalAmount).To(Equal(decimal.RequireFromString("100000.00")))
			Expect(overview.Budget.AllocatedAmount.IsZero()).To(BeTrue())
			Expect(overview.Budget.RemainingAmount).To(Equal(decimal.RequireFromString("100000.00")))
			Expect(overview.Budget.FiscalYear).To(Equal("2026"))
			Expect(overview.Categories).To(BeEmpty())
		})

		It("should reuse the existing budget on subsequent calls", func() {
			first, err := service.Overview(1, readOnlyPerms)
			Expect(err).NotTo(HaveOccurred())

			second, err := service.Overview(1, readOnlyPerms)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Budget.ID).To(Equal(first.Budget.ID))
		})

		It("should deny access without the read permission", func() {
			_, err := service.Overview(1, noPerms)
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("should allow access for admins", func() {
			_, err := service.Overview(1, []string{"admin"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report transaction counts per category", func() {
			result, err := service.AddCategory(1, treasurerPerms, newDTO("Events", "5000.00"))
			Expect(err).NotTo(HaveOccurred())
			mockRepo.SetTransactionCount(result.Category.ID, 3)

			overview, err := service.Overview(1, readOnlyPerms)
			Expect(err).NotTo(HaveOccurred())
			Expect(overview.Categories).To(HaveLen(1))
			Expect(overview.Categories[0].TransactionCount).To(Equal(int64(3)))
		})

		It("should load all transaction counts with one query", func() {
			_, err := service.AddCategory(1, treasurerPerms, newDTO("Events", "5000.00"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AddCategory(1, treasurerPerms, newDTO("Sports", "3000.00"))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.AddCategory(1, treasurerPerms, newDTO("Media", "2000.00"))
			Expect(err).NotTo(HaveOccurred())
			mockRepo.countQueries = 0

			overview, err := service.Overview(1, readOnlyPerms)
			Expect(err).NotTo(HaveOccurred())
			Expect(overview.Categories).To(HaveLen(3))
			Expect(mockRepo.countQueries).To(Equal(1))
		})
	})

	Describe("AddCategory", func() {
		It("should create a category and adjust the budget in one step", func() {
			result, err := service.AddCategory(1, treasurerPerms, newDTO("Events", "15000.00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Category.ID).To(BeNumerically(">", 0))
			Expect(result.Budget.AllocatedAmount).To(Equal(decimal.RequireFromString("15000.00")))
			Expect(result.Budget.RemainingAmount).To(Equal(decimal.RequireFromString("85000.00")))
			Expect(result.Budget.OverAllocated).To(BeFalse())
		})

		It("should keep allocated equal to the sum of category allocations", func() {
			_, err := service.AddCategory(1, treasurerPerms, newDTO("Events", "15000.00"))
			Expect(err).NotTo(HaveOccurred())
			result, err := service.AddCategory(1, treasurerPerms, newDTO("Sports", "25000.00"))
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Budget.AllocatedAmount).To(Equal(decimal.RequireFromString("40000.00")))
			Expect(result.Budget.RemainingAmount).To(Equal(decimal.RequireFromString("60000.00")))
		})

		It("should permit over-allocation and flag it", func() {
			result, err := service.AddCategory(1, treasurerPerms, newDTO("Everything", "150000.00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Budget.RemainingAmount.IsNegative()).To(BeTrue())
			Expect(result.Budget.OverAllocated).To(BeTrue())
		})

		It("should reject a negative allocation", func() {
			_, err := service.AddCategory(1, treasurerPerms, newDTO("Events", "-1.00"))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject an empty name", func() {
			_, err := service.AddCategory(1, treasurerPerms, newDTO("", "100.00"))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should check permissions before touching the datastore", func() {
			_, err := service.AddCategory(1, readOnlyPerms, newDTO("Events", "100.00"))
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
			Expect(mockRepo.budget).To(BeNil())
		})

		It("should wrap repository failures as internal errors", func() {
			mockRepo.SetShouldFail(true, errors.New("db down"))
			_, err := service.AddCategory(1, treasurerPerms, newDTO("Events", "100.00"))
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("EditCategory", func() {
		var categoryID int64

		BeforeEach(func() {
			result, err := service.AddCategory(1, treasurerPerms, newDTO("Events", "10000.00"))
			Expect(err).NotTo(HaveOccurred())
			categoryID = result.Category.ID
		})

		It("should apply the allocation delta to the budget", func() {
			result, err := service.EditCategory(1, treasurerPerms, categoryID, budget.UpdateCategoryDTO{
				Name:            "Events",
				Description:     "updated",
				AllocatedAmount: decimal.RequireFromString("12500.00"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Category.AllocatedAmount).To(Equal(decimal.RequireFromString("12500.00")))
			Expect(result.Budget.AllocatedAmount).To(Equal(decimal.RequireFromString("12500.00")))
			Expect(result.Budget.RemainingAmount).To(Equal(decimal.RequireFromString("87500.00")))
		})

		It("should decrease the budget when the allocation shrinks", func() {
			result, err := service.EditCategory(1, treasurerPerms, categoryID, budget.UpdateCategoryDTO{
				Name:            "Events",
				AllocatedAmount: decimal.RequireFromString("4000.00"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Budget.AllocatedAmount).To(Equal(decimal.RequireFromString("4000.00")))
			Expect(result.Budget.RemainingAmount).To(Equal(decimal.RequireFromString("96000.00")))
		})

		It("should return not found for a missing category", func() {
			_, err := service.EditCategory(1, treasurerPerms, 9999, budget.UpdateCategoryDTO{
				Name:            "Ghost",
				AllocatedAmount: decimal.RequireFromString("1.00"),
			})
			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})

		It("should deny edits without the update permission", func() {
			_, err := service.EditCategory(1, readOnlyPerms, categoryID, budget.UpdateCategoryDTO{
				Name:            "Events",
				AllocatedAmount: decimal.RequireFromString("1.00"),
			})
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("should reject invalid input before any write", func() {
			_, err := service.EditCategory(1, treasurerPerms, categoryID, budget.UpdateCategoryDTO{
				Name:            "Events",
				AllocatedAmount: decimal.RequireFromString("-5.00"),
			})
			Expect(err).To(HaveOccurred())

			overview, err := service.Overview(1, readOnlyPerms)
			Expect(err).NotTo(HaveOccurred())
			Expect(overview.Budget.AllocatedAmount).To(Equal(decimal.RequireFromString("10000.00")))
		})
	})

	Describe("DeleteCategory", func() {
		var categoryID int64

		BeforeEach(func() {
			result, err := service.AddCategory(1, treasurerPerms, newDTO("Events", "10000.00"))
			Expect(err).NotTo(HaveOccurred())
			categoryID = result.Category.ID
		})

		It("should return the allocation to the budget", func() {
			result, err := service.DeleteCategory(1, treasurerPerms, categoryID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.AllocatedAmount.IsZero()).To(BeTrue())
			Expect(result.RemainingAmount).To(Equal(decimal.RequireFromString("100000.00")))
		})

		It("should refuse to delete a category with recorded transactions", func() {
			mockRepo.SetTransactionCount(categoryID, 2)

			_, err := service.DeleteCategory(1, treasurerPerms, categoryID)
			Expect(err).To(Equal(internal.ErrCategoryHasTransactions))

			overview, overviewErr := service.Overview(1, readOnlyPerms)
			Expect(overviewErr).NotTo(HaveOccurred())
			Expect(overview.Categories).To(HaveLen(1))
		})

		It("should return not found for a missing category", func() {
			_, err := service.DeleteCategory(1, treasurerPerms, 9999)
			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})

		It("should deny deletion without the delete permission", func() {
			_, err := service.DeleteCategory(1, readOnlyPerms, categoryID)
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})
	})
})
