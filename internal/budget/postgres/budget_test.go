package postgres_test

import (
	"testing"

	"github.com/campussrc/src-portal/internal"
	"github.com/campussrc/src-portal/internal/budget"
	budgetPostgres "github.com/campussrc/src-portal/internal/budget/postgres"
	budgetDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/budget"
	transactionDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/transaction"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestBudgetPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Budget Postgres Suite")
}

var _ = Describe("Budget Repository", func() {
	var (
		db   *gorm.DB
		repo budget.Repository
	)

	amount := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}

	createBudget := func(total string) *budgetDatamodel.Budget {
		b := &budgetDatamodel.Budget{
			FiscalYear:      "2026",
			TotalAmount:     amount(total),
			AllocatedAmount: decimal.Zero,
			RemainingAmount: amount(total),
			Status:          budgetDatamodel.StatusApproved,
			CreatedBy:       1,
		}
		Expect(repo.CreateBudget(b)).To(Succeed())
		return b
	}

	BeforeEach(func() {
		var err error
		// SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&budgetDatamodel.Budget{},
			&budgetDatamodel.BudgetCategory{},
			&transactionDatamodel.BudgetTransaction{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = budgetPostgres.NewBudgetRepository(db)
	})

	Describe("ActiveBudget", func() {
		It("should return nil when no budget exists", func() {
			b, err := repo.ActiveBudget()
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(BeNil())
		})

		It("should return the newest approved budget", func() {
			createBudget("50000.00")
			second := createBudget("80000.00")

			b, err := repo.ActiveBudget()
			Expect(err).NotTo(HaveOccurred())
			Expect(b).NotTo(BeNil())
			Expect(b.ID).To(Equal(second.ID))
		})
	})

	Describe("CreateCategory", func() {
		It("should insert the category and adjust the budget atomically", func() {
			b := createBudget("100000.00")

			cat := &budgetDatamodel.BudgetCategory{
				BudgetID:        b.ID,
				Name:            "Events",
				AllocatedAmount: amount("15000.00"),
				SpentAmount:     decimal.Zero,
			}

			snapshot, err := repo.CreateCategory(cat)
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.ID).To(BeNumerically(">", 0))
			Expect(snapshot.AllocatedAmount.Equal(amount("15000.00"))).To(BeTrue())
			Expect(snapshot.RemainingAmount.Equal(amount("85000.00"))).To(BeTrue())

			stored, err := repo.GetBudget(b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AllocatedAmount.Equal(amount("15000.00"))).To(BeTrue())
		})

		It("should roll back the category insert when the budget row is missing", func() {
			b := createBudget("100000.00")

			// remove the budget out of band so the in-transaction lookup fails
			Expect(db.Delete(&budgetDatamodel.Budget{}, b.ID).Error).To(Succeed())

			cat := &budgetDatamodel.BudgetCategory{
				BudgetID:        b.ID,
				Name:            "Orphan",
				AllocatedAmount: amount("500.00"),
				SpentAmount:     decimal.Zero,
			}

			_, err := repo.CreateCategory(cat)
			Expect(err).To(Equal(internal.ErrBudgetNotFound))

			var count int64
			Expect(db.Model(&budgetDatamodel.BudgetCategory{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("should allow the allocation to exceed the budget total", func() {
			b := createBudget("1000.00")

			cat := &budgetDatamodel.BudgetCategory{
				BudgetID:        b.ID,
				Name:            "Oversized",
				AllocatedAmount: amount("2500.00"),
				SpentAmount:     decimal.Zero,
			}

			snapshot, err := repo.CreateCategory(cat)
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.RemainingAmount.Equal(amount("-1500.00"))).To(BeTrue())
		})
	})

	Describe("UpdateCategory", func() {
		It("should apply the allocation delta to the budget", func() {
			b := createBudget("100000.00")
			cat := &budgetDatamodel.BudgetCategory{
				BudgetID:        b.ID,
				Name:            "Events",
				AllocatedAmount: amount("10000.00"),
				SpentAmount:     decimal.Zero,
			}
			_, err := repo.CreateCategory(cat)
			Expect(err).NotTo(HaveOccurred())

			updated, snapshot, err := repo.UpdateCategory(cat.ID, "Events", "bigger scope", amount("14000.00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AllocatedAmount.Equal(amount("14000.00"))).To(BeTrue())
			Expect(updated.Description).To(Equal("bigger scope"))
			Expect(snapshot.AllocatedAmount.Equal(amount("14000.00"))).To(BeTrue())
			Expect(snapshot.RemainingAmount.Equal(amount("86000.00"))).To(BeTrue())
		})

		It("should leave the budget untouched for a zero delta", func() {
			b := createBudget("100000.00")
			cat := &budgetDatamodel.BudgetCategory{
				BudgetID:        b.ID,
				Name:            "Events",
				AllocatedAmount: amount("10000.00"),
				SpentAmount:     decimal.Zero,
			}
			_, err := repo.CreateCategory(cat)
			Expect(err).NotTo(HaveOccurred())

			_, snapshot, err := repo.UpdateCategory(cat.ID, "Renamed", "", amount("10000.00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.AllocatedAmount.Equal(amount("10000.00"))).To(BeTrue())

			stored, err := repo.GetCategory(cat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Name).To(Equal("Renamed"))
		})

		It("should return not found for a missing category", func() {
			createBudget("100000.00")

			_, _, err := repo.UpdateCategory(9999, "Ghost", "", amount("1.00"))
			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})
	})

	Describe("DeleteCategory", func() {
		It("should return the allocation to the budget", func() {
			b := createBudget("100000.00")
			cat := &budgetDatamodel.BudgetCategory{
				BudgetID:        b.ID,
				Name:            "Events",
				AllocatedAmount: amount("10000.00"),
				SpentAmount:     decimal.Zero,
			}
			_, err := repo.CreateCategory(cat)
			Expect(err).NotTo(HaveOccurred())

			snapshot, err := repo.DeleteCategory(cat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.AllocatedAmount.IsZero()).To(BeTrue())
			Expect(snapshot.RemainingAmount.Equal(amount("100000.00"))).To(BeTrue())

			stored, err := repo.GetCategory(cat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(BeNil())
		})

		It("should refuse to delete a category with recorded transactions", func() {
			b := createBudget("100000.00")
			cat := &budgetDatamodel.BudgetCategory{
				BudgetID:        b.ID,
				Name:            "Events",
				AllocatedAmount: amount("10000.00"),
				SpentAmount:     decimal.Zero,
			}
			_, err := repo.CreateCategory(cat)
			Expect(err).NotTo(HaveOccurred())

			tx := &transactionDatamodel.BudgetTransaction{
				CategoryID:  cat.ID,
				Amount:      amount("99.00"),
				Description: "venue deposit",
				RecordedBy:  1,
			}
			Expect(db.Create(tx).Error).To(Succeed())

			_, err = repo.DeleteCategory(cat.ID)
			Expect(err).To(Equal(internal.ErrCategoryHasTransactions))

			stored, err := repo.GetCategory(cat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).NotTo(BeNil())

			budgetRow, err := repo.GetBudget(b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(budgetRow.AllocatedAmount.Equal(amount("10000.00"))).To(BeTrue())
		})

		It("should return not found for a missing category", func() {
			createBudget("100000.00")

			_, err := repo.DeleteCategory(9999)
			Expect(err).To(Equal(internal.ErrCategoryNotFound))
		})
	})

	Describe("TransactionCount", func() {
		It("should count only transactions for the given category", func() {
			b := createBudget("100000.00")
			first := &budgetDatamodel.BudgetCategory{BudgetID: b.ID, Name: "Events", AllocatedAmount: amount("100.00"), SpentAmount: decimal.Zero}
			second := &budgetDatamodel.BudgetCategory{BudgetID: b.ID, Name: "Sports", AllocatedAmount: amount("100.00"), SpentAmount: decimal.Zero}
			_, err := repo.CreateCategory(first)
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.CreateCategory(second)
			Expect(err).NotTo(HaveOccurred())

			Expect(db.Create(&transactionDatamodel.BudgetTransaction{CategoryID: first.ID, Amount: amount("10.00"), RecordedBy: 1}).Error).To(Succeed())
			Expect(db.Create(&transactionDatamodel.BudgetTransaction{CategoryID: first.ID, Amount: amount("20.00"), RecordedBy: 1}).Error).To(Succeed())

			count, err := repo.TransactionCount(first.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))

			count, err = repo.TransactionCount(second.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})
	})

	Describe("TransactionCounts", func() {
		It("should group counts per category for one budget", func() {
			b := createBudget("100000.00")
			other := createBudget("50000.00")
			first := &budgetDatamodel.BudgetCategory{BudgetID: b.ID, Name: "Events", AllocatedAmount: amount("100.00"), SpentAmount: decimal.Zero}
			second := &budgetDatamodel.BudgetCategory{BudgetID: b.ID, Name: "Sports", AllocatedAmount: amount("100.00"), SpentAmount: decimal.Zero}
			foreign := &budgetDatamodel.BudgetCategory{BudgetID: other.ID, Name: "Other", AllocatedAmount: amount("100.00"), SpentAmount: decimal.Zero}
			_, err := repo.CreateCategory(first)
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.CreateCategory(second)
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.CreateCategory(foreign)
			Expect(err).NotTo(HaveOccurred())

			Expect(db.Create(&transactionDatamodel.BudgetTransaction{CategoryID: first.ID, Amount: amount("10.00"), RecordedBy: 1}).Error).To(Succeed())
			Expect(db.Create(&transactionDatamodel.BudgetTransaction{CategoryID: first.ID, Amount: amount("20.00"), RecordedBy: 1}).Error).To(Succeed())
			Expect(db.Create(&transactionDatamodel.BudgetTransaction{CategoryID: foreign.ID, Amount: amount("5.00"), RecordedBy: 1}).Error).To(Succeed())

			counts, err := repo.TransactionCounts(b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(counts).To(HaveLen(1))
			Expect(counts[first.ID]).To(Equal(int64(2)))
			Expect(counts).NotTo(HaveKey(second.ID))
			Expect(counts).NotTo(HaveKey(foreign.ID))
		})
	})
})
