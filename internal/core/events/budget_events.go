package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeCategoryCreated = "budget.category.created"
	EventTypeCategoryUpdated = "budget.category.updated"
	EventTypeCategoryDeleted = "budget.category.deleted"
)

type CategoryEvent struct {
	BaseEvent
	CategoryID   int64           `json:"category_id"`
	BudgetID     int64           `json:"budget_id"`
	CategoryName string          `json:"category_name"`
	Amount       decimal.Decimal `json:"amount"`
	UserID       int64           `json:"user_id"`
}

func newCategoryEvent(eventType string, categoryID, budgetID int64, name string, amount decimal.Decimal, userID int64) *CategoryEvent {
	return &CategoryEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"category_id":   categoryID,
				"budget_id":     budgetID,
				"category_name": name,
				"amount":        amount.String(),
				"user_id":       userID,
			},
		},
		CategoryID:   categoryID,
		BudgetID:     budgetID,
		CategoryName: name,
		Amount:       amount,
		UserID:       userID,
	}
}

func NewCategoryCreatedEvent(categoryID, budgetID int64, name string, amount decimal.Decimal, userID int64) *CategoryEvent {
	return newCategoryEvent(EventTypeCategoryCreated, categoryID, budgetID, name, amount, userID)
}

func NewCategoryUpdatedEvent(categoryID, budgetID int64, name string, amount decimal.Decimal, userID int64) *CategoryEvent {
	return newCategoryEvent(EventTypeCategoryUpdated, categoryID, budgetID, name, amount, userID)
}

func NewCategoryDeletedEvent(categoryID, budgetID int64, name string, amount decimal.Decimal, userID int64) *CategoryEvent {
	return newCategoryEvent(EventTypeCategoryDeleted, categoryID, budgetID, name, amount, userID)
}
