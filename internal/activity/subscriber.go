package activity

import (
	"context"
	"fmt"

	"github.com/campussrc/src-portal/internal/core/events"
)

// Subscriber turns budget category events into audit trail entries.
type Subscriber struct {
	service *Service
}

func NewSubscriber(service *Service) *Subscriber {
	return &Subscriber{service: service}
}

// Register attaches the subscriber to all category event types.
func (s *Subscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeCategoryCreated, s.handleCategoryEvent)
	bus.Subscribe(events.EventTypeCategoryUpdated, s.handleCategoryEvent)
	bus.Subscribe(events.EventTypeCategoryDeleted, s.handleCategoryEvent)
}

func (s *Subscriber) handleCategoryEvent(ctx context.Context, event events.Event) error {
	categoryEvent, ok := event.(*events.CategoryEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	detail := fmt.Sprintf("category %q allocation %s", categoryEvent.CategoryName, categoryEvent.Amount.StringFixed(2))
	s.service.Record(categoryEvent.UserID, event.EventType(), "budget_category", categoryEvent.CategoryID, detail)
	return nil
}
