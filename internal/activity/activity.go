package activity

import (
	"time"

	activityDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/activity"
)

// Entry is one audit trail record.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity,omitempty"`
	EntityID  int64     `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(a *activityDatamodel.ActivityLog) *Entry {
	return &Entry{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		Entity:    a.Entity,
		EntityID:  a.EntityID,
		Detail:    a.Detail,
		CreatedAt: a.CreatedAt,
	}
}

func ToDataModel(e *Entry) *activityDatamodel.ActivityLog {
	return &activityDatamodel.ActivityLog{
		UserID:   e.UserID,
		Action:   e.Action,
		Entity:   e.Entity,
		EntityID: e.EntityID,
		Detail:   e.Detail,
	}
}
