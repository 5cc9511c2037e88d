package messaging

import (
	"github.com/campussrc/src-portal/internal"
	"github.com/campussrc/src-portal/internal/core/common/validation"
)

// BroadcastDTO is the request payload for preparing a broadcast batch.
type BroadcastDTO struct {
	Message       string  `json:"message"`
	DepartmentIDs []int64 `json:"department_ids,omitempty"`
}

func (d BroadcastDTO) Validate() error {
	if err := validation.ValidateBroadcastMessage(d.Message); err != nil {
		return err
	}
	for _, id := range d.DepartmentIDs {
		if id <= 0 {
			return internal.NewValidationFieldError("department_ids", "department IDs must be positive", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

// RecipientLink is one prepared wa.me link for a contact.
type RecipientLink struct {
	ContactID  int64  `json:"contact_id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Link       string `json:"link"`
}

// SkippedRecipient names a contact that could not be included in the batch.
type SkippedRecipient struct {
	ContactID int64  `json:"contact_id"`
	FullName  string `json:"full_name"`
	Reason    string `json:"reason"`
}

type BroadcastResponse struct {
	BatchID        string             `json:"batch_id"`
	Message        string             `json:"message"`
	RecipientCount int                `json:"recipient_count"`
	Recipients     []RecipientLink    `json:"recipients"`
	Skipped        []SkippedRecipient `json:"skipped,omitempty"`
}
