package messaging

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/campussrc/src-portal/internal"
	"github.com/google/uuid"
)

const PermissionSend = "messaging:send"

// Recipient is a department contact eligible for a broadcast.
type Recipient struct {
	ContactID  int64
	FullName   string
	Department string
	Phone      string
}

type Repository interface {
	RecipientsForDepartments(departmentIDs []int64) ([]Recipient, error)
	AllRecipients() ([]Recipient, error)
}

type Dispatcher interface {
	Enqueue(job BroadcastJob) error
}

type Service struct {
	repo               Repository
	dispatcher         Dispatcher
	logger             *slog.Logger
	defaultCountryCode string
	linkBaseURL        string
}

func NewService(repo Repository, dispatcher Dispatcher, logger *slog.Logger, cfg internal.MessagingConfig) *Service {
	countryCode := cfg.DefaultCountryCode
	if countryCode == "" {
		countryCode = "27"
	}
	baseURL := cfg.LinkBaseURL
	if baseURL == "" {
		baseURL = "https://wa.me"
	}
	return &Service{
		repo:               repo,
		dispatcher:         dispatcher,
		logger:             logger,
		defaultCountryCode: countryCode,
		linkBaseURL:        baseURL,
	}
}

// PrepareBroadcast resolves recipients, normalizes their phone numbers and
// builds one wa.me link per contact. Contacts with unusable numbers are
// reported in the skip list instead of failing the batch.
func (s *Service) PrepareBroadcast(userID int64, userPermissions []string, dto BroadcastDTO) (*BroadcastResponse, error) {
	if !hasAnyPermission(userPermissions, []string{PermissionSend, "admin"}) {
		s.logger.Warn("PrepareBroadcast: permission denied", "user_id", userID)
		return nil, internal.ErrUnauthorizedAccess
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var recipients []Recipient
	var err error
	if len(dto.DepartmentIDs) > 0 {
		recipients, err = s.repo.RecipientsForDepartments(dto.DepartmentIDs)
	} else {
		recipients, err = s.repo.AllRecipients()
	}
	if err != nil {
		s.logger.Error("PrepareBroadcast: failed to resolve recipients", "error", err)
		return nil, internal.NewInternalError("failed to resolve broadcast recipients", err)
	}

	batchID := uuid.NewString()
	encodedMessage := url.QueryEscape(dto.Message)

	seen := make(map[string]bool, len(recipients))
	links := make([]RecipientLink, 0, len(recipients))
	var skipped []SkippedRecipient

	for _, rec := range recipients {
		if rec.Phone == "" {
			skipped = append(skipped, SkippedRecipient{
				ContactID: rec.ContactID,
				FullName:  rec.FullName,
				Reason:    "no phone number on record",
			})
			continue
		}

		phone, err := NormalizePhone(rec.Phone, s.defaultCountryCode)
		if err != nil {
			skipped = append(skipped, SkippedRecipient{
				ContactID: rec.ContactID,
				FullName:  rec.FullName,
				Reason:    "invalid phone number",
			})
			continue
		}

		// one link per number even when a contact appears in several departments
		if seen[phone] {
			continue
		}
		seen[phone] = true

		link := RecipientLink{
			ContactID:  rec.ContactID,
			FullName:   rec.FullName,
			Department: rec.Department,
			Phone:      phone,
			Link:       fmt.Sprintf("%s/%s?text=%s", s.linkBaseURL, phone, encodedMessage),
		}
		links = append(links, link)

		if s.dispatcher != nil {
			job := BroadcastJob{
				BatchID:  batchID,
				Contact:  rec.FullName,
				Phone:    phone,
				Link:     link.Link,
				QueuedBy: userID,
			}
			if err := s.dispatcher.Enqueue(job); err != nil {
				s.logger.Warn("PrepareBroadcast: dispatch queue full",
					"batch_id", batchID, "contact_id", rec.ContactID, "error", err)
			}
		}
	}

	if len(links) == 0 {
		return nil, internal.NewValidationError("no recipients with usable phone numbers", internal.ErrCodeNoRecipients)
	}

	s.logger.Info("PrepareBroadcast: batch prepared",
		"batch_id", batchID,
		"user_id", userID,
		"recipients", len(links),
		"skipped", len(skipped))

	return &BroadcastResponse{
		BatchID:        batchID,
		Message:        dto.Message,
		RecipientCount: len(links),
		Recipients:     links,
		Skipped:        skipped,
	}, nil
}

func hasAnyPermission(userPermissions, required []string) bool {
	for _, userPerm := range userPermissions {
		for _, requiredPerm := range required {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}
