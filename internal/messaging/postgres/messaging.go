package postgres

import (
	"github.com/campussrc/src-portal/internal/messaging"
	"gorm.io/gorm"
)

type MessagingRepository struct {
	db *gorm.DB
}

func NewMessagingRepository(db *gorm.DB) messaging.Repository {
	return &MessagingRepository{db: db}
}

const recipientQuery = `
	SELECT dc.id AS contact_id, dc.full_name, d.name AS department, dc.phone
	FROM department_contacts dc
	JOIN departments d ON d.id = dc.department_id
	WHERE d.is_active = true`

func (r *MessagingRepository) RecipientsForDepartments(departmentIDs []int64) ([]messaging.Recipient, error) {
	var recipients []messaging.Recipient
	err := r.db.Raw(recipientQuery+` AND dc.department_id IN ? ORDER BY dc.full_name`, departmentIDs).
		Scan(&recipients).Error
	return recipients, err
}

func (r *MessagingRepository) AllRecipients() ([]messaging.Recipient, error) {
	var recipients []messaging.Recipient
	err := r.db.Raw(recipientQuery + ` ORDER BY dc.full_name`).Scan(&recipients).Error
	return recipients, err
}
