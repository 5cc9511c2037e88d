package messaging_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/campussrc/src-portal/internal"
	"github.com/campussrc/src-portal/internal/messaging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMessagingService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Messaging Service Suite")
}

type MockRepository struct {
	recipients []messaging.Recipient
	shouldFail bool
	failError  error
}

func (m *MockRepository) RecipientsForDepartments(departmentIDs []int64) ([]messaging.Recipient, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.recipients, nil
}

func (m *MockRepository) AllRecipients() ([]messaging.Recipient, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.recipients, nil
}

type MockDispatcher struct {
	jobs []messaging.BroadcastJob
}

func (m *MockDispatcher) Enqueue(job messaging.BroadcastJob) error {
	m.jobs = append(m.jobs, job)
	return nil
}

var _ = Describe("NormalizePhone", func() {
	It("should strip separators and keep international numbers", func() {
		phone, err := messaging.NormalizePhone("+27 82 123 0001", "27")
		Expect(err).NotTo(HaveOccurred())
		Expect(phone).To(Equal("27821230001"))
	})

	It("should strip a 00 international dialing prefix", func() {
		phone, err := messaging.NormalizePhone("0027821230001", "27")
		Expect(err).NotTo(HaveOccurred())
		Expect(phone).To(Equal("27821230001"))
	})

	It("should replace a leading zero with the default country code", func() {
		phone, err := messaging.NormalizePhone("0821230001", "27")
		Expect(err).NotTo(HaveOccurred())
		Expect(phone).To(Equal("27821230001"))
	})

	It("should tolerate dashes and parentheses", func() {
		phone, err := messaging.NormalizePhone("(082) 123-0001", "27")
		Expect(err).NotTo(HaveOccurred())
		Expect(phone).To(Equal("27821230001"))
	})

	It("should reject letters", func() {
		_, err := messaging.NormalizePhone("08212abc01", "27")
		Expect(err).To(HaveOccurred())
	})

	It("should reject empty input", func() {
		_, err := messaging.NormalizePhone("   ", "27")
		Expect(err).To(HaveOccurred())
	})

	It("should reject numbers that are too short", func() {
		_, err := messaging.NormalizePhone("12345", "27")
		Expect(err).To(HaveOccurred())
	})

	It("should reject numbers that are too long", func() {
		_, err := messaging.NormalizePhone("1234567890123456", "27")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Messaging Service", func() {
	var (
		mockRepo   *MockRepository
		dispatcher *MockDispatcher
		service    *messaging.Service
	)

	senderPerms := []string{"messaging:send"}

	BeforeEach(func() {
		mockRepo = &MockRepository{}
		dispatcher = &MockDispatcher{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = messaging.NewService(mockRepo, dispatcher, lg, internal.MessagingConfig{
			DefaultCountryCode: "27",
			LinkBaseURL:        "https://wa.me",
		})
	})

	Describe("PrepareBroadcast", func() {
		BeforeEach(func() {
			mockRepo.recipients = []messaging.Recipient{
				{ContactID: 1, FullName: "Naledi Mokoena", Department: "Finance", Phone: "+27821230001"},
				{ContactID: 2, FullName: "Sipho Dlamini", Department: "Finance", Phone: "0821230002"},
			}
		})

		It("should build one wa.me link per recipient", func() {
			result, err := service.PrepareBroadcast(1, senderPerms, messaging.BroadcastDTO{
				Message: "Budget meeting at 14:00",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.BatchID).NotTo(BeEmpty())
			Expect(result.RecipientCount).To(Equal(2))
			Expect(result.Recipients[0].Link).To(Equal("https://wa.me/27821230001?text=Budget+meeting+at+14%3A00"))
			Expect(result.Recipients[1].Phone).To(Equal("27821230002"))
		})

		It("should enqueue one job per link", func() {
			_, err := service.PrepareBroadcast(1, senderPerms, messaging.BroadcastDTO{Message: "hello"})
			Expect(err).NotTo(HaveOccurred())
			Expect(dispatcher.jobs).To(HaveLen(2))
			Expect(dispatcher.jobs[0].QueuedBy).To(Equal(int64(1)))
		})

		It("should de-duplicate recipients sharing a number", func() {
			mockRepo.recipients = append(mockRepo.recipients, messaging.Recipient{
				ContactID: 3, FullName: "Naledi Mokoena", Department: "Events", Phone: "0821230001",
			})

			result, err := service.PrepareBroadcast(1, senderPerms, messaging.BroadcastDTO{Message: "hello"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RecipientCount).To(Equal(2))
		})

		It("should report contacts without usable numbers in the skip list", func() {
			mockRepo.recipients = append(mockRepo.recipients,
				messaging.Recipient{ContactID: 3, FullName: "Lerato Molefe", Department: "Communications", Phone: ""},
				messaging.Recipient{ContactID: 4, FullName: "Bad Number", Department: "Events", Phone: "12ab"},
			)

			result, err := service.PrepareBroadcast(1, senderPerms, messaging.BroadcastDTO{Message: "hello"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.RecipientCount).To(Equal(2))
			Expect(result.Skipped).To(HaveLen(2))
			Expect(result.Skipped[0].Reason).To(Equal("no phone number on record"))
			Expect(result.Skipped[1].Reason).To(Equal("invalid phone number"))
		})

		It("should fail when no recipient has a usable number", func() {
			mockRepo.recipients = []messaging.Recipient{
				{ContactID: 1, FullName: "Lerato Molefe", Phone: ""},
			}

			_, err := service.PrepareBroadcast(1, senderPerms, messaging.BroadcastDTO{Message: "hello"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeNoRecipients))
		})

		It("should deny access without the send permission", func() {
			_, err := service.PrepareBroadcast(1, []string{"budget:read"}, messaging.BroadcastDTO{Message: "hello"})
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
		})

		It("should reject an empty message", func() {
			_, err := service.PrepareBroadcast(1, senderPerms, messaging.BroadcastDTO{Message: ""})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})
})
