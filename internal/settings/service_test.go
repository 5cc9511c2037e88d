package settings_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/campussrc/src-portal/internal"
	"github.com/campussrc/src-portal/internal/settings"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSettingsService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Settings Service Suite")
}

type MockRepository struct {
	store map[string]*settings.Setting
}

func NewMockRepository() *MockRepository {
	return &MockRepository{store: make(map[string]*settings.Setting)}
}

func (m *MockRepository) GetAll() ([]*settings.Setting, error) {
	var all []*settings.Setting
	for _, s := range m.store {
		all = append(all, s)
	}
	return all, nil
}

func (m *MockRepository) GetByKey(key string) (*settings.Setting, error) {
	s, exists := m.store[key]
	if !exists {
		return nil, nil
	}
	return s, nil
}

func (m *MockRepository) Upsert(key, value string, updatedBy int64) (*settings.Setting, error) {
	s := &settings.Setting{Key: key, Value: value, UpdatedBy: updatedBy}
	m.store[key] = s
	return s, nil
}

var _ = Describe("Settings Service", func() {
	var (
		mockRepo *MockRepository
		service  *settings.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = settings.NewService(mockRepo, lg)
	})

	Describe("GetByKey", func() {
		It("should return not found for a missing key", func() {
			_, err := service.GetByKey("portal.title")
			Expect(err).To(Equal(internal.ErrSettingNotFound))
		})

		It("should return a stored setting", func() {
			mockRepo.store["portal.title"] = &settings.Setting{Key: "portal.title", Value: "SRC Portal"}

			s, err := service.GetByKey("portal.title")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Value).To(Equal("SRC Portal"))
		})
	})

	Describe("Update", func() {
		It("should store the value for permitted users", func() {
			s, err := service.Update(7, []string{"settings:update"}, "portal.title", settings.UpdateSettingDTO{Value: "New Title"})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Value).To(Equal("New Title"))
			Expect(s.UpdatedBy).To(Equal(int64(7)))
		})

		It("should allow admins", func() {
			_, err := service.Update(7, []string{"admin"}, "portal.title", settings.UpdateSettingDTO{Value: "x"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should deny users without the update permission", func() {
			_, err := service.Update(7, []string{"budget:read"}, "portal.title", settings.UpdateSettingDTO{Value: "x"})
			Expect(err).To(Equal(internal.ErrUnauthorizedAccess))
			Expect(mockRepo.store).To(BeEmpty())
		})
	})
})
