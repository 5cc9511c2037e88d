package auth_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/campussrc/src-portal/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRBACAuthorization(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RBAC Authorization Suite")
}

var _ = Describe("RBACAuthorization", func() {
	var (
		rbac *auth.RBACAuthorization
		next http.Handler
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		checker := auth.NewPermissionChecker().(*auth.DefaultPermissionChecker)
		rbac = auth.NewRBACAuthorization(checker, lg)
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	requestAs := func(permissions []string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/budget/categories", nil)
		user := &auth.User{ID: 1, Email: "user@src.example", Permissions: permissions}
		return req.WithContext(auth.ContextWithUser(req.Context(), user))
	}

	Describe("RequireBudgetCreateOrUpdate", func() {
		It("should allow a user holding only budget:create", func() {
			rec := httptest.NewRecorder()
			rbac.RequireBudgetCreateOrUpdate()(next).ServeHTTP(rec, requestAs([]string{"budget:create"}))
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should allow a user holding only budget:update", func() {
			rec := httptest.NewRecorder()
			rbac.RequireBudgetCreateOrUpdate()(next).ServeHTTP(rec, requestAs([]string{"budget:update"}))
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should allow admins", func() {
			rec := httptest.NewRecorder()
			rbac.RequireBudgetCreateOrUpdate()(next).ServeHTTP(rec, requestAs([]string{"admin"}))
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("should forbid a read-only user", func() {
			rec := httptest.NewRecorder()
			rbac.RequireBudgetCreateOrUpdate()(next).ServeHTTP(rec, requestAs([]string{"budget:read"}))
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should reject requests with no user in context", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/budget/categories", nil)
			rbac.RequireBudgetCreateOrUpdate()(next).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("RequireBudgetDelete", func() {
		It("should forbid a user without the delete permission", func() {
			rec := httptest.NewRecorder()
			rbac.RequireBudgetDelete()(next).ServeHTTP(rec, requestAs([]string{"budget:create", "budget:update"}))
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should allow a user holding budget:delete", func() {
			rec := httptest.NewRecorder()
			rbac.RequireBudgetDelete()(next).ServeHTTP(rec, requestAs([]string{"budget:delete"}))
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})
