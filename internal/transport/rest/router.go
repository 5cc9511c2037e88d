package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/campussrc/src-portal/internal/activity"
	"github.com/campussrc/src-portal/internal/auth"
	"github.com/campussrc/src-portal/internal/budget"
	"github.com/campussrc/src-portal/internal/department"
	"github.com/campussrc/src-portal/internal/messaging"
	"github.com/campussrc/src-portal/internal/settings"
	"github.com/campussrc/src-portal/internal/transport/middleware"
	"github.com/campussrc/src-portal/internal/transport/swagger"
	"github.com/campussrc/src-portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, authService *auth.Service, userHandler *user.Handler, budgetHandler *budget.Handler, departmentHandler *department.Handler, messagingHandler *messaging.Handler, settingsHandler *settings.Handler, activityHandler *activity.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	rbac := authService.RBACAuthorization()

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// Budget ledger routes
				if budgetHandler != nil {
					pr.Route("/budget", func(br chi.Router) {
						br.Group(func(rr chi.Router) {
							rr.Use(rbac.RequireBudgetRead())
							rr.Get("/", budgetHandler.GetOverview)
						})

						br.Route("/categories", func(cr chi.Router) {
							cr.Group(func(mr chi.Router) {
								mr.Use(rbac.RequireBudgetCreateOrUpdate())
								mr.Post("/", budgetHandler.CreateCategory)
							})

							cr.Group(func(mr chi.Router) {
								mr.Use(rbac.RequireBudgetUpdate())
								mr.Put("/{id}", budgetHandler.UpdateCategory)
							})

							cr.Group(func(mr chi.Router) {
								mr.Use(rbac.RequireBudgetDelete())
								mr.Delete("/{id}", budgetHandler.DeleteCategory)
							})
						})
					})
				}

				// Department directory (read-only)
				if departmentHandler != nil {
					pr.Get("/departments", departmentHandler.GetDepartments)
					pr.Get("/departments/{id}", departmentHandler.GetDepartment)
				}

				// Broadcast preparation
				if messagingHandler != nil {
					pr.Group(func(mr chi.Router) {
						mr.Use(rbac.RequireBroadcast())
						mr.Post("/broadcasts", messagingHandler.CreateBroadcast)
					})
				}

				// Portal settings
				if settingsHandler != nil {
					pr.Get("/settings", settingsHandler.GetSettings)
					pr.Get("/settings/{key}", settingsHandler.GetSetting)

					pr.Group(func(sr chi.Router) {
						sr.Use(rbac.RequireSettingsUpdate())
						sr.Put("/settings/{key}", settingsHandler.UpdateSetting)
					})
				}

				// Audit trail
				if activityHandler != nil {
					pr.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireActivityRead())
						ar.Get("/activity", activityHandler.GetActivity)
					})
				}
			})
		}
	})
}
