// Package tutorcrm предоставляет маршруты для основного приложения.
package tutorcrm

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/edulingo/tutorcrm/internal/http/handlers/auth/login"
	"github.com/edulingo/tutorcrm/internal/http/handlers/auth/register"
	"github.com/edulingo/tutorcrm/internal/http/handlers/dashboard/stats"
	"github.com/edulingo/tutorcrm/internal/http/handlers/health"
	paymentcreate "github.com/edulingo/tutorcrm/internal/http/handlers/payment/create"
	paymentlist "github.com/edulingo/tutorcrm/internal/http/handlers/payment/list"
	"github.com/edulingo/tutorcrm/internal/http/handlers/payment/revenue"
	"github.com/edulingo/tutorcrm/internal/http/handlers/schedule/precheck"
	"github.com/edulingo/tutorcrm/internal/http/handlers/schedule/validate"
	sessionlist "github.com/edulingo/tutorcrm/internal/http/handlers/session/list"
	"github.com/edulingo/tutorcrm/internal/http/handlers/session/updatestatus"
	studentcreate "github.com/edulingo/tutorcrm/internal/http/handlers/student/create"
	studentlist "github.com/edulingo/tutorcrm/internal/http/handlers/student/list"
	studentread "github.com/edulingo/tutorcrm/internal/http/handlers/student/read"
	"github.com/edulingo/tutorcrm/internal/http/handlers/subscription/changes"
	"github.com/edulingo/tutorcrm/internal/http/handlers/subscription/create"
	"github.com/edulingo/tutorcrm/internal/http/handlers/subscription/list"
	"github.com/edulingo/tutorcrm/internal/http/handlers/subscription/read"
	"github.com/edulingo/tutorcrm/internal/http/handlers/subscription/remove"
	"github.com/edulingo/tutorcrm/internal/http/handlers/subscription/update"
	teachercreate "github.com/edulingo/tutorcrm/internal/http/handlers/teacher/create"
	teacherlist "github.com/edulingo/tutorcrm/internal/http/handlers/teacher/list"
	"github.com/edulingo/tutorcrm/internal/http/middlewarectx"
	authservice "github.com/edulingo/tutorcrm/internal/services/auth"
	"github.com/edulingo/tutorcrm/internal/services/conflict"
	"github.com/edulingo/tutorcrm/internal/services/dashboard"
	paymentservice "github.com/edulingo/tutorcrm/internal/services/payment"
	"github.com/edulingo/tutorcrm/internal/services/registry"
	sessionservice "github.com/edulingo/tutorcrm/internal/services/session"
	subservice "github.com/edulingo/tutorcrm/internal/services/subscription"
)

// Services объединяет бизнес-сервисы, которые обслуживают маршруты приложения.
type Services struct {
	Auth         *authservice.AuthService
	Subscription *subservice.SubscriptionService
	Conflict     *conflict.Validator
	Precheck     *conflict.LiveChecker
	Session      *sessionservice.SessionService
	Registry     *registry.RegistryService
	Payment      *paymentservice.PaymentService
	Dashboard    *dashboard.DashboardService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/subscriptions", create.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, s.Subscription).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, s.Subscription).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, s.Subscription).ServeHTTP)
			r.Post("/subscriptions/{id}/changes", changes.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions/{id}/sessions", sessionlist.New(logger, s.Session).ServeHTTP)

			r.Post("/schedule/validate", validate.New(logger, s.Conflict).ServeHTTP)
			r.Post("/schedule/precheck", precheck.New(logger, s.Precheck).ServeHTTP)

			r.Patch("/sessions/{id}/status", updatestatus.New(logger, s.Session).ServeHTTP)

			r.Post("/students", studentcreate.New(logger, s.Registry).ServeHTTP)
			r.Get("/students", studentlist.New(logger, s.Registry).ServeHTTP)
			r.Get("/students/{id}", studentread.New(logger, s.Registry).ServeHTTP)
			r.Get("/students/{id}/payments", paymentlist.New(logger, s.Payment).ServeHTTP)

			r.Post("/teachers", teachercreate.New(logger, s.Registry).ServeHTTP)
			r.Get("/teachers", teacherlist.New(logger, s.Registry).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, s.Payment).ServeHTTP)
			r.Post("/payments/revenue", revenue.New(logger, s.Payment).ServeHTTP)

			r.Get("/dashboard/stats", stats.New(logger, s.Dashboard).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
