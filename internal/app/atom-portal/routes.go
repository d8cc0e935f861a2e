// Package atomportal собирает HTTP API портала клуба.
package atomportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/auth/completeinvite"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/checkin/scan"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/expenses/categories"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/expenses/categorycreate"
	expensecreate "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/expenses/create"
	expenselist "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/expenses/list"
	expenseremove "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/expenses/remove"
	freezecreate "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/freeze/create"
	freezelist "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/freeze/list"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/freeze/process"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/health"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/me/photo"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/me/profile"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/me/qr"
	membercreate "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/members/create"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/members/inactive"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/members/role"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/members/search"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/members/staff"
	memberstats "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/members/stats"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/notifications/contact"
	notificationlist "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/notifications/list"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/notifications/markread"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/notifications/send"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/notifications/sent"
	promotioncreate "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/promotions/create"
	promotionlist "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/promotions/list"
	promotionremove "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/promotions/remove"
	promotionupdate "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/promotions/update"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/reports/audit"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/reports/export"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/reports/notifyrun"
	reportstats "github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/reports/stats"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/store/ordercreate"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/store/orderlist"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/store/ordermessage"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/store/orderstatus"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/store/productcreate"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/store/productlist"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/store/productremove"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/store/productupdate"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/subscriptions/action"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/subscriptions/expire"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/subscriptions/issue"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/subscriptions/mine"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/metrics"
	"github.com/magabrotheeeer/atom-backoffice/internal/models"
	authsvc "github.com/magabrotheeeer/atom-backoffice/internal/services/auth"
	checkinsvc "github.com/magabrotheeeer/atom-backoffice/internal/services/checkin"
	expensessvc "github.com/magabrotheeeer/atom-backoffice/internal/services/expenses"
	freezesvc "github.com/magabrotheeeer/atom-backoffice/internal/services/freeze"
	memberssvc "github.com/magabrotheeeer/atom-backoffice/internal/services/members"
	notificationssvc "github.com/magabrotheeeer/atom-backoffice/internal/services/notifications"
	profilesvc "github.com/magabrotheeeer/atom-backoffice/internal/services/profile"
	promotionssvc "github.com/magabrotheeeer/atom-backoffice/internal/services/promotions"
	reminderssvc "github.com/magabrotheeeer/atom-backoffice/internal/services/reminders"
	reportssvc "github.com/magabrotheeeer/atom-backoffice/internal/services/reports"
	storesvc "github.com/magabrotheeeer/atom-backoffice/internal/services/store"
	subscriptionssvc "github.com/magabrotheeeer/atom-backoffice/internal/services/subscriptions"
)

// Services сервисы, которые обслуживает API.
type Services struct {
	Auth          *authsvc.Service
	Profile       *profilesvc.Service
	Members       *memberssvc.Service
	Subscriptions *subscriptionssvc.Service
	Checkin       *checkinsvc.Service
	Store         *storesvc.Service
	Notifications *notificationssvc.Service
	Freeze        *freezesvc.Service
	Promotions    *promotionssvc.Service
	Expenses      *expensessvc.Service
	Reports       *reportssvc.Service
	Reminders     *reminderssvc.Service
	Health        map[string]health.Pinger
}

// RouterDeps инфраструктура роутера.
type RouterDeps struct {
	Metrics      *metrics.Metrics
	Registry     *prometheus.Registry
	// LoginLimiter и ScanLimiter держат раздельные бакеты.
	LoginLimiter *middlewarectx.Limiter
	ScanLimiter  *middlewarectx.Limiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, deps RouterDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics(deps.Metrics),
	)

	r.Get("/health", health.New(logger, svc.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.With(middlewarectx.RateLimitMiddleware(logger, deps.LoginLimiter)).
			Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Post("/auth/complete-invite", completeinvite.New(logger, svc.Auth).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.Session(svc.Auth, logger))

			r.Post("/auth/logout", logout.New(logger, svc.Auth).ServeHTTP)

			r.Get("/me", profile.New(logger, svc.Profile).ServeHTTP)
			r.Get("/me/qr.png", qr.New(logger, svc.Profile).ServeHTTP)
			r.Post("/me/photo", photo.New(logger, svc.Profile).ServeHTTP)
			r.Get("/me/subscriptions", mine.New(logger, svc.Subscriptions).ServeHTTP)

			r.Get("/store/products", productlist.New(logger, svc.Store).ServeHTTP)
			r.Post("/store/orders", ordercreate.New(logger, svc.Store).ServeHTTP)
			r.Get("/store/orders", orderlist.New(logger, svc.Store).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, svc.Notifications).ServeHTTP)
			r.Post("/notifications/read", markread.New(logger, svc.Notifications).ServeHTTP)
			r.Post("/notifications/contact", contact.New(logger, svc.Notifications).ServeHTTP)

			r.Get("/freeze-requests", freezelist.New(logger, svc.Freeze).ServeHTTP)
			r.Post("/freeze-requests", freezecreate.New(logger, svc.Freeze).ServeHTTP)
			r.Patch("/freeze-requests/{id}", process.New(logger, svc.Freeze).ServeHTTP)

			r.Get("/promotions", promotionlist.New(logger, svc.Promotions).ServeHTTP)

			// Персонал
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.StaffRoles...))
				r.With(middlewarectx.RateLimitMiddleware(logger, deps.ScanLimiter)).
					Post("/checkin/scan", scan.New(logger, svc.Checkin).ServeHTTP)
				r.Get("/staff", staff.New(logger, svc.Members).ServeHTTP)
			})

			// Стойка администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.DeskRoles...))
				r.Post("/members", membercreate.New(logger, svc.Members).ServeHTTP)
				r.Get("/members/search", search.New(logger, svc.Members).ServeHTTP)
				r.Post("/subscriptions", issue.New(logger, svc.Subscriptions).ServeHTTP)
			})

			// Администраторы
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.AdminRoles...))
				r.Get("/members/inactive", inactive.New(logger, svc.Members).ServeHTTP)
				r.Get("/members/stats", memberstats.New(logger, svc.Members).ServeHTTP)
				r.Post("/members/role", role.New(logger, svc.Members).ServeHTTP)

				r.Post("/subscriptions/action", action.New(logger, svc.Subscriptions).ServeHTTP)
				r.Post("/subscriptions/expire", expire.New(logger, svc.Subscriptions).ServeHTTP)

				r.Post("/store/orders/{id}/messages", ordermessage.New(logger, svc.Store).ServeHTTP)

				r.Post("/notifications", send.New(logger, svc.Notifications).ServeHTTP)
				r.Get("/notifications/sent", sent.New(logger, svc.Notifications).ServeHTTP)

				r.Get("/expenses/categories", categories.New(logger, svc.Expenses).ServeHTTP)
				r.Post("/expenses/categories", categorycreate.New(logger, svc.Expenses).ServeHTTP)
				r.Get("/expenses", expenselist.New(logger, svc.Expenses).ServeHTTP)
				r.Post("/expenses", expensecreate.New(logger, svc.Expenses).ServeHTTP)
				r.Delete("/expenses/{id}", expenseremove.New(logger, svc.Expenses).ServeHTTP)

				r.Get("/reports/stats", reportstats.New(logger, svc.Reports).ServeHTTP)
				r.Get("/reports/export/{kind}", export.New(logger, svc.Reports).ServeHTTP)
				r.Get("/reports/audit", audit.New(logger, svc.Reports).ServeHTTP)
				r.Post("/reports/notify-run", notifyrun.New(logger, svc.Reminders).ServeHTTP)
			})

			// Только super_admin
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoles(logger, models.RoleSuperAdmin))
				r.Post("/store/products", productcreate.New(logger, svc.Store).ServeHTTP)
				r.Patch("/store/products/{id}", productupdate.New(logger, svc.Store).ServeHTTP)
				r.Delete("/store/products/{id}", productremove.New(logger, svc.Store).ServeHTTP)
				r.Patch("/store/orders/{id}/status", orderstatus.New(logger, svc.Store).ServeHTTP)

				r.Post("/promotions", promotioncreate.New(logger, svc.Promotions).ServeHTTP)
				r.Put("/promotions/{id}", promotionupdate.New(logger, svc.Promotions).ServeHTTP)
				r.Delete("/promotions/{id}", promotionremove.New(logger, svc.Promotions).ServeHTTP)
			})
		})
	})
}
