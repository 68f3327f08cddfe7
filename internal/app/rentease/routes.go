// Package rentease предоставляет маршруты для основного приложения.
package rentease

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/renteaseone/rentease-backend/internal/http/handlers/auth/chooserole"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/auth/forgotpassword"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/auth/login"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/auth/me"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/auth/photoupload"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/auth/register"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/auth/resetpassword"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/health"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/landlord/bankdetails"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/landlord/complaintlist"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/landlord/remindrent"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/landlord/setrent"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/landlord/tenantlist"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/landlord/tenantremove"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/landlord/triggeralarm"
	notificationlist "github.com/renteaseone/rentease-backend/internal/http/handlers/notification/list"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/notification/markread"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/notification/stream"
	paymentlist "github.com/renteaseone/rentease-backend/internal/http/handlers/payment/list"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/payment/verify"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/push/subscribe"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/push/unsubscribe"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/push/vapidkey"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/receipt/download"
	receiptlist "github.com/renteaseone/rentease-backend/internal/http/handlers/receipt/list"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/receipt/upload"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/tenant/complaintcreate"
	"github.com/renteaseone/rentease-backend/internal/http/handlers/tenant/connect"
	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	"github.com/renteaseone/rentease-backend/internal/presence"
	authservice "github.com/renteaseone/rentease-backend/internal/services/auth"
	landlordservice "github.com/renteaseone/rentease-backend/internal/services/landlord"
	notificationservice "github.com/renteaseone/rentease-backend/internal/services/notification"
	paymentservice "github.com/renteaseone/rentease-backend/internal/services/payment"
	receiptservice "github.com/renteaseone/rentease-backend/internal/services/receipt"
	tenantservice "github.com/renteaseone/rentease-backend/internal/services/tenant"
)

// Services объединяет зависимости, нужные для регистрации маршрутов.
type Services struct {
	Auth         *authservice.AuthService
	Tenant       *tenantservice.TenantService
	Landlord     *landlordservice.LandlordService
	Payment      *paymentservice.PaymentService
	Receipt      *receiptservice.ReceiptService
	Notification *notificationservice.NotificationService
	Hub          *presence.Hub
	Limiter      *rate.Limiter
	UploadsDir   string
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

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/forgot-password", forgotpassword.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/reset-password", resetpassword.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(s.Limiter, logger))

			r.Post("/auth/choose-role", chooserole.New(logger, s.Auth).ServeHTTP)
			r.Get("/me", me.New(logger, s.Auth).ServeHTTP)
			r.Post("/me/photo", photoupload.New(logger, s.Auth, s.UploadsDir).ServeHTTP)

			// Операции арендатора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireTenant(logger))
				r.Post("/tenants/connect", connect.New(logger, s.Tenant).ServeHTTP)
				r.Post("/tenants/complaints", complaintcreate.New(logger, s.Tenant).ServeHTTP)
				r.Post("/payments/verify", verify.New(logger, s.Payment).ServeHTTP)
				r.Post("/receipts/upload", upload.New(logger, s.Receipt).ServeHTTP)
			})

			// Операции арендодателя
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireLandlord(logger))
				r.Get("/landlord/tenants", tenantlist.New(logger, s.Landlord).ServeHTTP)
				r.Delete("/landlord/tenants/{id}", tenantremove.New(logger, s.Landlord).ServeHTTP)
				r.Post("/landlord/tenants/{id}/set-rent", setrent.New(logger, s.Landlord).ServeHTTP)
				r.Post("/landlord/tenants/{id}/remind-rent", remindrent.New(logger, s.Landlord).ServeHTTP)
				r.Post("/landlord/tenants/{id}/trigger-alarm", triggeralarm.New(logger, s.Landlord).ServeHTTP)
				r.Post("/landlord/bank-details", bankdetails.NewSave(logger, s.Landlord).ServeHTTP)
				r.Get("/landlord/bank-details", bankdetails.NewGet(logger, s.Landlord).ServeHTTP)
				r.Get("/landlord/complaints", complaintlist.New(logger, s.Landlord).ServeHTTP)
				r.Get("/receipts/all", receiptlist.New(logger, s.Receipt).ServeHTTP)
				r.Get("/receipts/download/{id}", download.New(logger, s.Receipt).ServeHTTP)
			})

			// Общие для обеих ролей
			r.Get("/payments/my", paymentlist.New(logger, s.Payment).ServeHTTP)
			r.Get("/notifications", notificationlist.New(logger, s.Notification).ServeHTTP)
			r.Post("/notifications/{id}/read", markread.New(logger, s.Notification).ServeHTTP)
			r.Get("/notifications/stream", stream.New(logger, s.Hub).ServeHTTP)
			r.Get("/push/vapid-key", vapidkey.New(logger, s.Notification).ServeHTTP)
			r.Post("/push/subscribe", subscribe.New(logger, s.Notification).ServeHTTP)
			r.Post("/push/unsubscribe", unsubscribe.New(logger, s.Notification).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
