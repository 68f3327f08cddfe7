// Package rentease собирает основное HTTP-приложение: хранилище, кеш,
// платёжный шлюз, web-push и все бизнес-сервисы.
package rentease

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/time/rate"

	"github.com/renteaseone/rentease-backend/internal/cache"
	"github.com/renteaseone/rentease-backend/internal/config"
	"github.com/renteaseone/rentease-backend/internal/lib/jwt"
	"github.com/renteaseone/rentease-backend/internal/lib/smtp"
	"github.com/renteaseone/rentease-backend/internal/migrations"
	"github.com/renteaseone/rentease-backend/internal/paygate"
	"github.com/renteaseone/rentease-backend/internal/presence"
	"github.com/renteaseone/rentease-backend/internal/push"
	authservice "github.com/renteaseone/rentease-backend/internal/services/auth"
	landlordservice "github.com/renteaseone/rentease-backend/internal/services/landlord"
	notificationservice "github.com/renteaseone/rentease-backend/internal/services/notification"
	paymentservice "github.com/renteaseone/rentease-backend/internal/services/payment"
	receiptservice "github.com/renteaseone/rentease-backend/internal/services/receipt"
	tenantservice "github.com/renteaseone/rentease-backend/internal/services/tenant"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// App представляет основное HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение: подключает зависимости, накатывает миграции
// и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	mailer := smtp.NewMailer(smtp.NewTransport(cfg, logger))
	hub := presence.NewHub()
	pusher := push.NewSender(cfg.WebPush)
	gateway := paygate.NewClient(cfg.PaystackSecretKey, cfg.PaystackAPIURL, cfg.PaystackTimeout)

	notificationService := notificationservice.NewNotificationService(db, hub, pusher, logger)
	authService := authservice.NewAuthService(db, cacheRedis, mailer, jwtMaker, logger)
	tenantService := tenantservice.NewTenantService(db, cacheRedis, notificationService, logger)
	landlordService := landlordservice.NewLandlordService(db, cacheRedis, notificationService, logger)
	paymentService := paymentservice.NewPaymentService(gateway, db, cacheRedis, notificationService, logger)
	receiptService := receiptservice.NewReceiptService(db, cfg.UploadsDir, logger)

	limiter := rate.NewLimiter(rate.Every(time.Second/50), 100)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Tenant:       tenantService,
		Landlord:     landlordService,
		Payment:      paymentService,
		Receipt:      receiptService,
		Notification: notificationService,
		Hub:          hub,
		Limiter:      limiter,
		UploadsDir:   cfg.UploadsDir,
	})

	srv := &http.Server{
		Addr:        cfg.AddressHTTP,
		Handler:     router,
		ReadTimeout: cfg.TimeoutHTTP,
		// WriteTimeout не задан: поток /notifications/stream держится открытым.
		IdleTimeout: cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и ждет сигнала завершения.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
