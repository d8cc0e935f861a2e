package atomportal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/atom-backoffice/internal/cache"
	"github.com/magabrotheeeer/atom-backoffice/internal/config"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/handlers/health"
	"github.com/magabrotheeeer/atom-backoffice/internal/http/middlewarectx"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/jwt"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/smtp"
	"github.com/magabrotheeeer/atom-backoffice/internal/metrics"
	"github.com/magabrotheeeer/atom-backoffice/internal/migrations"
	"github.com/magabrotheeeer/atom-backoffice/internal/objectstore"
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
	"github.com/magabrotheeeer/atom-backoffice/internal/storage"
)

// ShutdownTimeout время на завершение активных запросов.
const ShutdownTimeout = 15 * time.Second

// App HTTP API портала.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New поднимает зависимости, применяет миграции и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.Connect(ctx, cfg.StorageConnectionString, cfg.StorageMaxRetries, cfg.StorageRetryDelay)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	photos, err := objectstore.New(ctx, cfg.ObjectStorage, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	loc := cfg.Location()
	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.InviteTTL)
	mailer := smtp.NewMailer(smtp.NewTransport(cfg.SMTP, logger), logger)

	auth := authsvc.NewService(db, cacheRedis, jwtMaker, logger)
	services := Services{
		Auth:          auth,
		Profile:       profilesvc.NewService(db, photos, auth, loc, logger),
		Members:       memberssvc.NewService(db, jwtMaker, mailer, auth, cfg.AppURL, loc, logger),
		Subscriptions: subscriptionssvc.NewService(db, loc, logger),
		Checkin:       checkinsvc.NewService(db, m, loc, logger),
		Store:         storesvc.NewService(db, m, logger),
		Notifications: notificationssvc.NewService(db, m, logger),
		Freeze:        freezesvc.NewService(db, loc, logger),
		Promotions:    promotionssvc.NewService(db, loc, logger),
		Expenses:      expensessvc.NewService(db, loc, logger),
		Reports:       reportssvc.NewService(db, cacheRedis, loc, logger),
		Reminders:     reminderssvc.NewService(db, rabbitmq.NewPublisher(ch), m, loc, logger),
		Health: map[string]health.Pinger{
			"postgres": db,
			"redis":    cacheRedis,
		},
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, RouterDeps{
		Metrics:      m,
		Registry:     registry,
		LoginLimiter: middlewarectx.NewLimiter(cfg.RPS, cfg.Burst),
		ScanLimiter:  middlewarectx.NewLimiter(cfg.RPS, cfg.Burst),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем мягко останавливает сервер.
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
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
