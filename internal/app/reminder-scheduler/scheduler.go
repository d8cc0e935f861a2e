// Package reminderscheduler периодически ищет абонементы для напоминаний и ставит письма в очередь.
package reminderscheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/atom-backoffice/internal/config"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/metrics"
	reminderssvc "github.com/magabrotheeeer/atom-backoffice/internal/services/reminders"
	"github.com/magabrotheeeer/atom-backoffice/internal/storage"
)

// App представляет приложение планировщика.
type App struct {
	reminders *reminderssvc.Service
	interval  time.Duration
	db        *storage.Storage
	conn      *amqp.Connection
	ch        *amqp.Channel
	logger    *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.Connect(ctx, cfg.StorageConnectionString, cfg.StorageMaxRetries, cfg.StorageRetryDelay)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		closeResources(ch, conn, logger)
		return nil, err
	}

	m := metrics.New(prometheus.NewRegistry())
	reminders := reminderssvc.NewService(db, rabbitmq.NewPublisher(ch), m, cfg.Location(), logger)

	return &App{
		reminders: reminders,
		interval:  cfg.ReminderInterval,
		db:        db,
		conn:      conn,
		ch:        ch,
		logger:    logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("reminder scheduler started", slog.Duration("interval", a.interval))
	a.reminders.Schedule(ctx, a.interval)

	a.logger.Info("shutting down reminder scheduler")
	closeResources(a.ch, a.conn, a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
