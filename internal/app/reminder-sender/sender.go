// Package remindersender читает очередь писем-напоминаний и отправляет их по SMTP.
package remindersender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/atom-backoffice/internal/config"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/smtp"
	reminderssvc "github.com/magabrotheeeer/atom-backoffice/internal/services/reminders"
)

// App отправитель напоминаний.
type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *reminderssvc.Sender
	logger *slog.Logger
}

// New подключается к брокеру и собирает отправителя.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	mailer := smtp.NewMailer(smtp.NewTransport(cfg.SMTP, logger), logger)

	return &App{
		conn:   conn,
		ch:     ch,
		sender: reminderssvc.NewSender(mailer, cfg.SendTimeout, logger),
		logger: logger,
	}, nil
}

// Run потребляет очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.EmailQueue, a.sender.Handle)
	if err != nil {
		a.logger.Error("failed to start reminders consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
