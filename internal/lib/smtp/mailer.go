package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/textproto"
	"strings"

	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
)

// Mailer отправляет текстовые письма через транспорт.
type Mailer struct {
	transport TransportInterface
	log       *slog.Logger
}

// NewMailer создаёт Mailer.
func NewMailer(transport TransportInterface, log *slog.Logger) *Mailer {
	return &Mailer{transport: transport, log: log}
}

// IsPermanent сообщает, что сервер отклонил письмо кодом 5xx и повтор не поможет.
func IsPermanent(err error) bool {
	var te *textproto.Error
	return errors.As(err, &te) && te.Code >= 500 && te.Code < 600
}

// BuildMessage собирает письмо в формате RFC 5322.
func BuildMessage(from string, to []string, subject, body string) string {
	return strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")
}

// Send отправляет одно письмо.
func (m *Mailer) Send(ctx context.Context, to []string, subject, body string) error {
	const op = "smtp.Send"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	from := m.transport.GetSMTPUser()
	log := m.log.With(slog.String("op", op), slog.Any("to", to))

	client, err := m.transport.Connect()
	if err != nil {
		log.Error("failed to connect to SMTP server", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		log.Error("failed to set MAIL FROM", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = wc.Write([]byte(BuildMessage(from, to, subject, body))); err != nil {
		_ = wc.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Quit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email sent")
	return nil
}
