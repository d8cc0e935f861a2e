package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// PublishMessage сериализует message в JSON и публикует его как persistent.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(exchange, routingkey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher публикует письма в очередь напоминаний.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher оборачивает канал.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishEmail ставит письмо в очередь reminders.email.
func (p *Publisher) PublishEmail(ctx context.Context, job any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return PublishMessage(p.ch, ExchangeName, EmailRoutingKey, job)
}
