// Package rabbitmq содержит подключение к RabbitMQ, объявление очередей,
// публикацию и потребление сообщений очереди напоминаний.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/streadway/amqp"
)

// Connect подключается к брокеру, повторяя попытку retries раз с паузой delay.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	if retries < 1 {
		retries = 1
	}

	var conn *amqp.Connection
	operation := func() error {
		var err error
		conn, err = amqp.Dial(connection)
		return err
	}
	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(retries-1))
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return conn, nil
}
