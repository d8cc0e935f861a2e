package rabbitmq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcquire(t *testing.T) {
	t.Run("свободный слот", func(t *testing.T) {
		sem := make(chan struct{}, 1)
		assert.True(t, acquire(context.Background(), sem))
		assert.Len(t, sem, 1)
	})

	t.Run("отмена при занятых слотах", func(t *testing.T) {
		sem := make(chan struct{}, 1)
		sem <- struct{}{}
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan bool)
		go func() { done <- acquire(ctx, sem) }()
		cancel()

		select {
		case ok := <-done:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("acquire blocked after cancel")
		}
	})
}
