package middlewarectx

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_SweepsIdleVisitors(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	l := NewLimiter(1, 1)
	l.now = func() time.Time { return now }

	for i := range 5 {
		assert.True(t, l.Allow(fmt.Sprintf("10.0.0.%d", i)))
	}
	assert.Equal(t, 5, l.Len())

	// до следующей чистки клиенты сохраняются
	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("10.0.1.1"))
	assert.Equal(t, 6, l.Len())

	now = now.Add(idleTTL + time.Second)
	assert.True(t, l.Allow("10.0.2.1"))
	assert.Equal(t, 1, l.Len())
}

func TestLimiter_SeparateInstancesDoNotShareBuckets(t *testing.T) {
	login := NewLimiter(1, 1)
	scan := NewLimiter(1, 1)

	assert.True(t, scan.Allow("10.0.0.1"))
	assert.False(t, scan.Allow("10.0.0.1"))
	// тот же IP на стойке всё ещё может войти
	assert.True(t, login.Allow("10.0.0.1"))
}
