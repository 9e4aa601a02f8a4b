package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/config"
)

func TestNoRetry(t *testing.T) {
	t.Parallel()

	_, ok := NoRetry{}.Next(0)
	assert.False(t, ok, "дефолтная политика не переподключается никогда")
}

func TestFixedDelay(t *testing.T) {
	t.Parallel()

	p := FixedDelay{Delay: time.Second, MaxAttempts: 3}

	for attempt := 0; attempt < 3; attempt++ {
		delay, ok := p.Next(attempt)
		assert.True(t, ok)
		assert.Equal(t, time.Second, delay)
	}
	_, ok := p.Next(3)
	assert.False(t, ok)
}

func TestFixedDelay_Unlimited(t *testing.T) {
	t.Parallel()

	p := FixedDelay{Delay: time.Millisecond}
	_, ok := p.Next(1000)
	assert.True(t, ok)
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	p := ExponentialBackoff{Base: time.Second, Max: 10 * time.Second, MaxAttempts: 10}

	d0, _ := p.Next(0)
	d1, _ := p.Next(1)
	d2, _ := p.Next(2)
	d5, _ := p.Next(5)

	assert.Equal(t, time.Second, d0)
	assert.Equal(t, 2*time.Second, d1)
	assert.Equal(t, 4*time.Second, d2)
	assert.Equal(t, 10*time.Second, d5, "пауза ограничена Max")

	_, ok := p.Next(10)
	assert.False(t, ok)
}

func TestPolicyFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Realtime.RetryPolicy = "none"
	assert.IsType(t, NoRetry{}, PolicyFromConfig(cfg))

	cfg.Realtime.RetryPolicy = "fixed"
	cfg.Realtime.RetryDelayMS = 500
	cfg.Realtime.RetryMaxAttempts = 2
	fixed, ok := PolicyFromConfig(cfg).(FixedDelay)
	assert.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, fixed.Delay)

	cfg.Realtime.RetryPolicy = "backoff"
	assert.IsType(t, ExponentialBackoff{}, PolicyFromConfig(cfg))

	// Нераспознанное значение трактуется как none
	cfg.Realtime.RetryPolicy = "bogus"
	assert.IsType(t, NoRetry{}, PolicyFromConfig(cfg))
}
