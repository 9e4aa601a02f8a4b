package realtime

import (
	"time"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/config"
)

// RetryPolicy решает, переподключаться ли после обрыва соединения.
// Next получает номер неудачной попытки (с нуля) и возвращает паузу
// перед следующей попыткой; false - больше не пытаться.
type RetryPolicy interface {
	Next(attempt int) (time.Duration, bool)
}

// NoRetry - политика по умолчанию: упавшее соединение остается упавшим,
// пока не сменятся входные параметры (recipient/token).
type NoRetry struct{}

func (NoRetry) Next(int) (time.Duration, bool) { return 0, false }

// FixedDelay переподключается через фиксированную паузу,
// не больше MaxAttempts раз подряд. MaxAttempts <= 0 - без ограничения.
type FixedDelay struct {
	Delay       time.Duration
	MaxAttempts int
}

func (p FixedDelay) Next(attempt int) (time.Duration, bool) {
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		return 0, false
	}
	return p.Delay, true
}

// ExponentialBackoff удваивает паузу после каждой неудачи до Max.
type ExponentialBackoff struct {
	Base        time.Duration
	Max         time.Duration
	MaxAttempts int
}

func (p ExponentialBackoff) Next(attempt int) (time.Duration, bool) {
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		return 0, false
	}
	delay := p.Base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.Max {
			return p.Max, true
		}
	}
	return delay, true
}

// PolicyFromConfig собирает политику из конфига.
// Нераспознанное значение трактуется как "none".
func PolicyFromConfig(cfg *config.Config) RetryPolicy {
	delay := time.Duration(cfg.Realtime.RetryDelayMS) * time.Millisecond

	switch cfg.Realtime.RetryPolicy {
	case "fixed":
		return FixedDelay{Delay: delay, MaxAttempts: cfg.Realtime.RetryMaxAttempts}
	case "backoff":
		return ExponentialBackoff{
			Base:        delay,
			Max:         time.Minute,
			MaxAttempts: cfg.Realtime.RetryMaxAttempts,
		}
	default:
		return NoRetry{}
	}
}
