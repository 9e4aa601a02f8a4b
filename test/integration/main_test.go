package integration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// eventually - общий хелпер ожидания асинхронного состояния.
// Сокеты и SSE доставляют события с сетевой задержкой, поэтому
// все проверки living-состояния идут через polling.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 20*time.Millisecond, msg)
}
