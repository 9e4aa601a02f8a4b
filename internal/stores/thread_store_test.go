package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

type fakeFetcher struct {
	recipients []models.Recipient
	err        error
}

func (f *fakeFetcher) ChatRecipients(context.Context) ([]models.Recipient, error) {
	return f.recipients, f.err
}

func TestThreadStore_SeedIncrementClear(t *testing.T) {
	t.Parallel()

	s := NewThreadStore()

	// Seed {A:2, B:0} -> один тред с непрочитанными
	s.SeedAll(map[string]int{"A": 2, "B": 0})
	assert.Equal(t, 1, s.UnreadThreads())

	// Increment B -> {A:2, B:1}, тредов с непрочитанными два
	s.Increment("B")
	assert.Equal(t, 2, s.Count("A"))
	assert.Equal(t, 1, s.Count("B"))
	assert.Equal(t, 2, s.UnreadThreads())

	// Clear A -> {A:0, B:1}, остался один
	s.Clear("A")
	assert.Equal(t, 0, s.Count("A"))
	assert.Equal(t, 1, s.UnreadThreads())
}

func TestThreadStore_ClearOnZeroIsNoop(t *testing.T) {
	t.Parallel()

	s := NewThreadStore()
	s.SeedAll(map[string]int{"A": 0})

	notified := 0
	s.Subscribe(func(ThreadSnapshot) { notified++ })

	s.Clear("A")
	s.Clear("unknown")
	assert.Equal(t, 0, notified, "clear нулевого счетчика не меняет состояние")
	assert.Equal(t, 0, s.UnreadThreads())
}

func TestThreadStore_InvariantDerivedTotal(t *testing.T) {
	t.Parallel()

	s := NewThreadStore()
	s.SeedAll(map[string]int{"A": 1, "B": 3, "C": 0, "D": 7})

	snap := s.Snapshot()
	nonzero := 0
	for _, c := range snap.Counts {
		if c > 0 {
			nonzero++
		}
	}
	assert.Equal(t, nonzero, snap.UnreadThreads)
}

func TestThreadStore_RefreshFromServer(t *testing.T) {
	t.Parallel()

	s := NewThreadStore()
	s.SeedAll(map[string]int{"stale": 5})

	fetcher := &fakeFetcher{recipients: []models.Recipient{
		{ID: "A", Name: "Alice", UnreadCount: 2},
		{ID: "B", Name: "Bob", UnreadCount: 0},
	}}

	require.NoError(t, s.RefreshFromServer(context.Background(), fetcher))
	assert.Equal(t, 2, s.Count("A"))
	assert.Equal(t, 0, s.Count("stale"), "пересев заменяет карту целиком")
	assert.Equal(t, 1, s.UnreadThreads())
}

func TestThreadStore_RefreshFailureKeepsState(t *testing.T) {
	t.Parallel()

	s := NewThreadStore()
	s.SeedAll(map[string]int{"A": 2})

	fetcher := &fakeFetcher{err: errors.New("api down")}
	assert.Error(t, s.RefreshFromServer(context.Background(), fetcher))
	assert.Equal(t, 2, s.Count("A"), "ошибка refresh не трогает состояние")
	assert.Equal(t, 1, s.UnreadThreads())
}
