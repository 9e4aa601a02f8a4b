package stores

import (
	"context"
	"sync"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

// RecipientFetcher отдает список собеседников с серверными счетчиками
// непрочитанных. Реализуется REST-клиентом.
type RecipientFetcher interface {
	ChatRecipients(ctx context.Context) ([]models.Recipient, error)
}

// ThreadSnapshot - консистентный срез: карта партнер -> счетчик
// и производное число тредов с непрочитанными.
type ThreadSnapshot struct {
	Counts        map[string]int
	UnreadThreads int
}

// ThreadStore отслеживает по каждому собеседнику, есть ли непрочитанные
// сообщения, независимо от того, какой диалог сейчас открыт в UI.
// Инвариант: UnreadThreads всегда равен числу записей карты со значением > 0.
type ThreadStore struct {
	mu            sync.Mutex
	counts        map[string]int
	unreadThreads int

	subMu sync.Mutex
	subs  map[int]func(ThreadSnapshot)
	subID int
}

// NewThreadStore создает пустой store.
func NewThreadStore() *ThreadStore {
	return &ThreadStore{
		counts: make(map[string]int),
		subs:   make(map[int]func(ThreadSnapshot)),
	}
}

// Subscribe регистрирует подписчика и возвращает функцию отписки.
func (s *ThreadStore) Subscribe(fn func(ThreadSnapshot)) func() {
	s.subMu.Lock()
	id := s.subID
	s.subID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// SeedAll заменяет карту целиком и пересчитывает производный счетчик.
func (s *ThreadStore) SeedAll(counts map[string]int) {
	s.mu.Lock()
	s.counts = make(map[string]int, len(counts))
	for partner, c := range counts {
		s.counts[partner] = c
	}
	s.unreadThreads = s.recountLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Increment увеличивает счетчик одного собеседника на единицу.
func (s *ThreadStore) Increment(partnerID string) {
	s.mu.Lock()
	s.counts[partnerID]++
	s.unreadThreads = s.recountLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Clear обнуляет счетчик собеседника (открытие треда).
// No-op, если счетчик уже нулевой: состояние не меняется,
// подписчики не дергаются.
func (s *ThreadStore) Clear(partnerID string) {
	s.mu.Lock()
	if s.counts[partnerID] == 0 {
		s.mu.Unlock()
		return
	}
	s.counts[partnerID] = 0
	s.unreadThreads = s.recountLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// RefreshFromServer перезапрашивает список собеседников и пересеивает
// карту серверными счетчиками. При ошибке состояние не меняется.
func (s *ThreadStore) RefreshFromServer(ctx context.Context, fetcher RecipientFetcher) error {
	recipients, err := fetcher.ChatRecipients(ctx)
	if err != nil {
		return err
	}

	counts := make(map[string]int, len(recipients))
	for _, r := range recipients {
		counts[r.ID] = r.UnreadCount
	}
	s.SeedAll(counts)
	return nil
}

// Count возвращает счетчик одного собеседника.
func (s *ThreadStore) Count(partnerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[partnerID]
}

// UnreadThreads возвращает число тредов с непрочитанными.
func (s *ThreadStore) UnreadThreads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadThreads
}

// Snapshot возвращает копию текущего состояния.
func (s *ThreadStore) Snapshot() ThreadSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// --- internal ---

func (s *ThreadStore) recountLocked() int {
	count := 0
	for _, c := range s.counts {
		if c > 0 {
			count++
		}
	}
	return count
}

func (s *ThreadStore) snapshotLocked() ThreadSnapshot {
	counts := make(map[string]int, len(s.counts))
	for partner, c := range s.counts {
		counts[partner] = c
	}
	return ThreadSnapshot{Counts: counts, UnreadThreads: s.unreadThreads}
}

func (s *ThreadStore) notify(snap ThreadSnapshot) {
	s.subMu.Lock()
	fns := make([]func(ThreadSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
