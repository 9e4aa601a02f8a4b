package stores

import (
	"context"
	"sync"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

// NotificationSyncer персистит изменение read-флага на сервере.
// Вызовы best-effort: ошибка возвращается вызывающему, но store
// к этому моменту уже применил оптимистичную мутацию и не откатывает ее.
type NotificationSyncer interface {
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// NotificationSnapshot - консистентный срез состояния store.
// Unread всегда неотрицателен и всегда <= len(Items).
type NotificationSnapshot struct {
	Items  []models.Notification
	Unread int
}

// NotificationStore - авторитетное представление уведомлений пользователя
// на время сессии. Инжектируемый экземпляр, не синглтон уровня пакета:
// тесты поднимают изолированные store.
//
// Все мутации - единые переходы состояния: список и счетчик меняются
// под одной блокировкой, подписчики видят только консистентные срезы.
type NotificationStore struct {
	mu     sync.Mutex
	items  []models.Notification
	unread int

	// gen растет при каждой мутации; guard против того, чтобы
	// запоздавший REST-снапшот затер более свежий push из сокета
	gen uint64

	syncer NotificationSyncer

	subMu sync.Mutex
	subs  map[int]func(NotificationSnapshot)
	subID int
}

// NewNotificationStore создает пустой store. syncer может быть nil -
// тогда mark-read мутации остаются только локальными.
func NewNotificationStore(syncer NotificationSyncer) *NotificationStore {
	return &NotificationStore{
		syncer: syncer,
		subs:   make(map[int]func(NotificationSnapshot)),
	}
}

// Subscribe регистрирует подписчика и возвращает функцию отписки.
// Подписчик вызывается синхронно после каждой мутации.
func (s *NotificationStore) Subscribe(fn func(NotificationSnapshot)) func() {
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

// Snapshot возвращает копию текущего состояния.
func (s *NotificationStore) Snapshot() NotificationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Generation возвращает текущий номер поколения состояния.
// Снимается перед REST-seed, чтобы ReplaceAllIf мог отвергнуть
// снапшот, устаревший относительно push-мутаций.
func (s *NotificationStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// ReplaceAll заменяет весь список снапшотом с сервера и пересчитывает
// счетчик непрочитанных полным проходом.
func (s *NotificationStore) ReplaceAll(items []models.Notification) {
	s.mu.Lock()
	s.replaceLocked(items)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// ReplaceAllIf применяет снапшот только если с момента seenGen
// не было ни одной мутации. Возвращает false, если снапшот устарел
// (например, пока летел ответ seed-запроса, сокет успел запушить
// уведомление) - тогда состояние не меняется.
func (s *NotificationStore) ReplaceAllIf(items []models.Notification, seenGen uint64) bool {
	s.mu.Lock()
	if s.gen != seenGen {
		s.mu.Unlock()
		logger.Debug("stale notification seed dropped", "seen_gen", seenGen, "gen", s.gen)
		return false
	}
	s.replaceLocked(items)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// Prepend вставляет новое уведомление в голову списка.
// Дедупликация по id: повторная доставка того же события (replay при
// переподключении) не меняет ни список, ни счетчик.
func (s *NotificationStore) Prepend(n models.Notification) bool {
	s.mu.Lock()
	for _, existing := range s.items {
		if existing.ID == n.ID {
			s.mu.Unlock()
			return false
		}
	}

	s.items = append([]models.Notification{n}, s.items...)
	if !n.Read {
		s.unread++
	}
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

// MarkRead помечает уведомление прочитанным и пересчитывает счетчик
// полным проходом. Идемпотентен: повторный вызов с тем же id ничего
// не меняет и не дергает сервер. Возвращаемая ошибка - результат
// best-effort синхронизации; локальная мутация к этому моменту
// уже применена и не откатывается.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ID == id && !s.items[i].Read {
			s.items[i].Read = true
			changed = true
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.unread = s.recountLocked()
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	if s.syncer == nil {
		return nil
	}
	if err := s.syncer.MarkNotificationRead(ctx, id); err != nil {
		logger.WithError(err).Debug("mark-read sync failed", "id", id)
		return err
	}
	return nil
}

// MarkAllRead помечает все уведомления прочитанными одним переходом.
func (s *NotificationStore) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	s.unread = 0
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	if s.syncer == nil {
		return nil
	}
	if err := s.syncer.MarkAllNotificationsRead(ctx); err != nil {
		logger.WithError(err).Debug("mark-all-read sync failed")
		return err
	}
	return nil
}

// Unread возвращает текущий счетчик непрочитанных.
func (s *NotificationStore) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// --- internal ---

func (s *NotificationStore) replaceLocked(items []models.Notification) {
	s.items = make([]models.Notification, len(items))
	copy(s.items, items)
	s.unread = s.recountLocked()
	s.gen++
}

func (s *NotificationStore) recountLocked() int {
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *NotificationStore) snapshotLocked() NotificationSnapshot {
	items := make([]models.Notification, len(s.items))
	copy(items, s.items)
	return NotificationSnapshot{Items: items, Unread: s.unread}
}

func (s *NotificationStore) notify(snap NotificationSnapshot) {
	s.subMu.Lock()
	fns := make([]func(NotificationSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
