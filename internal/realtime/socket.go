package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/pkg/apperrors"
)

// socket - общий каркас клиентского WebSocket-соединения: дозвон,
// read-цикл, guarded-отправка, keepalive и переподключение по политике.
// Типизация кадров живет в обертках (ChatSocket, NotificationSocket).
type socket struct {
	name      string // домен для логов и ошибок
	url       string
	retry     RetryPolicy
	keepalive time.Duration // 0 - без keepalive
	onFrame   func(data []byte)

	mu     sync.Mutex
	conn   *websocket.Conn // не-nil только пока соединение открыто
	closed bool
	cancel context.CancelFunc

	done chan struct{}
}

func newSocket(name, url string, retry RetryPolicy, keepalive time.Duration, onFrame func([]byte)) *socket {
	if retry == nil {
		retry = NoRetry{}
	}
	return &socket{
		name:      name,
		url:       url,
		retry:     retry,
		keepalive: keepalive,
		onFrame:   onFrame,
		done:      make(chan struct{}),
	}
}

// start запускает supervisor-цикл. Повторный вызов недопустим.
func (s *socket) start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		close(s.done)
		return
	}
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(ctx)
}

func (s *socket) run(ctx context.Context) {
	defer close(s.done)

	attempt := 0
	for {
		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			logger.SocketLog(s.name, "connect failed", err)
			if !s.sleepRetry(ctx, &attempt) {
				return
			}
			continue
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conn = conn
		s.mu.Unlock()

		logger.SocketLog(s.name, "connected", nil)
		attempt = 0

		stopKA := make(chan struct{})
		if s.keepalive > 0 {
			go s.keepaliveLoop(stopKA)
		}

		s.readLoop(conn)

		// Таймер и соединение сносятся вместе: после этой точки
		// любой send - гарантированный no-op, а не гонка.
		close(stopKA)
		s.mu.Lock()
		s.conn = nil
		wasClosed := s.closed
		s.mu.Unlock()
		conn.Close()

		if wasClosed || ctx.Err() != nil {
			return
		}
		if !s.sleepRetry(ctx, &attempt) {
			return
		}
	}
}

// readLoop читает кадры до обрыва. Кадры отдаются обработчику
// в порядке прихода из сети; более сильного порядка протокол не дает.
func (s *socket) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Чистое закрытие и ошибка неразличимы - оба это close
			logger.SocketLog(s.name, "disconnected", err)
			return
		}
		s.onFrame(data)
	}
}

// keepaliveLoop шлет литеральный "ping" (не JSON) каждые keepalive.
// Отправка идет через sendText и потому guarded: тик, пришедший
// после обрыва, ничего не пишет в мертвый сокет.
func (s *socket) keepaliveLoop(stop chan struct{}) {
	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := s.sendText("ping"); err != nil {
				return
			}
		}
	}
}

// sendJSON сериализует значение и отправляет, только если соединение
// открыто. Отправка в состоянии connecting/closed - тихий отказ,
// без очереди и без ретрая кадра.
func (s *socket) sendJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return apperrors.ErrSendDropped(s.name)
	}
	return s.conn.WriteJSON(v)
}

func (s *socket) sendText(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return apperrors.ErrSendDropped(s.name)
	}
	return s.conn.WriteMessage(websocket.TextMessage, []byte(msg))
}

// connected сообщает, открыто ли соединение прямо сейчас.
func (s *socket) connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// close синхронно закрывает активное соединение и останавливает
// supervisor. Единственный сигнал отмены - unmount или смена входных
// параметров; оба сводятся к close + созданию нового сокета.
func (s *socket) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	conn := s.conn
	s.conn = nil
	cancel := s.cancel
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if cancel != nil {
		cancel()
	}
}

// sleepRetry ждет паузу политики или отмену контекста.
// false - попытки исчерпаны либо контекст отменен.
func (s *socket) sleepRetry(ctx context.Context, attempt *int) bool {
	delay, ok := s.retry.Next(*attempt)
	*attempt++
	if !ok {
		logger.SocketLog(s.name, "giving up", nil)
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}
