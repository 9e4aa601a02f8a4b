package feed

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/realtime"
)

// JobFeed слушает server-push поток событий создания вакансий
// (SSE на {api-base}/job/stream) и копит новые вакансии в буфере.
// Буфер никогда не вливается в видимый список автоматически:
// пользователь явно жмет "показать новые", что очищает буфер,
// сбрасывает счетчик и дергает onShowNew (перезапрос списка с нуля).
type JobFeed struct {
	url       string
	retry     realtime.RetryPolicy
	onShowNew func()

	httpClient *http.Client

	mu      sync.Mutex
	pending []models.Job // новейшие в голове
	closed  bool
	cancel  context.CancelFunc

	subMu sync.Mutex
	subs  map[int]func(pending int)
	subID int
}

// New создает ленту. apiBase - корень API; onShowNew - хук полного
// перезапроса списка вакансий, может быть nil.
func New(apiBase string, retry realtime.RetryPolicy, onShowNew func()) *JobFeed {
	if retry == nil {
		retry = realtime.NoRetry{}
	}
	return &JobFeed{
		url:       strings.TrimRight(apiBase, "/") + "/job/stream",
		retry:     retry,
		onShowNew: onShowNew,
		// Без общего таймаута: поток живет, пока его не закроют
		httpClient: &http.Client{},
		subs:       make(map[int]func(int)),
	}
}

// Subscribe регистрирует подписчика на изменение счетчика буфера.
func (f *JobFeed) Subscribe(fn func(pending int)) func() {
	f.subMu.Lock()
	id := f.subID
	f.subID++
	f.subs[id] = fn
	f.subMu.Unlock()

	return func() {
		f.subMu.Lock()
		delete(f.subs, id)
		f.subMu.Unlock()
	}
}

// Start открывает поток в фоне. Ошибка потока закрывает соединение;
// дальше решает retry-политика (по умолчанию none - лента молча
// перестает работать до перезапуска страницы).
func (f *JobFeed) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		cancel()
		return
	}
	f.cancel = cancel
	f.mu.Unlock()

	go f.run(ctx)
}

// Pending возвращает счетчик накопленных вакансий.
func (f *JobFeed) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Jobs возвращает копию буфера (новейшие первыми).
func (f *JobFeed) Jobs() []models.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	jobs := make([]models.Job, len(f.pending))
	copy(jobs, f.pending)
	return jobs
}

// ShowNew - явное действие пользователя "показать новые вакансии":
// возвращает накопленное, очищает буфер, сбрасывает счетчик
// и запускает полный перезапрос списка.
func (f *JobFeed) ShowNew() []models.Job {
	f.mu.Lock()
	jobs := f.pending
	f.pending = nil
	f.mu.Unlock()

	f.notify(0)
	if f.onShowNew != nil {
		f.onShowNew()
	}
	return jobs
}

// Close закрывает поток.
func (f *JobFeed) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	cancel := f.cancel
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// --- internal ---

func (f *JobFeed) run(ctx context.Context) {
	attempt := 0
	for {
		err := f.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		logger.SocketLog("job_feed", "stream closed", err)

		delay, ok := f.retry.Next(attempt)
		attempt++
		if !ok {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// consume держит одно SSE-соединение до обрыва.
func (f *JobFeed) consume(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logger.SocketLog("job_feed", "stream connected", nil)

	// Инкрементальный разбор SSE: копим data-строки до пустой строки.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 4096), 256*1024)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			if data.Len() > 0 {
				f.handleEvent(data.String())
				data.Reset()
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue // комментарий/heartbeat
		}
		if rest, ok := strings.CutPrefix(line, "data:"); ok {
			data.WriteString(strings.TrimPrefix(rest, " "))
		}
		// поля event:/id:/retry: ленте не нужны
	}
	return scanner.Err()
}

// handleEvent разбирает конверт события. Нераспознанные типы и
// битые payload игнорируются.
func (f *JobFeed) handleEvent(data string) {
	var ev models.JobStreamEvent
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		logger.SocketLog("job_feed", "malformed event dropped", err)
		return
	}
	if ev.Type != models.JobStreamEventCreated || ev.Job == nil {
		return
	}

	f.mu.Lock()
	f.pending = append([]models.Job{*ev.Job}, f.pending...)
	pending := len(f.pending)
	f.mu.Unlock()

	f.notify(pending)
}

func (f *JobFeed) notify(pending int) {
	f.subMu.Lock()
	fns := make([]func(int), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.subMu.Unlock()

	for _, fn := range fns {
		fn(pending)
	}
}
