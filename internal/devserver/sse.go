package devserver

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
)

// jobStream - реестр подписчиков SSE-потока /job/stream.
type jobStream struct {
	mu    sync.Mutex
	subs  map[int]chan models.JobStreamEvent
	subID int
}

func newJobStream() *jobStream {
	return &jobStream{subs: make(map[int]chan models.JobStreamEvent)}
}

func (js *jobStream) subscribe() (int, chan models.JobStreamEvent) {
	js.mu.Lock()
	defer js.mu.Unlock()
	id := js.subID
	js.subID++
	ch := make(chan models.JobStreamEvent, 8)
	js.subs[id] = ch
	return id, ch
}

func (js *jobStream) unsubscribe(id int) {
	js.mu.Lock()
	defer js.mu.Unlock()
	if ch, ok := js.subs[id]; ok {
		delete(js.subs, id)
		close(ch)
	}
}

func (js *jobStream) publish(ev models.JobStreamEvent) {
	js.mu.Lock()
	defer js.mu.Unlock()
	for _, ch := range js.subs {
		select {
		case ch <- ev:
		default:
			// медленный подписчик теряет событие
		}
	}
}

// handleJobStream - GET /job/stream (Server-Sent Events).
// В поле data каждого события лежит JSON-конверт
// {type:"job_created", job:{...}}.
func (s *Server) handleJobStream(c *gin.Context) {
	id, ch := s.stream.subscribe()
	defer s.stream.unsubscribe(id)

	c.Writer.Header().Set("Content-Type", sse.ContentType)
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-ch
		if !ok {
			return false
		}
		data, err := json.Marshal(ev)
		if err != nil {
			return true
		}
		sse.Encode(w, sse.Event{
			Event: "message",
			Data:  string(data),
		})
		return true
	})
}
