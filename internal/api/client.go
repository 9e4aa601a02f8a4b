package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
	"github.com/sujnankumar/job-portal-frontend-sub001/pkg/apperrors"
)

// Client - тонкий HTTP-клиент REST API, который сидит за
// realtime-подсистемой. Эндпоинты уведомлений авторизуются
// query-параметром token, эндпоинты чата - заголовком Bearer;
// так исторически устроен серверный API.
type Client struct {
	baseURL    string
	tokenFn    func() string
	httpClient *http.Client
}

// NewClient создает клиент с фиксированным токеном.
// baseURL - корень API без завершающего слеша.
func NewClient(baseURL, token string) *Client {
	return NewClientFunc(baseURL, func() string { return token })
}

// NewClientFunc создает клиент, который берет токен на каждый запрос.
// Нужен, когда сессия появляется или ротируется после сборки клиента.
func NewClientFunc(baseURL string, token func() string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokenFn: token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) token() string { return c.tokenFn() }

// Notifications отдает снапшот уведомлений для seed store.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	path := "/notifications/?token=" + url.QueryEscape(c.token())

	var items []models.Notification
	if err := c.do(ctx, http.MethodGet, path, false, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkNotificationRead персистит read-флаг одного уведомления.
// Best-effort: store уже применил мутацию локально, ошибку
// вызывающий может игнорировать.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/notifications/mark-read/%s?token=%s",
		url.PathEscape(id), url.QueryEscape(c.token()))
	return c.do(ctx, http.MethodPost, path, false, nil)
}

// MarkAllNotificationsRead персистит mark-all-read одним запросом.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	path := "/notifications/mark-all-read?token=" + url.QueryEscape(c.token())
	return c.do(ctx, http.MethodPost, path, false, nil)
}

// ChatRecipients отдает список собеседников с серверными счетчиками
// непрочитанных. Используется thread store при refresh-from-server.
func (c *Client) ChatRecipients(ctx context.Context) ([]models.Recipient, error) {
	var recipients []models.Recipient
	if err := c.do(ctx, http.MethodGet, "/chat/chat/recipients", true, &recipients); err != nil {
		return nil, err
	}
	return recipients, nil
}

// ChatMessages отдает историю диалога с собеседником.
func (c *Client) ChatMessages(ctx context.Context, partnerID string) ([]models.ChatMessage, error) {
	path := "/chat/chat/messages/" + url.PathEscape(partnerID)

	var messages []models.ChatMessage
	if err := c.do(ctx, http.MethodGet, path, true, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// do выполняет запрос и декодирует JSON-ответ в result (если не nil).
// bearer управляет способом авторизации: заголовок или query-параметр
// уже зашит в path вызывающим.
func (c *Client) do(ctx context.Context, method, path string, bearer bool, result interface{}) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return apperrors.ErrRequestFailed(err, path)
	}
	req.Header.Set("Accept", "application/json")
	if bearer {
		req.Header.Set("Authorization", "Bearer "+c.token())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.RESTLog(method, path, 0, time.Since(start), err)
		return apperrors.ErrRequestFailed(err, path)
	}
	defer resp.Body.Close()

	logger.RESTLog(method, path, resp.StatusCode, time.Since(start), nil)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound(path)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError("token rejected by API")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apperrors.ErrUnexpectedStatus(path, resp.StatusCode)
	}

	if result == nil {
		// Тело не нужно, но дочитываем для keep-alive
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return apperrors.ErrMalformedPayload(err, "rest")
	}
	return nil
}
