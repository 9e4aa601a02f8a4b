package app

import (
	"context"
	"strings"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/api"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/authstore"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/cache"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/config"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/feed"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/models"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/realtime"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/stores"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/validator"
)

// App - композиция realtime-подсистемы клиента: auth store, оффлайн-кэш,
// REST-клиент, сокет уведомлений, лента вакансий и оба state store.
// Чат-сокеты открываются по требованию через OpenChat - одно живое
// соединение на пару (recipient, token).
type App struct {
	Cfg   *config.Config
	Auth  *authstore.Store
	Cache *cache.Cache
	API   *api.Client

	Notifications *stores.NotificationStore
	Threads       *stores.ThreadStore
	Feed          *feed.JobFeed

	notifSocket *realtime.NotificationSocket
	retry       realtime.RetryPolicy
}

// New собирает приложение. Конфиг валидируется до любого I/O.
func New(cfg *config.Config) (*App, error) {
	if err := validator.New().Validate(cfg.Client); err != nil {
		return nil, err
	}

	auth := authstore.New(cfg.Storage.AuthStatePath)

	offline, err := cache.Open(cfg.Storage.CacheDBPath)
	if err != nil {
		return nil, err
	}

	// Токен читается на каждый запрос: сессия может появиться
	// уже после сборки приложения
	apiClient := api.NewClientFunc(cfg.Client.APIBase, auth.Token)
	retry := realtime.PolicyFromConfig(cfg)

	a := &App{
		Cfg:           cfg,
		Auth:          auth,
		Cache:         offline,
		API:           apiClient,
		Notifications: stores.NewNotificationStore(apiClient),
		Threads:       stores.NewThreadStore(),
		retry:         retry,
	}
	a.Feed = feed.New(cfg.Client.APIBase, retry, nil)
	return a, nil
}

// Start поднимает подсистему: кэш -> REST-seed -> сокет уведомлений ->
// лента вакансий. Без активной сессии все остается в idle.
func (a *App) Start(ctx context.Context) error {
	token := a.Auth.Token()
	if token == "" {
		logger.Info("no active session, realtime idle")
		return nil
	}
	if expired, _ := a.Auth.TokenExpired(); expired {
		logger.Warn("session token expired, realtime idle")
		return nil
	}

	// 1. Мгновенный рендер из оффлайн-кэша
	if cached, err := a.Cache.LoadNotifications(); err == nil && len(cached) > 0 {
		a.Notifications.ReplaceAll(cached)
	}

	// 2. REST-seed с generation guard: пока летел ответ, сокет мог
	// успеть запушить - тогда снапшот отбрасывается, push побеждает
	seenGen := a.Notifications.Generation()
	go func() {
		items, err := a.API.Notifications(ctx)
		if err != nil {
			// seed не удался - прежнее состояние остается
			logger.WithError(err).Warn("notification seed failed")
			return
		}
		if a.Notifications.ReplaceAllIf(items, seenGen) {
			if err := a.Cache.SaveNotifications(items); err != nil {
				logger.WithError(err).Debug("cache save failed")
			}
		}
	}()

	// 3. Сокет уведомлений с keepalive
	a.notifSocket = realtime.NewNotificationSocket(
		a.Cfg.Client.WSBase,
		token,
		a.Cfg.KeepaliveInterval(),
		a.retry,
		a.onNotification,
	)
	a.notifSocket.Start(ctx)

	// 4. Серверные счетчики тредов
	go func() {
		if err := a.Threads.RefreshFromServer(ctx, a.API); err != nil {
			logger.WithError(err).Warn("thread refresh failed")
		}
	}()

	// 5. Живая лента вакансий
	a.Feed.Start(ctx)

	return nil
}

// onNotification - обработчик кадров сокета уведомлений.
// Уведомление о сообщении дополнительно поднимает счетчик треда.
func (a *App) onNotification(n models.Notification) {
	if !a.Notifications.Prepend(n) {
		return // дубль по id
	}
	if n.Type == models.NotificationTypeMessage {
		if partner := partnerFromLink(n.Link); partner != "" {
			a.Threads.Increment(partner)
		}
	}
}

// OpenChat загружает историю диалога, обнуляет счетчик треда
// и открывает сокет. Вернувшийся сокет закрывает вызывающий
// (смена собеседника = Close + новый OpenChat).
func (a *App) OpenChat(ctx context.Context, recipientID string, onMessage func(models.ChatMessage)) (*realtime.ChatSocket, []models.ChatMessage, error) {
	history, err := a.API.ChatMessages(ctx, recipientID)
	if err != nil {
		// REST недоступен - отдаем кэшированную историю
		if cached, cacheErr := a.Cache.LoadMessages(recipientID); cacheErr == nil && len(cached) > 0 {
			history = cached
		} else {
			return nil, nil, err
		}
	} else {
		if err := a.Cache.SaveMessages(recipientID, history); err != nil {
			logger.WithError(err).Debug("cache save failed")
		}
	}

	a.Threads.Clear(recipientID)

	sock := realtime.NewChatSocket(a.Cfg.Client.WSBase, recipientID, a.Auth.Token(), a.retry, onMessage)
	sock.Start(ctx)
	return sock, history, nil
}

// Close гасит все соединения и закрывает кэш.
func (a *App) Close() {
	if a.notifSocket != nil {
		a.notifSocket.Close()
	}
	if a.Feed != nil {
		a.Feed.Close()
	}
	if a.Cache != nil {
		a.Cache.Close()
	}
}

// partnerFromLink достает id собеседника из ссылки вида "/chat/{id}".
func partnerFromLink(link string) string {
	const prefix = "/chat/"
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(link, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
