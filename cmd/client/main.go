package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/app"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/config"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/stores"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Client.Env)
	logger.Info("Client starting", "api_base", cfg.Client.APIBase, "ws_base", cfg.Client.WSBase)

	a, err := app.New(cfg)
	if err != nil {
		logger.Fatal("Failed to build app", "error", err)
	}
	defer a.Close()

	// Логируем переходы состояния store - терминальный аналог ре-рендера
	a.Notifications.Subscribe(func(snap stores.NotificationSnapshot) {
		logger.Info("notifications updated", "total", len(snap.Items), "unread", snap.Unread)
	})
	a.Threads.Subscribe(func(snap stores.ThreadSnapshot) {
		logger.Info("threads updated", "unread_threads", snap.UnreadThreads)
	})
	a.Feed.Subscribe(func(pending int) {
		logger.Info("new jobs pending", "count", pending)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		logger.Fatal("Failed to start realtime subsystem", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")
}
