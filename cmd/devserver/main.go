package main

import (
	"os"

	"github.com/sujnankumar/job-portal-frontend-sub001/internal/devserver"
	"github.com/sujnankumar/job-portal-frontend-sub001/internal/logger"
)

func main() {
	logger.Init("development")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}
	addr := os.Getenv("DEVSERVER_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	srv := devserver.New(secret)
	logger.Info("Dev server starting", "addr", addr)
	if err := srv.Run(addr); err != nil {
		logger.Fatal("Dev server failed", "error", err)
	}
}
