// cmd/server/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/marou95/uno-server/internal/cache"
	"github.com/marou95/uno-server/internal/config"
	"github.com/marou95/uno-server/internal/server"
)

func main() {
	cfg := config.Load()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RedisAddr != "" {
		if err := cache.Init(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
			logrus.WithError(err).Warn("Redis unavailable, state mirror disabled")
		} else {
			defer cache.Close()
			logrus.WithField("addr", cfg.RedisAddr).Info("State mirror connected")
		}
	}

	srv := server.New(cfg)
	if err := srv.ListenAndServe(ctx); err != nil {
		logrus.WithError(err).Fatal("Server exited")
	}
}
