// Package main — точка входа бота.
// Загружает конфигурацию, инициализирует приложение и запускает.
// Поддерживает graceful shutdown по SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reach-rewards-bot/internal/app"
	"serotonyl.ru/reach-rewards-bot/internal/config"
)

func main() {
	setupLogging()

	log.Info("=== Бот запускается ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err == nil {
		log.SetLevel(level)
	}
	if cfg.AppEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Контекст отменяется по SIGINT/SIGTERM (Ctrl+C, docker stop)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Не удалось инициализировать приложение")
	}
	defer application.DB.Close()

	if err := application.Scheduler.Start(ctx); err != nil {
		log.WithError(err).Fatal("Не удалось запустить планировщик")
	}
	defer application.Scheduler.Stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		application.Metrics.Serve(ctx, cfg.MetricsAddr)
	}()
	go func() {
		defer wg.Done()
		application.Bot.Start(ctx)
	}()

	log.Info("=== Бот готов к работе ===")

	<-ctx.Done()
	log.Info("Получен сигнал остановки, завершаем работу...")
	wg.Wait()

	log.Info("=== Бот остановлен ===")
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
