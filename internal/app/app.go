// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reach-rewards-bot/internal/bot"
	"serotonyl.ru/reach-rewards-bot/internal/bot/filters"
	"serotonyl.ru/reach-rewards-bot/internal/common"
	"serotonyl.ru/reach-rewards-bot/internal/config"
	"serotonyl.ru/reach-rewards-bot/internal/db/postgres"
	"serotonyl.ru/reach-rewards-bot/internal/features/creators"
	"serotonyl.ru/reach-rewards-bot/internal/features/rewards"
	"serotonyl.ru/reach-rewards-bot/internal/features/settings"
	"serotonyl.ru/reach-rewards-bot/internal/jobs"
	"serotonyl.ru/reach-rewards-bot/internal/metrics"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Metrics   *metrics.Metrics
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Таблица тиров (до БД: ошибка в файле должна остановить старт сразу) ===
	tiers, err := LoadTiers(cfg)
	if err != nil {
		return nil, err
	}

	// === 2. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 3. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	m := metrics.New()
	loc := common.LoadLocation(cfg.AppTimezone)

	// === 4. Репозитории ===
	creatorRepo := creators.NewRepository(pool)
	rewardRepo := rewards.NewRepository(pool)
	settingsRepo := settings.NewRepository(pool)

	// === 5. Сервисы ===
	creatorService := creators.NewService(creatorRepo)
	rewardService := rewards.NewService(tiers, rewardRepo, m, cfg)
	settingsService, err := settings.NewService(settingsRepo, cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка инициализации настроек: %w", err)
	}

	// === 6. Обработчики ===
	creatorHandler := creators.NewHandler(creatorService)
	rewardHandler := rewards.NewHandler(rewardService, botAPI, loc)
	settingsHandler := settings.NewHandler(settingsService, botAPI, loc)

	// === 7. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.CreatorsChatID, creatorService, botAPI)

	// === 8. Собираем бота ===
	b := bot.New(
		botAPI, cfg, m,
		creatorService, creatorHandler,
		rewardHandler,
		settingsHandler,
		chatFilter,
	)

	// === 9. Планировщик задач ===
	scheduler := jobs.NewScheduler(rewardService, loc)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		Metrics:   m,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// LoadTiers возвращает таблицу тиров из REWARD_TIERS_FILE или встроенную.
func LoadTiers(cfg *config.Config) (*rewards.TierTable, error) {
	if cfg.RewardTiersFile == "" {
		log.Info("Используется встроенная таблица тиров")
		return rewards.DefaultTiers(), nil
	}
	tiers, err := rewards.LoadTierFile(cfg.RewardTiersFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки таблицы тиров: %w", err)
	}
	log.WithFields(log.Fields{
		"file":  cfg.RewardTiersFile,
		"tiers": len(tiers.Tiers()),
	}).Info("Таблица тиров загружена из файла")
	return tiers, nil
}
