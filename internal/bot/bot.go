// Package bot содержит главный модуль бота — запуск polling, фильтрацию и маршрутизацию команд.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reach-rewards-bot/internal/bot/filters"
	"serotonyl.ru/reach-rewards-bot/internal/bot/middleware"
	"serotonyl.ru/reach-rewards-bot/internal/common"
	"serotonyl.ru/reach-rewards-bot/internal/config"
	"serotonyl.ru/reach-rewards-bot/internal/features/creators"
	"serotonyl.ru/reach-rewards-bot/internal/features/rewards"
	"serotonyl.ru/reach-rewards-bot/internal/features/settings"
	"serotonyl.ru/reach-rewards-bot/internal/metrics"
)

const helpText = "💰 Калькулятор наград за охват рилсов\n\n" +
	"!награда <охват> [ставка] — примерная награда\n" +
	"   пример: !награда 50000 0.01\n" +
	"   без ставки берётся рекомендуемая ставка тира\n" +
	"!тир <охват> — в какой тир попадает охват\n" +
	"!тиры — таблица тиров\n" +
	"!история — ваши последние расчёты\n" +
	"!настройки — ключи Instagram API (только в личке)"

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api     *tgbotapi.BotAPI
	sender  common.Sender
	cfg     *config.Config
	metrics *metrics.Metrics

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	creatorService  *creators.Service
	creatorHandler  *creators.Handler
	rewardHandler   *rewards.Handler
	settingsHandler *settings.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	m *metrics.Metrics,
	creatorService *creators.Service,
	creatorHandler *creators.Handler,
	rewardHandler *rewards.Handler,
	settingsHandler *settings.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:             api,
		sender:          api,
		cfg:             cfg,
		metrics:         m,
		chatFilter:      chatFilter,
		rateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		creatorService:  creatorService,
		creatorHandler:  creatorHandler,
		rewardHandler:   rewardHandler,
		settingsHandler: settingsHandler,
		parser:          NewCommandParser(),
		inflight:        make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram и блокируется до отмены ctx.
// Перед выходом дожидается обработки апдейтов, уже взятых в работу.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds
	u.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	defer b.rateLimiter.Close()
	defer b.drain()

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			if !b.acquire(ctx) {
				log.WithField("update_id", update.UpdateID).Warn("Бот останавливается, апдейт не обработан")
				b.api.StopReceivingUpdates()
				return
			}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// acquire занимает слот inflight. Если все слоты заняты, ждёт освобождения
// или отмены ctx; false — контекст отменён, слот не занят.
func (b *Bot) acquire(ctx context.Context) bool {
	select {
	case b.inflight <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// drain ждёт, пока освободятся все слоты inflight.
func (b *Bot) drain() {
	for i := 0; i < cap(b.inflight); i++ {
		b.inflight <- struct{}{}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic(update)
	b.metrics.ObserveUpdate()

	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}
	inCreatorsChat := message.Chat.ID == b.cfg.CreatorsChatID

	// Вступление и выход из чата креаторов
	if len(message.NewChatMembers) > 0 {
		if inCreatorsChat {
			b.creatorHandler.HandleNewChatMembers(ctx, message.NewChatMembers)
		}
		return
	}
	if message.LeftChatMember != nil {
		if inCreatorsChat {
			b.creatorHandler.HandleLeftChatMember(ctx, message.LeftChatMember)
		}
		return
	}

	if message.Text == "" || message.From == nil {
		return
	}
	middleware.LogMessage(message)

	// Пишущий в чате креаторов — креатор, даже если пропустили событие вступления.
	if inCreatorsChat && !message.From.IsBot {
		if err := b.creatorService.Ensure(ctx, creators.ProfileFromUser(message.From)); err != nil {
			log.WithError(err).WithField("user_id", message.From.ID).Warn("Ensure creator failed")
		}
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}
	command, known := Resolve(cmd)
	if !known {
		log.WithField("cmd", cmd).Debug("unknown command")
		return
	}

	// Проверяем доступ (чат креаторов или личка креатора)
	if !b.chatFilter.CheckAccess(ctx, message) {
		return
	}

	// Rate limiting
	if !b.rateLimiter.Allow(message.From.ID) {
		b.metrics.ObserveRateLimited()
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	b.routeCommand(ctx, message, command, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *tgbotapi.Message, command string, args []string) {
	chatID := message.Chat.ID
	userID := message.From.ID

	log.WithFields(log.Fields{
		"cmd":     command,
		"chat_id": chatID,
		"user_id": userID,
	}).Debug("routing command")

	switch command {
	case cmdHelp:
		b.sendMessage(chatID, helpText)

	case cmdReward:
		b.rewardHandler.HandleReward(ctx, chatID, userID, args)

	case cmdTier:
		b.rewardHandler.HandleTier(ctx, chatID, args)

	case cmdTiers:
		b.rewardHandler.HandleTiers(ctx, chatID)

	case cmdHistory:
		b.rewardHandler.HandleHistory(ctx, chatID, userID)

	case cmdSettings:
		b.settingsHandler.HandleSettings(ctx, chatID, userID, message.Chat.IsPrivate(), args)
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
