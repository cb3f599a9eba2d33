// Package filters решает, отвечать ли боту на сообщение.
// Разрешены чат креаторов и личка его участников.
package filters

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reach-rewards-bot/internal/features/creators"
)

// TelegramAPI — часть *tgbotapi.BotAPI, нужная фильтру.
type TelegramAPI interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type ChatFilter struct {
	creatorsChatID int64
	creators       *creators.Service
	bot            TelegramAPI
}

func NewChatFilter(creatorsChatID int64, creatorService *creators.Service, bot TelegramAPI) *ChatFilter {
	return &ChatFilter{
		creatorsChatID: creatorsChatID,
		creators:       creatorService,
		bot:            bot,
	}
}

func (f *ChatFilter) CheckAccess(ctx context.Context, message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		log.WithField("component", "ChatFilter").Warn("nil message/chat")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Warn("nil message.From (service/channel message?)")
		return false
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	logger := log.WithFields(log.Fields{
		"component":        "ChatFilter",
		"chat_id":          chatID,
		"chat_type":        message.Chat.Type,
		"user_id":          userID,
		"creators_chat_id": f.creatorsChatID,
	})

	// 1) Чат креаторов
	if chatID == f.creatorsChatID {
		logger.Debug("allow: creators chat")
		return true
	}

	// 2) Остальные группы игнорируем
	if !message.Chat.IsPrivate() {
		logger.Info("deny: not creators chat and not private")
		return false
	}

	// 3) Личка: сначала по БД
	isCreator, err := f.creators.IsCreator(ctx, userID)
	if err != nil {
		logger.WithError(err).Error("creator check failed (db)")
		return false
	}
	if isCreator {
		logger.Debug("allow: private (db creator)")
		return true
	}

	// 3.1) БД не знает пользователя: спрашиваем Telegram
	cm, err := f.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: f.creatorsChatID,
			UserID: userID,
		},
	})
	if err != nil {
		logger.WithError(err).Error("creator check failed (telegram GetChatMember)")
		return false
	}

	if isActiveMember(cm) {
		if err := f.creators.Ensure(ctx, creators.ProfileFromUser(message.From)); err != nil {
			logger.WithError(err).Warn("failed to backfill creator to DB (allowing anyway)")
		}
		logger.WithField("tg_status", cm.Status).Info("allow: private (telegram member, backfilled)")
		return true
	}

	logger.WithField("tg_status", cm.Status).Info("deny: private (not a creators chat member)")
	msg := tgbotapi.NewMessage(chatID, "❌ Бот работает только для участников чата креаторов")
	if _, sendErr := f.bot.Send(msg); sendErr != nil {
		logger.WithError(sendErr).Warn("failed to send deny message")
	}
	return false
}

// isActiveMember: restricted считается участником, только если IsMember.
func isActiveMember(cm tgbotapi.ChatMember) bool {
	switch cm.Status {
	case "creator", "administrator", "member":
		return true
	case "restricted":
		return cm.IsMember
	}
	return false
}
