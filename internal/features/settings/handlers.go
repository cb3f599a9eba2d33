// Package settings — handlers.go обрабатывает команду !настройки (только в личке).
//
//	!настройки                    — показать (секреты замаскированы)
//	!настройки <поле> <значение>  — сохранить поле
//	!настройки <поле>             — очистить поле
//	!настройки удалить            — удалить всё
package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reach-rewards-bot/internal/common"
)

const usage = "Формат:\n" +
	"!настройки — показать\n" +
	"!настройки <поле> <значение> — сохранить\n" +
	"!настройки удалить — удалить всё\n\n" +
	"Поля: app_id, app_secret, business_account_id, access_token"

// Handler обрабатывает команды настроек.
type Handler struct {
	service *Service
	bot     common.Sender
	loc     *time.Location
}

// NewHandler создаёт обработчик настроек.
func NewHandler(service *Service, bot common.Sender, loc *time.Location) *Handler {
	return &Handler{service: service, bot: bot, loc: loc}
}

// HandleSettings разбирает подкоманду и выполняет её.
func (h *Handler) HandleSettings(ctx context.Context, chatID, userID int64, private bool, args []string) {
	if !private {
		h.sendMessage(chatID, "🔒 Настройки доступны только в личных сообщениях с ботом")
		return
	}
	if !h.service.Enabled() {
		h.sendMessage(chatID, "⚙️ Хранение настроек отключено")
		return
	}

	if len(args) == 0 {
		h.show(ctx, chatID, userID)
		return
	}

	switch strings.ToLower(args[0]) {
	case "удалить", "delete":
		if err := h.service.Delete(ctx, userID); err != nil {
			h.sendMessage(chatID, errorText(err))
			return
		}
		h.sendMessage(chatID, "🗑 Настройки удалены")
		return
	case "help", "помощь":
		h.sendMessage(chatID, usage)
		return
	}

	value := strings.Join(args[1:], " ")
	if err := h.service.SetField(ctx, userID, args[0], value); err != nil {
		h.sendMessage(chatID, errorText(err))
		return
	}
	if value == "" {
		h.sendMessage(chatID, "✅ Поле очищено")
		return
	}
	h.sendMessage(chatID, "✅ Сохранено")
}

func (h *Handler) show(ctx context.Context, chatID, userID int64) {
	st, err := h.service.Get(ctx, userID)
	if errors.Is(err, common.ErrSettingsNotFound) {
		h.sendMessage(chatID, "⚙️ Настройки ещё не заданы\n\n"+usage)
		return
	}
	if err != nil {
		h.sendMessage(chatID, errorText(err))
		return
	}
	h.sendMessage(chatID, FormatMasked(st, h.loc))
}

func errorText(err error) string {
	switch {
	case errors.Is(err, common.ErrUnknownSettingsField):
		return "❌ Неизвестное поле\n\n" + usage
	case errors.Is(err, common.ErrSettingsValueTooLong):
		return "❌ Значение слишком длинное (максимум 512 символов)"
	case errors.Is(err, common.ErrSettingsNotFound):
		return "⚙️ Настройки ещё не заданы"
	case errors.Is(err, common.ErrSettingsDisabled):
		return "⚙️ Хранение настроек отключено"
	case errors.Is(err, common.ErrDecrypt):
		log.WithError(err).Error("Не удалось расшифровать настройки")
		return "❌ Не удалось расшифровать сохранённые данные, задайте их заново"
	default:
		log.WithError(err).Error("Ошибка настроек")
		return "❌ Ошибка работы с настройками"
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
