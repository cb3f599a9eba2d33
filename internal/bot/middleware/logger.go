// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// maxLoggedText — сколько символов текста попадает в лог.
const maxLoggedText = 50

// LogMessage логирует входящее сообщение: user_id, chat_id, username, начало текста.
// Аргументы настроек (секреты) в лог не пишутся.
func LogMessage(message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}

	log.WithFields(log.Fields{
		"user_id":   message.From.ID,
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"username":  message.From.UserName,
		"text":      redact(message.Text),
	}).Debug("Входящее сообщение")
}

// redact обрезает текст по символам и прячет значения команды настроек.
func redact(text string) string {
	if isSettingsCommand(text) {
		return "<настройки скрыты>"
	}
	return truncate(text, maxLoggedText)
}

func isSettingsCommand(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, name := range []string{"настройки", "settings"} {
		for _, prefix := range []string{"!", ".", "/"} {
			if strings.HasPrefix(t, prefix+name) {
				return true
			}
		}
	}
	return false
}

// truncate обрезает строку до n символов (не байт: кириллица).
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
