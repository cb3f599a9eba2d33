package middleware

import (
	"fmt"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic гасит панику обработчика апдейта. Вызывать через defer
// прямо в обработчике, иначе recover ничего не поймает.
func RecoverFromPanic(update tgbotapi.Update) {
	r := recover()
	if r == nil {
		return
	}

	fields := log.Fields{
		"component": "panic_recovery",
		"update_id": update.UpdateID,
		"panic":     fmt.Sprintf("%v", r),
		"stack":     string(debug.Stack()),
	}
	if msg := update.Message; msg != nil {
		if msg.Chat != nil {
			fields["chat_id"] = msg.Chat.ID
		}
		if msg.From != nil {
			fields["user_id"] = msg.From.ID
		}
		fields["text"] = redact(msg.Text)
	}
	log.WithFields(fields).Error("ПАНИКА в обработчике апдейта — восстановлено")
}
