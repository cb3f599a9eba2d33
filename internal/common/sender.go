package common

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Sender — то, что умеет отправлять сообщения в Telegram.
// *tgbotapi.BotAPI подходит напрямую; в тестах подменяется фейком.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
