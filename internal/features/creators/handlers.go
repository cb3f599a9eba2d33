// Package creators — handlers.go: события вступления и выхода из чата.
package creators

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Handler обрабатывает события участников чата креаторов.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик событий участников.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ProfileFromUser переводит пользователя Telegram в Profile.
func ProfileFromUser(u *tgbotapi.User) Profile {
	return Profile{
		UserID:    u.ID,
		Username:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// HandleNewChatMembers регистрирует всех вступивших. Боты пропускаются.
func (h *Handler) HandleNewChatMembers(ctx context.Context, users []tgbotapi.User) {
	for i := range users {
		if users[i].IsBot {
			continue
		}
		if err := h.service.Register(ctx, ProfileFromUser(&users[i])); err != nil {
			log.WithError(err).WithField("user_id", users[i].ID).Error("Ошибка регистрации креатора")
		}
	}
}

// HandleLeftChatMember убирает вышедшего пользователя.
func (h *Handler) HandleLeftChatMember(ctx context.Context, user *tgbotapi.User) {
	if user == nil || user.IsBot {
		return
	}
	if err := h.service.Remove(ctx, user.ID); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Ошибка удаления креатора")
	}
}
