// Package creators — service.go: регистрация креаторов и проверка доступа.
package creators

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Store — хранилище креаторов. В проде это *Repository.
type Store interface {
	Upsert(ctx context.Context, p Profile) error
	GetByUserID(ctx context.Context, userID int64) (*Creator, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	Delete(ctx context.Context, userID int64) error
}

// Service управляет креаторами.
type Service struct {
	store Store
}

// NewService создаёт сервис креаторов.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register вызывается при вступлении в чат. Повторное вступление обновляет данные.
func (s *Service) Register(ctx context.Context, p Profile) error {
	if err := s.store.Upsert(ctx, p); err != nil {
		return fmt.Errorf("ошибка регистрации креатора: %w", err)
	}
	log.WithFields(log.Fields{
		"user_id":  p.UserID,
		"username": p.Username,
	}).Info("Креатор зарегистрирован")
	return nil
}

// Ensure гарантирует, что пользователь есть в базе (первое сообщение в чате).
func (s *Service) Ensure(ctx context.Context, p Profile) error {
	exists, err := s.store.Exists(ctx, p.UserID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.Register(ctx, p)
}

// Remove вызывается, когда пользователь покинул чат: доступ в личке пропадает.
func (s *Service) Remove(ctx context.Context, userID int64) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	log.WithField("user_id", userID).Info("Креатор покинул чат")
	return nil
}

// IsCreator проверяет, зарегистрирован ли пользователь.
func (s *Service) IsCreator(ctx context.Context, userID int64) (bool, error) {
	return s.store.Exists(ctx, userID)
}

// GetByUserID возвращает креатора по Telegram user ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Creator, error) {
	return s.store.GetByUserID(ctx, userID)
}
