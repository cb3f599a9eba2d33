// Package settings — service.go: чтение, запись и удаление настроек креатора.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/reach-rewards-bot/internal/common"
	"serotonyl.ru/reach-rewards-bot/internal/config"
)

// Store — хранилище настроек. В проде это *Repository.
type Store interface {
	Get(ctx context.Context, userID int64) (*Record, error)
	Upsert(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, userID int64) (bool, error)
}

// Service управляет настройками креаторов.
type Service struct {
	store  Store
	cipher *Cipher // nil — функция выключена
	now    func() time.Time
}

// NewService создаёт сервис настроек. Без ключа или с выключенным флагом
// сервис работает, но все операции возвращают common.ErrSettingsDisabled.
func NewService(store Store, cfg *config.Config) (*Service, error) {
	s := &Service{store: store, now: time.Now}
	if !cfg.SettingsEnabled() {
		log.Info("Хранение настроек выключено (нет SETTINGS_ENCRYPTION_KEY или FEATURE_SETTINGS_ENABLED=false)")
		return s, nil
	}
	c, err := NewCipher(cfg.SettingsEncryptionKey)
	if err != nil {
		return nil, err
	}
	s.cipher = c
	return s, nil
}

// Enabled — можно ли пользоваться настройками.
func (s *Service) Enabled() bool {
	return s.cipher != nil
}

// Get возвращает расшифрованные настройки пользователя.
func (s *Service) Get(ctx context.Context, userID int64) (*Settings, error) {
	if !s.Enabled() {
		return nil, common.ErrSettingsDisabled
	}
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.decode(rec)
}

// SetField меняет одно поле. Пустое значение очищает поле.
func (s *Service) SetField(ctx context.Context, userID int64, field, value string) error {
	if !s.Enabled() {
		return common.ErrSettingsDisabled
	}
	field, ok := NormalizeField(field)
	if !ok {
		return common.ErrUnknownSettingsField
	}
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > MaxValueLength {
		return common.ErrSettingsValueTooLong
	}

	current, err := s.Get(ctx, userID)
	switch {
	case errors.Is(err, common.ErrSettingsNotFound):
		current = &Settings{UserID: userID}
	case errors.Is(err, common.ErrDecrypt):
		// Ключ сменили: открытые поля сохраняем, секреты задаются заново.
		rec, getErr := s.store.Get(ctx, userID)
		if getErr != nil {
			return getErr
		}
		log.WithError(err).WithField("user_id", userID).Warn("Секреты не расшифровываются, сбрасываем их")
		current = &Settings{UserID: userID, AppID: rec.AppID, BusinessAccountID: rec.BusinessAccountID}
	case err != nil:
		return err
	}
	current.set(field, value)
	current.UpdatedAt = s.now().UTC()

	rec, err := s.encode(current)
	if err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"field":   field,
	}).Info("Настройка обновлена")
	return nil
}

// Delete удаляет все настройки пользователя.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	if !s.Enabled() {
		return common.ErrSettingsDisabled
	}
	deleted, err := s.store.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return common.ErrSettingsNotFound
	}
	log.WithField("user_id", userID).Info("Настройки удалены")
	return nil
}

func (s *Service) encode(st *Settings) (*Record, error) {
	secret, err := s.cipher.Encrypt(st.UserID, FieldAppSecret, st.AppSecret)
	if err != nil {
		return nil, err
	}
	token, err := s.cipher.Encrypt(st.UserID, FieldAccessToken, st.AccessToken)
	if err != nil {
		return nil, err
	}
	return &Record{
		UserID:            st.UserID,
		AppID:             st.AppID,
		AppSecretEnc:      secret,
		BusinessAccountID: st.BusinessAccountID,
		AccessTokenEnc:    token,
		UpdatedAt:         st.UpdatedAt,
	}, nil
}

func (s *Service) decode(rec *Record) (*Settings, error) {
	secret, err := s.cipher.Decrypt(rec.UserID, FieldAppSecret, rec.AppSecretEnc)
	if err != nil {
		return nil, err
	}
	token, err := s.cipher.Decrypt(rec.UserID, FieldAccessToken, rec.AccessTokenEnc)
	if err != nil {
		return nil, err
	}
	return &Settings{
		UserID:            rec.UserID,
		AppID:             rec.AppID,
		AppSecret:         secret,
		BusinessAccountID: rec.BusinessAccountID,
		AccessToken:       token,
		UpdatedAt:         rec.UpdatedAt,
	}, nil
}

// FormatMasked собирает текст с настройками; секреты замаскированы.
func FormatMasked(st *Settings, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("⚙️ Настройки Instagram API\n\n")
	for _, f := range Fields {
		v := st.Get(f)
		if IsSecret(f) {
			v = common.MaskSecret(v)
		} else if v == "" {
			v = "—"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", f, v))
	}
	if !st.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("\nОбновлено: %s", common.FormatDateTime(st.UpdatedAt, loc)))
	}
	return strings.TrimRight(sb.String(), "\n")
}
