// Package settings хранит учётные данные Instagram Graph API креатора:
// app_id, app_secret, business_account_id, access_token.
// Секретные поля шифруются ключом SETTINGS_ENCRYPTION_KEY.
package settings

import (
	"strings"
	"time"
)

// Поля настроек.
const (
	FieldAppID             = "app_id"
	FieldAppSecret         = "app_secret"
	FieldBusinessAccountID = "business_account_id"
	FieldAccessToken       = "access_token"
)

// MaxValueLength — максимальная длина значения в символах.
const MaxValueLength = 512

// Fields — все поля в порядке отображения.
var Fields = []string{FieldAppID, FieldAppSecret, FieldBusinessAccountID, FieldAccessToken}

// fieldAliases — как поле можно назвать в команде.
var fieldAliases = map[string]string{
	"app_id":              FieldAppID,
	"appid":               FieldAppID,
	"app_secret":          FieldAppSecret,
	"secret":              FieldAppSecret,
	"секрет":              FieldAppSecret,
	"business_account_id": FieldBusinessAccountID,
	"business":            FieldBusinessAccountID,
	"аккаунт":             FieldBusinessAccountID,
	"access_token":        FieldAccessToken,
	"token":               FieldAccessToken,
	"токен":               FieldAccessToken,
}

// NormalizeField приводит название поля из команды к каноническому.
func NormalizeField(name string) (string, bool) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// IsSecret — шифруется ли поле.
func IsSecret(field string) bool {
	return field == FieldAppSecret || field == FieldAccessToken
}

// Settings — расшифрованные настройки креатора.
type Settings struct {
	UserID            int64
	AppID             string
	AppSecret         string
	BusinessAccountID string
	AccessToken       string
	UpdatedAt         time.Time
}

// Get возвращает значение поля по имени.
func (s *Settings) Get(field string) string {
	switch field {
	case FieldAppID:
		return s.AppID
	case FieldAppSecret:
		return s.AppSecret
	case FieldBusinessAccountID:
		return s.BusinessAccountID
	case FieldAccessToken:
		return s.AccessToken
	}
	return ""
}

func (s *Settings) set(field, value string) {
	switch field {
	case FieldAppID:
		s.AppID = value
	case FieldAppSecret:
		s.AppSecret = value
	case FieldBusinessAccountID:
		s.BusinessAccountID = value
	case FieldAccessToken:
		s.AccessToken = value
	}
}

// Record — строка таблицы creator_settings. Секреты в зашифрованном виде.
type Record struct {
	UserID            int64     `db:"user_id"`
	AppID             string    `db:"app_id"`
	AppSecretEnc      string    `db:"app_secret_enc"`
	BusinessAccountID string    `db:"business_account_id"`
	AccessTokenEnc    string    `db:"access_token_enc"`
	UpdatedAt         time.Time `db:"updated_at"`
}
