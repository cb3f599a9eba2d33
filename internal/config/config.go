// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID чата креаторов: бот отвечает в нём и в личке его участников
	CreatorsChatID int64 `envconfig:"CREATORS_CHAT_ID" required:"true"`

	// --- Database ---
	// В Docker дефолт "postgres" (имя сервиса в docker-compose), для локалки DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"reach_rewards"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Rewards ---
	// Ставка, если пользователь её не указал и тир не найден.
	// decimal.Decimal реализует TextUnmarshaler, envconfig разберёт сам.
	RewardDefaultRate decimal.Decimal `envconfig:"REWARD_DEFAULT_RATE" default:"0.01"`
	// YAML с таблицей тиров; пусто — встроенная таблица
	RewardTiersFile            string `envconfig:"REWARD_TIERS_FILE"`
	RewardHistoryLimit         int    `envconfig:"REWARD_HISTORY_LIMIT" default:"10"`
	RewardHistoryRetentionDays int    `envconfig:"REWARD_HISTORY_RETENTION_DAYS" default:"90"`

	// --- Settings ---
	// base64 от 32 байт; пусто — хранение настроек выключено
	SettingsEncryptionKeyRaw string `envconfig:"SETTINGS_ENCRYPTION_KEY"`
	SettingsEncryptionKey    []byte `ignored:"true"` // заполним вручную

	// --- Metrics ---
	// Адрес HTTP-сервера /metrics; пусто — не поднимаем
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureHistoryEnabled  bool `envconfig:"FEATURE_HISTORY_ENABLED" default:"true"`
	FeatureSettingsEnabled bool `envconfig:"FEATURE_SETTINGS_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SettingsEnabled — включено ли хранение настроек (флаг + ключ).
func (c *Config) SettingsEnabled() bool {
	return c.FeatureSettingsEnabled && len(c.SettingsEncryptionKey) > 0
}

// Validate проверяет значения после загрузки.
func (c *Config) Validate() error {
	if c.CreatorsChatID == 0 {
		return fmt.Errorf("CREATORS_CHAT_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if !c.RewardDefaultRate.IsPositive() {
		return fmt.Errorf("REWARD_DEFAULT_RATE должен быть > 0")
	}
	if c.RewardHistoryLimit <= 0 {
		return fmt.Errorf("REWARD_HISTORY_LIMIT должен быть > 0")
	}
	if c.RewardHistoryRetentionDays <= 0 {
		return fmt.Errorf("REWARD_HISTORY_RETENTION_DAYS должен быть > 0")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	key, err := parseKey(cfg.SettingsEncryptionKeyRaw)
	if err != nil {
		return nil, fmt.Errorf("SETTINGS_ENCRYPTION_KEY parse: %w", err)
	}
	cfg.SettingsEncryptionKey = key

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parseKey декодирует base64-ключ; длина строго 32 байта.
func parseKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("нужно 32 байта, получено %d", len(key))
	}
	return key, nil
}
