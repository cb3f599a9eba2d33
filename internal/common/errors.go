// Package common — errors.go определяет ошибки, общие для всех модулей бота.
// Обработчики сравнивают их через errors.Is и отправляют пользователю
// понятные сообщения.
package common

import "errors"

// Ошибки калькулятора наград
var (
	// ErrInvalidReach — охват не число, не конечен или <= 0
	ErrInvalidReach = errors.New("охват должен быть положительным числом")
	// ErrInvalidRate — ставка за просмотр не число, не конечна или <= 0
	ErrInvalidRate = errors.New("ставка за просмотр должна быть положительным числом")
	// ErrTierNotFound — ни один тир не покрывает охват.
	// Это ошибка конфигурации таблицы тиров, а не ввода пользователя.
	ErrTierNotFound = errors.New("тир для охвата не найден")
	// ErrInvalidTierTable — таблица тиров нарушает инварианты (пересечения, разрывы и т.д.)
	ErrInvalidTierTable = errors.New("некорректная таблица тиров")
)

// Ошибки участников
var (
	// ErrCreatorNotFound — пользователь не найден в базе
	ErrCreatorNotFound = errors.New("участник не найден")
)

// Ошибки настроек
var (
	// ErrSettingsDisabled — не задан SETTINGS_ENCRYPTION_KEY
	ErrSettingsDisabled = errors.New("хранение настроек отключено")
	// ErrSettingsNotFound — пользователь ещё ничего не сохранял
	ErrSettingsNotFound = errors.New("настройки не найдены")
	// ErrUnknownSettingsField — поле не из списка app_id/app_secret/business_account_id/access_token
	ErrUnknownSettingsField = errors.New("неизвестное поле настроек")
	// ErrSettingsValueTooLong — значение длиннее 512 символов
	ErrSettingsValueTooLong = errors.New("значение слишком длинное (максимум 512 символов)")
	// ErrDecrypt — не удалось расшифровать сохранённое значение (сменили ключ?)
	ErrDecrypt = errors.New("не удалось расшифровать значение")
)
