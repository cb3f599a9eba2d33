// Package rewards — калькулятор наград за охват рилсов.
// models.go описывает тиры, запрос расчёта, результат и запись истории.
package rewards

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unbounded — значение MaxReach у последнего тира (верхней границы нет).
const Unbounded int64 = -1

// ExampleReach — эталонный охват для примера «50K просмотров = $X».
const ExampleReach int64 = 50000

// Пределы входных значений. Всё, что за ними, считается ошибкой ввода.
const (
	ReachCeiling int64 = 1_000_000_000_000_000 // 10^15 просмотров
	RateCeiling  int64 = 1000                  // $1000 за просмотр
	// maxScale ограничивает порядок числа в обе стороны (1e50000000, 1e-50000000).
	maxScale int32 = 18
)

// Tier — тир охвата с рекомендуемой ставкой за просмотр.
// Границы включительные: [MinReach, MaxReach]. У безграничного тира [MinReach, ∞).
type Tier struct {
	Label       string          // Название: Starter, Growing, ...
	MinReach    int64           // Нижняя граница охвата (>= 0)
	MaxReach    int64           // Верхняя граница или Unbounded
	RatePerView decimal.Decimal // Рекомендуемая ставка за один просмотр (> 0)
	DisplayRank int             // Порядок отображения и поиска
}

// IsUnbounded возвращает true для последнего тира без верхней границы.
func (t Tier) IsUnbounded() bool {
	return t.MaxReach == Unbounded
}

// Contains проверяет, попадает ли охват в границы тира.
func (t Tier) Contains(reach decimal.Decimal) bool {
	if reach.LessThan(decimal.NewFromInt(t.MinReach)) {
		return false
	}
	return t.IsUnbounded() || reach.LessThanOrEqual(decimal.NewFromInt(t.MaxReach))
}

// Query — входные данные одного расчёта (охват и ставка).
type Query struct {
	Reach       decimal.Decimal
	RatePerView decimal.Decimal
}

// Result — результат расчёта. Amount не округлён: округление только при выводе.
type Result struct {
	Amount decimal.Decimal
}

// Display возвращает сумму, округлённую до 2 знаков.
func (r Result) Display() string {
	return FormatAmount(r.Amount)
}

// RateSource — откуда взята ставка для расчёта.
type RateSource string

const (
	RateManual  RateSource = "manual"  // Пользователь указал ставку явно
	RateTier    RateSource = "tier"    // Ставка тира, в который попал охват
	RateDefault RateSource = "default" // REWARD_DEFAULT_RATE (тир не найден)
)

// Estimate — расчёт для бота: запрос, результат, тир и источник ставки.
type Estimate struct {
	Query      Query
	Result     Result
	Tier       *Tier // nil, если тир не найден
	RateSource RateSource
}

// TierRow — строка таблицы тиров для отображения вместе с примером.
type TierRow struct {
	Tier    Tier
	Example decimal.Decimal // Награда за ExampleReach просмотров по ставке тира
}

// Calculation — запись истории расчётов (таблица reward_calculations).
type Calculation struct {
	ID          uuid.UUID       `db:"id"`
	UserID      int64           `db:"user_id"`
	Reach       decimal.Decimal `db:"reach"`
	RatePerView decimal.Decimal `db:"rate_per_view"`
	Amount      decimal.Decimal `db:"amount"`
	TierLabel   string          `db:"tier_label"` // Пусто, если тир не найден
	RateSource  RateSource      `db:"rate_source"`
	CreatedAt   time.Time       `db:"created_at"`
}
