// Package rewards — calculator.go содержит чистые функции расчёта награды.
// Никакого состояния: одинаковые входы всегда дают одинаковый результат.
package rewards

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"serotonyl.ru/reach-rewards-bot/internal/common"
)

// ComputeReward считает награду: охват × ставка.
//
// Сначала проверяется охват, потом ставка, поэтому при двух плохих
// аргументах вернётся ErrInvalidReach.
//
// Пример:
//
//	ComputeReward(50000, 0.01) → 500.00
func ComputeReward(reach, ratePerView decimal.Decimal) (Result, error) {
	if err := validateReach(reach); err != nil {
		return Result{}, err
	}
	if err := validateRate(ratePerView); err != nil {
		return Result{}, err
	}
	return Result{Amount: reach.Mul(ratePerView)}, nil
}

// Compute считает награду для готового запроса.
func (q Query) Compute() (Result, error) {
	return ComputeReward(q.Reach, q.RatePerView)
}

// SuggestedExample возвращает награду за ExampleReach просмотров по ставке тира.
// Пример: Growing (0.01) → 500.
func SuggestedExample(tier Tier) decimal.Decimal {
	return decimal.NewFromInt(ExampleReach).Mul(tier.RatePerView)
}

// FormatAmount округляет сумму до 2 знаков для отображения.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// ParseReach разбирает охват, введённый пользователем.
func ParseReach(text string) (decimal.Decimal, error) {
	v, err := parseNumber(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", common.ErrInvalidReach, text)
	}
	if err := validateReach(v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

// ParseRate разбирает ставку за просмотр, введённую пользователем.
func ParseRate(text string) (decimal.Decimal, error) {
	v, err := parseNumber(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", common.ErrInvalidRate, text)
	}
	if err := validateRate(v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

// NewQuery собирает запрос из двух текстовых полей.
func NewQuery(reachText, rateText string) (Query, error) {
	reach, err := ParseReach(reachText)
	if err != nil {
		return Query{}, err
	}
	rate, err := ParseRate(rateText)
	if err != nil {
		return Query{}, err
	}
	return Query{Reach: reach, RatePerView: rate}, nil
}

// QueryFromFloats собирает запрос из float64.
// NaN и ±Inf отсекаются до конвертации: decimal.NewFromFloat на них паникует.
func QueryFromFloats(reach, ratePerView float64) (Query, error) {
	if math.IsNaN(reach) || math.IsInf(reach, 0) || reach <= 0 {
		return Query{}, fmt.Errorf("%w: %v", common.ErrInvalidReach, reach)
	}
	if math.IsNaN(ratePerView) || math.IsInf(ratePerView, 0) || ratePerView <= 0 {
		return Query{}, fmt.Errorf("%w: %v", common.ErrInvalidRate, ratePerView)
	}
	q := Query{
		Reach:       decimal.NewFromFloat(reach),
		RatePerView: decimal.NewFromFloat(ratePerView),
	}
	if err := validateReach(q.Reach); err != nil {
		return Query{}, err
	}
	if err := validateRate(q.RatePerView); err != nil {
		return Query{}, err
	}
	return q, nil
}

// parseNumber принимает "50000", "50 000", "0,01", "1e5".
// Пробелы и "_" считаются разделителями тысяч, запятая — десятичной точкой.
// Хвосты вроде "100abc" не допускаются.
func parseNumber(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.NewReplacer(" ", "", "\u00a0", "", "_", "", ",", ".").Replace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return decimal.Zero, fmt.Errorf("пустое значение")
	}
	return decimal.NewFromString(s)
}

func validateReach(reach decimal.Decimal) error {
	if !reach.IsPositive() || !withinBounds(reach, ReachCeiling) {
		return fmt.Errorf("%w: %s", common.ErrInvalidReach, shortString(reach))
	}
	return nil
}

func validateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() || !withinBounds(rate, RateCeiling) {
		return fmt.Errorf("%w: %s", common.ErrInvalidRate, shortString(rate))
	}
	return nil
}

// withinBounds проверяет порядок числа до сравнения с потолком:
// сравнение decimal с огромной экспонентой строит 10^N и работает минутами.
func withinBounds(v decimal.Decimal, ceiling int64) bool {
	exp := v.Exponent()
	if exp > maxScale || exp < -maxScale {
		return false
	}
	return v.LessThanOrEqual(decimal.NewFromInt(ceiling))
}

// shortString печатает число для текста ошибки, не разворачивая экспоненту.
func shortString(v decimal.Decimal) string {
	if exp := v.Exponent(); exp > maxScale || exp < -maxScale {
		return fmt.Sprintf("%se%d", v.Coefficient().String(), exp)
	}
	return v.String()
}
