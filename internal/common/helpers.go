// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел и денег, работа с временем.
package common

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// pluralForm выбирает форму слова по правилам русского языка.
//
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
func pluralForm(n int64, one, few, many string) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeViews возвращает правильную форму слова «просмотр» для числа n.
//
// Примеры:
//
//	PluralizeViews(1)  → "просмотр"
//	PluralizeViews(3)  → "просмотра"
//	PluralizeViews(11) → "просмотров"
func PluralizeViews(n int64) string {
	return pluralForm(n, "просмотр", "просмотра", "просмотров")
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
func PluralizeDays(n int) string {
	return pluralForm(int64(n), "день", "дня", "дней")
}

// FormatReach форматирует охват с разделителями тысяч.
// Дробный охват (допустим, но редок) выводится как есть после целой части.
//
// Пример: FormatReach(decimal.NewFromInt(50000)) → "50 000"
func FormatReach(reach decimal.Decimal) string {
	intPart := reach.Truncate(0)
	s := groupThousands(intPart.String())
	if frac := reach.Sub(intPart).Abs(); !frac.IsZero() {
		s += strings.TrimPrefix(frac.String(), "0")
	}
	return s
}

// FormatMoney форматирует сумму в долларах с двумя знаками после точки.
// Пример: FormatMoney(decimal.RequireFromString("500")) → "$500.00"
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// LoadLocation загружает часовой пояс, при ошибке возвращает UTC+3 (Москва).
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" в заданном поясе.
// Используется для отображения истории расчётов.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02.01.2006 15:04")
}
