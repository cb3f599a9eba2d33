// Package common — pluralize.go содержит форматирование чисел для сообщений бота.
package common

import (
	"strconv"
	"strings"
)

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	return groupThousands(strconv.FormatInt(n, 10))
}

// groupThousands расставляет пробелы в строке цифр (со знаком или без).
// Работает со строкой, поэтому длина числа не ограничена int64.
func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	var sb strings.Builder
	sb.WriteString(sign)
	for i := 0; i < len(digits); i++ {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

// MaskSecret прячет секрет, оставляя последние 4 символа.
// Пустая строка → "—".
//
// Примеры:
//
//	MaskSecret("EAAGm0PX4ZCpsBA") → "•••••••••••psBA"
//	MaskSecret("abc")             → "•••"
func MaskSecret(s string) string {
	if s == "" {
		return "—"
	}
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("•", len(r))
	}
	return strings.Repeat("•", len(r)-4) + string(r[len(r)-4:])
}
