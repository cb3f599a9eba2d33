package common

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPluralForms(t *testing.T) {
	assert.Equal(t, "просмотр", PluralizeViews(1))
	assert.Equal(t, "просмотр", PluralizeViews(21))
	assert.Equal(t, "просмотра", PluralizeViews(3))
	assert.Equal(t, "просмотров", PluralizeViews(11))
	assert.Equal(t, "просмотров", PluralizeViews(112))
	assert.Equal(t, "просмотров", PluralizeViews(0))

	assert.Equal(t, "день", PluralizeDays(1))
	assert.Equal(t, "дня", PluralizeDays(2))
	assert.Equal(t, "дней", PluralizeDays(90))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "2 350", FormatNumber(2350))
	assert.Equal(t, "1 000 001", FormatNumber(1000001))
	assert.Equal(t, "-50 000", FormatNumber(-50000))
	assert.Equal(t, "-9 223 372 036 854 775 808", FormatNumber(math.MinInt64))
}

func TestFormatReachAndMoney(t *testing.T) {
	assert.Equal(t, "50 000", FormatReach(decimal.NewFromInt(50000)))
	assert.Equal(t, "10 000.5", FormatReach(decimal.RequireFromString("10000.5")))
	assert.Equal(t, "100 000 000 000 000 000 000", FormatReach(decimal.RequireFromString("1e20")))
	assert.Equal(t, "123 456 789 012 345 678 901 234", FormatReach(decimal.RequireFromString("123456789012345678901234")))
	assert.Equal(t, "1 000 000 000 000 000", FormatReach(decimal.RequireFromString("1e15")))
	assert.Equal(t, "$500.00", FormatMoney(decimal.NewFromInt(500)))
	assert.Equal(t, "$100.00", FormatMoney(decimal.RequireFromString("99.999")))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "—", MaskSecret(""))
	assert.Equal(t, "•••", MaskSecret("abc"))
	assert.Equal(t, "•••••••••••psBA", MaskSecret("EAAGm0PX4ZCpsBA"))
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2026, 3, 8, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "08.03.2026 09:30", FormatDateTime(ts, nil))
	assert.Equal(t, "08.03.2026 12:30", FormatDateTime(ts, time.FixedZone("MSK", 3*60*60)))
	assert.NotNil(t, LoadLocation("Nowhere/Invalid"))
}
