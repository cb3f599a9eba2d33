// Package rewards — tiers.go содержит таблицу тиров и классификацию охвата.
package rewards

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"serotonyl.ru/reach-rewards-bot/internal/common"
)

// TierTable — неизменяемая упорядоченная таблица тиров.
// Создаётся один раз при старте и дальше только читается,
// поэтому безопасна для одновременного чтения из любых горутин.
type TierTable struct {
	tiers []Tier
}

// defaultTiers — таблица по умолчанию.
// Границы соседних тиров идут через единицу (10 000 / 10 001): так задумано.
var defaultTiers = mustTierTable(
	Tier{Label: "Starter", MinReach: 0, MaxReach: 10000, RatePerView: decimal.RequireFromString("0.005"), DisplayRank: 1},
	Tier{Label: "Growing", MinReach: 10001, MaxReach: 50000, RatePerView: decimal.RequireFromString("0.01"), DisplayRank: 2},
	Tier{Label: "Popular", MinReach: 50001, MaxReach: 100000, RatePerView: decimal.RequireFromString("0.015"), DisplayRank: 3},
	Tier{Label: "Viral", MinReach: 100001, MaxReach: Unbounded, RatePerView: decimal.RequireFromString("0.02"), DisplayRank: 4},
)

// DefaultTiers возвращает встроенную таблицу тиров.
func DefaultTiers() *TierTable {
	return defaultTiers
}

func mustTierTable(tiers ...Tier) *TierTable {
	t, err := NewTierTable(tiers...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTierTable проверяет тиры и собирает из них таблицу.
//
// Требования:
//   - хотя бы один тир, первый начинается с 0
//   - MinReach >= 0, 0 < RatePerView <= RateCeiling, MinReach < MaxReach <= ReachCeiling
//   - тиры идут по DisplayRank и по MinReach одновременно
//   - соседние тиры стыкуются без дыр и пересечений: next.MinReach == prev.MaxReach + 1
//   - безграничным может быть только последний тир, и он обязан им быть
func NewTierTable(tiers ...Tier) (*TierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: нет ни одного тира", common.ErrInvalidTierTable)
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayRank < sorted[j].DisplayRank
	})

	seen := make(map[string]bool, len(sorted))
	for i, t := range sorted {
		if t.Label == "" {
			return nil, fmt.Errorf("%w: у тира #%d пустое название", common.ErrInvalidTierTable, i+1)
		}
		if seen[t.Label] {
			return nil, fmt.Errorf("%w: тир %q задан дважды", common.ErrInvalidTierTable, t.Label)
		}
		seen[t.Label] = true

		if t.MinReach < 0 {
			return nil, fmt.Errorf("%w: %s: min_reach < 0", common.ErrInvalidTierTable, t.Label)
		}
		if validateRate(t.RatePerView) != nil {
			return nil, fmt.Errorf("%w: %s: ставка должна быть в (0, %d]", common.ErrInvalidTierTable, t.Label, RateCeiling)
		}
		if !t.IsUnbounded() && t.MaxReach > ReachCeiling {
			return nil, fmt.Errorf("%w: %s: max_reach больше %d", common.ErrInvalidTierTable, t.Label, ReachCeiling)
		}
		if !t.IsUnbounded() && t.MinReach >= t.MaxReach {
			return nil, fmt.Errorf("%w: %s: min_reach >= max_reach", common.ErrInvalidTierTable, t.Label)
		}

		last := i == len(sorted)-1
		if last != t.IsUnbounded() {
			return nil, fmt.Errorf("%w: безграничным должен быть ровно последний тир (%s)", common.ErrInvalidTierTable, t.Label)
		}

		if i == 0 {
			if t.MinReach != 0 {
				return nil, fmt.Errorf("%w: первый тир должен начинаться с 0", common.ErrInvalidTierTable)
			}
			continue
		}
		prev := sorted[i-1]
		if prev.DisplayRank == t.DisplayRank {
			return nil, fmt.Errorf("%w: %s и %s: одинаковый display_rank", common.ErrInvalidTierTable, prev.Label, t.Label)
		}
		if t.MinReach != prev.MaxReach+1 {
			return nil, fmt.Errorf("%w: %s должен начинаться с %d (после %s)",
				common.ErrInvalidTierTable, t.Label, prev.MaxReach+1, prev.Label)
		}
	}

	return &TierTable{tiers: sorted}, nil
}

// Tiers возвращает копию тиров в порядке отображения.
func (tt *TierTable) Tiers() []Tier {
	out := make([]Tier, len(tt.tiers))
	copy(out, tt.tiers)
	return out
}

// Classify возвращает первый тир (по DisplayRank), в который попадает охват.
//
// Граница принадлежит своему тиру: 10 000 → Starter, 10 001 → Growing.
// Охват внутри стыка (например, 10 000.5) не попадает ни в один тир
// и даёт ErrTierNotFound.
func (tt *TierTable) Classify(reach decimal.Decimal) (Tier, error) {
	if err := validateReach(reach); err != nil {
		return Tier{}, err
	}
	for _, t := range tt.tiers {
		if t.Contains(reach) {
			return t, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: охват %s", common.ErrTierNotFound, reach.String())
}

// ClassifyTier классифицирует охват по таблице по умолчанию.
func ClassifyTier(reach decimal.Decimal) (Tier, error) {
	return defaultTiers.Classify(reach)
}
