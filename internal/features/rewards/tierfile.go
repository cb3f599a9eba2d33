package rewards

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// tierFileEntry — один тир в YAML-файле (REWARD_TIERS_FILE).
//
//	- label: Starter
//	  min_reach: 0
//	  max_reach: 10000
//	  rate_per_view: "0.005"
//	  display_rank: 1
//	- label: Viral
//	  min_reach: 100001
//	  rate_per_view: "0.02"   # max_reach не указан → без верхней границы
//	  display_rank: 4
type tierFileEntry struct {
	Label       string `yaml:"label"`
	MinReach    int64  `yaml:"min_reach"`
	MaxReach    *int64 `yaml:"max_reach,omitempty"`
	RatePerView string `yaml:"rate_per_view"`
	DisplayRank int    `yaml:"display_rank"`
}

// LoadTierFile читает таблицу тиров из YAML и проверяет её через NewTierTable.
func LoadTierFile(path string) (*TierTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл тиров %s: %w", path, err)
	}
	return ParseTierYAML(data)
}

// ParseTierYAML разбирает таблицу тиров из YAML-документа.
func ParseTierYAML(data []byte) (*TierTable, error) {
	var entries []tierFileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ошибка разбора YAML тиров: %w", err)
	}

	tiers := make([]Tier, 0, len(entries))
	for i, e := range entries {
		rate, err := decimal.NewFromString(e.RatePerView)
		if err != nil {
			return nil, fmt.Errorf("тир #%d (%s): некорректная ставка %q: %w", i+1, e.Label, e.RatePerView, err)
		}
		maxReach := Unbounded
		if e.MaxReach != nil {
			maxReach = *e.MaxReach
		}
		rank := e.DisplayRank
		if rank == 0 {
			rank = i + 1
		}
		tiers = append(tiers, Tier{
			Label:       e.Label,
			MinReach:    e.MinReach,
			MaxReach:    maxReach,
			RatePerView: rate,
			DisplayRank: rank,
		})
	}

	return NewTierTable(tiers...)
}

// MarshalTierYAML сериализует таблицу в формат REWARD_TIERS_FILE.
func MarshalTierYAML(tt *TierTable) ([]byte, error) {
	tiers := tt.Tiers()
	entries := make([]tierFileEntry, 0, len(tiers))
	for _, t := range tiers {
		e := tierFileEntry{
			Label:       t.Label,
			MinReach:    t.MinReach,
			RatePerView: t.RatePerView.String(),
			DisplayRank: t.DisplayRank,
		}
		if !t.IsUnbounded() {
			maxReach := t.MaxReach
			e.MaxReach = &maxReach
		}
		entries = append(entries, e)
	}
	return yaml.Marshal(entries)
}
