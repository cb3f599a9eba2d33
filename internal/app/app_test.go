package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/reach-rewards-bot/internal/common"
	"serotonyl.ru/reach-rewards-bot/internal/config"
	"serotonyl.ru/reach-rewards-bot/internal/features/rewards"
)

func TestLoadTiers_Default(t *testing.T) {
	tiers, err := LoadTiers(&config.Config{})
	require.NoError(t, err)
	assert.Same(t, rewards.DefaultTiers(), tiers)
}

func TestLoadTiers_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	data := "- label: All\n  min_reach: 0\n  rate_per_view: \"0.01\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	tiers, err := LoadTiers(&config.Config{RewardTiersFile: path})
	require.NoError(t, err)
	require.Len(t, tiers.Tiers(), 1)
	assert.Equal(t, "All", tiers.Tiers()[0].Label)
}

func TestLoadTiers_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	data := "- label: Capped\n  min_reach: 0\n  max_reach: 10\n  rate_per_view: \"0.01\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	_, err := LoadTiers(&config.Config{RewardTiersFile: path})
	assert.ErrorIs(t, err, common.ErrInvalidTierTable)
}
