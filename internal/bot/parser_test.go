package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	cases := []struct {
		text    string
		cmd     string
		args    []string
		isCmd   bool
	}{
		{"!награда 50000 0.01", "награда", []string{"50000", "0.01"}, true},
		{".ТИР 10001", "тир", []string{"10001"}, true},
		{"/tiers@reach_rewards_bot", "tiers", nil, true},
		{"  /start  ", "start", nil, true},
		{"!награда 50 000", "награда", []string{"50", "000"}, true},
		{"привет", "", nil, false},
		{"!", "", nil, false},
		{"", "", nil, false},
	}
	for _, tc := range cases {
		cmd, args, ok := p.ParseCommand(tc.text)
		assert.Equal(t, tc.isCmd, ok, tc.text)
		assert.Equal(t, tc.cmd, cmd, tc.text)
		assert.Equal(t, tc.args, args, tc.text)
	}
}

func TestResolve(t *testing.T) {
	for alias, want := range map[string]string{
		"награда":   cmdReward,
		"reward":    cmdReward,
		"тиры":      cmdTiers,
		"история":   cmdHistory,
		"настройки": cmdSettings,
		"start":     cmdHelp,
	} {
		got, ok := Resolve(alias)
		assert.True(t, ok, alias)
		assert.Equal(t, want, got, alias)
	}

	_, ok := Resolve("слоты")
	assert.False(t, ok)
}
