package bot

import "strings"

// Команды бота (канонические имена).
const (
	cmdHelp     = "help"
	cmdReward   = "reward"
	cmdTier     = "tier"
	cmdTiers    = "tiers"
	cmdHistory  = "history"
	cmdSettings = "settings"
)

// commandAliases — русские и английские варианты команд.
var commandAliases = map[string]string{
	"start":     cmdHelp,
	"help":      cmdHelp,
	"помощь":    cmdHelp,
	"награда":   cmdReward,
	"reward":    cmdReward,
	"тир":       cmdTier,
	"tier":      cmdTier,
	"тиры":      cmdTiers,
	"tiers":     cmdTiers,
	"история":   cmdHistory,
	"history":   cmdHistory,
	"настройки": cmdSettings,
	"settings":  cmdSettings,
}

// CommandParser парсит команды с префиксами !, . и /
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// "/reward@reach_bot 50000" → "reward", ["50000"].
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}

// Resolve возвращает каноническое имя команды по алиасу.
func Resolve(command string) (string, bool) {
	c, ok := commandAliases[command]
	return c, ok
}
