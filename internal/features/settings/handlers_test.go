package settings

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/reach-rewards-bot/internal/config"
)

type fakeSender struct {
	texts []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.texts = append(f.texts, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last() string {
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

func TestHandleSettings_Flow(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(newTestService(t, newMemStore()), sender, time.UTC)
	ctx := context.Background()

	h.HandleSettings(ctx, 5, 5, true, nil)
	assert.Contains(t, sender.last(), "Настройки ещё не заданы")

	h.HandleSettings(ctx, 5, 5, true, []string{"app_secret", "topsecret1234"})
	assert.Equal(t, "✅ Сохранено", sender.last())

	h.HandleSettings(ctx, 5, 5, true, nil)
	assert.Contains(t, sender.last(), "app_secret: •••••••••1234")
	assert.NotContains(t, sender.last(), "topsecret")

	h.HandleSettings(ctx, 5, 5, true, []string{"app_secret"})
	assert.Equal(t, "✅ Поле очищено", sender.last())

	h.HandleSettings(ctx, 5, 5, true, []string{"удалить"})
	assert.Equal(t, "🗑 Настройки удалены", sender.last())
}

func TestHandleSettings_Errors(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(newTestService(t, newMemStore()), sender, time.UTC)
	ctx := context.Background()

	h.HandleSettings(ctx, -100, 5, false, nil)
	assert.Contains(t, sender.last(), "только в личных сообщениях")

	h.HandleSettings(ctx, 5, 5, true, []string{"password", "x"})
	assert.Contains(t, sender.last(), "Неизвестное поле")

	h.HandleSettings(ctx, 5, 5, true, []string{"delete"})
	assert.Equal(t, "⚙️ Настройки ещё не заданы", sender.last())
}

func TestHandleSettings_Disabled(t *testing.T) {
	s, err := NewService(newMemStore(), &config.Config{})
	require.NoError(t, err)
	sender := &fakeSender{}

	NewHandler(s, sender, time.UTC).HandleSettings(context.Background(), 5, 5, true, nil)
	assert.Equal(t, "⚙️ Хранение настроек отключено", sender.last())
}
