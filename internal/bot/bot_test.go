package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/reach-rewards-bot/internal/bot/filters"
	"serotonyl.ru/reach-rewards-bot/internal/bot/middleware"
	"serotonyl.ru/reach-rewards-bot/internal/config"
	"serotonyl.ru/reach-rewards-bot/internal/features/creators"
	"serotonyl.ru/reach-rewards-bot/internal/features/rewards"
	"serotonyl.ru/reach-rewards-bot/internal/features/settings"
	"serotonyl.ru/reach-rewards-bot/internal/metrics"
)

const testChat int64 = -100500

type fakeTelegram struct {
	texts  []string
	status string
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.texts = append(f.texts, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeTelegram) GetChatMember(tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	return tgbotapi.ChatMember{Status: f.status}, nil
}

func (f *fakeTelegram) last() string {
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type creatorStore struct {
	ids map[int64]bool
}

func (s *creatorStore) Upsert(_ context.Context, p creators.Profile) error {
	s.ids[p.UserID] = true
	return nil
}

func (s *creatorStore) GetByUserID(_ context.Context, userID int64) (*creators.Creator, error) {
	return &creators.Creator{UserID: userID}, nil
}

func (s *creatorStore) Exists(_ context.Context, userID int64) (bool, error) {
	return s.ids[userID], nil
}

func (s *creatorStore) Delete(_ context.Context, userID int64) error {
	delete(s.ids, userID)
	return nil
}

func newTestBot(t *testing.T, limit int) (*Bot, *fakeTelegram, *creatorStore) {
	t.Helper()
	cfg := &config.Config{
		CreatorsChatID:    testChat,
		RewardDefaultRate: decimal.RequireFromString("0.01"),
	}
	tg := &fakeTelegram{status: "left"}
	store := &creatorStore{ids: map[int64]bool{}}
	creatorService := creators.NewService(store)

	settingsService, err := settings.NewService(nil, cfg)
	require.NoError(t, err)

	rl := middleware.NewRateLimiter(limit, time.Hour)
	t.Cleanup(rl.Close)

	b := &Bot{
		sender:          tg,
		cfg:             cfg,
		metrics:         metrics.New(),
		chatFilter:      filters.NewChatFilter(testChat, creatorService, tg),
		rateLimiter:     rl,
		creatorService:  creatorService,
		creatorHandler:  creators.NewHandler(creatorService),
		rewardHandler:   rewards.NewHandler(rewards.NewService(nil, nil, nil, cfg), tg, time.UTC),
		settingsHandler: settings.NewHandler(settingsService, tg, time.UTC),
		parser:          NewCommandParser(),
		inflight:        make(chan struct{}, 1),
	}
	return b, tg, store
}

func textUpdate(chatID int64, chatType string, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID, Type: chatType},
		From: &tgbotapi.User{ID: userID, UserName: "creator"},
		Text: text,
	}}
}

func TestHandleUpdate_RewardInCreatorsChat(t *testing.T) {
	b, tg, store := newTestBot(t, 10)

	b.handleUpdate(context.Background(), textUpdate(testChat, "supergroup", 1, "!награда 50000 0.01"))

	assert.Contains(t, tg.last(), "💰 Примерная награда: $500.00")
	assert.True(t, store.ids[1], "writer in creators chat is registered")
}

func TestHandleUpdate_Aliases(t *testing.T) {
	b, tg, _ := newTestBot(t, 10)
	ctx := context.Background()

	b.handleUpdate(ctx, textUpdate(testChat, "supergroup", 1, "/tiers"))
	assert.Contains(t, tg.last(), "📊 Тиры наград")

	b.handleUpdate(ctx, textUpdate(testChat, "supergroup", 1, ".tier 10001"))
	assert.Contains(t, tg.last(), "🏷 Тир: Growing")

	b.handleUpdate(ctx, textUpdate(testChat, "supergroup", 1, "/start"))
	assert.Contains(t, tg.last(), "Калькулятор наград")

	b.handleUpdate(ctx, textUpdate(testChat, "supergroup", 1, "!история"))
	assert.Equal(t, "📋 История расчётов отключена", tg.last())
}

func TestHandleUpdate_IgnoresPlainTextAndUnknownCommands(t *testing.T) {
	b, tg, _ := newTestBot(t, 10)
	ctx := context.Background()

	b.handleUpdate(ctx, textUpdate(testChat, "supergroup", 1, "всем привет"))
	b.handleUpdate(ctx, textUpdate(testChat, "supergroup", 1, "!слоты"))
	assert.Empty(t, tg.texts)
}

func TestHandleUpdate_PrivateStrangerDenied(t *testing.T) {
	b, tg, _ := newTestBot(t, 10)

	b.handleUpdate(context.Background(), textUpdate(77, "private", 77, "!тиры"))

	require.Len(t, tg.texts, 1)
	assert.Contains(t, tg.texts[0], "только для участников")
}

func TestHandleUpdate_SettingsInGroupRefused(t *testing.T) {
	b, tg, _ := newTestBot(t, 10)

	b.handleUpdate(context.Background(), textUpdate(testChat, "supergroup", 1, "!настройки"))
	assert.Contains(t, tg.last(), "только в личных сообщениях")
}

func TestHandleUpdate_RateLimited(t *testing.T) {
	b, tg, _ := newTestBot(t, 2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		b.handleUpdate(ctx, textUpdate(testChat, "supergroup", 1, "!тиры"))
	}
	assert.Len(t, tg.texts, 2)
}

func TestHandleUpdate_JoinAndLeave(t *testing.T) {
	b, _, store := newTestBot(t, 10)
	ctx := context.Background()

	b.handleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:           &tgbotapi.Chat{ID: testChat, Type: "supergroup"},
		NewChatMembers: []tgbotapi.User{{ID: 5}},
	}})
	assert.True(t, store.ids[5])

	b.handleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:           &tgbotapi.Chat{ID: testChat, Type: "supergroup"},
		LeftChatMember: &tgbotapi.User{ID: 5},
	}})
	assert.False(t, store.ids[5])

	// В чужом чате события игнорируются.
	b.handleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:           &tgbotapi.Chat{ID: -1, Type: "group"},
		NewChatMembers: []tgbotapi.User{{ID: 6}},
	}})
	assert.False(t, store.ids[6])
}

func TestHandleUpdate_NilMessage(t *testing.T) {
	b, tg, _ := newTestBot(t, 10)
	assert.NotPanics(t, func() { b.handleUpdate(context.Background(), tgbotapi.Update{}) })
	assert.Empty(t, tg.texts)
}

func TestAcquire_StopsOnCancelWhenSlotsBusy(t *testing.T) {
	b, _, _ := newTestBot(t, 10)
	ctx, cancel := context.WithCancel(context.Background())

	require.True(t, b.acquire(ctx))

	done := make(chan bool)
	go func() { done <- b.acquire(ctx) }()
	cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("acquire не заметил отмену контекста")
	}

	<-b.inflight
	assert.True(t, b.acquire(context.Background()))
}
