package filters

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/reach-rewards-bot/internal/features/creators"
)

const creatorsChat int64 = -1001

type fakeAPI struct {
	status  string
	member  bool
	err     error
	lookups int
	sent    []string
}

func (f *fakeAPI) GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	f.lookups++
	if f.err != nil {
		return tgbotapi.ChatMember{}, f.err
	}
	return tgbotapi.ChatMember{Status: f.status, IsMember: f.member}, nil
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

type memStore struct {
	ids map[int64]bool
}

func (m *memStore) Upsert(_ context.Context, p creators.Profile) error {
	m.ids[p.UserID] = true
	return nil
}

func (m *memStore) GetByUserID(_ context.Context, userID int64) (*creators.Creator, error) {
	return &creators.Creator{UserID: userID}, nil
}

func (m *memStore) Exists(_ context.Context, userID int64) (bool, error) {
	return m.ids[userID], nil
}

func (m *memStore) Delete(_ context.Context, userID int64) error {
	delete(m.ids, userID)
	return nil
}

func newFilter(api *fakeAPI, known ...int64) (*ChatFilter, *memStore) {
	store := &memStore{ids: map[int64]bool{}}
	for _, id := range known {
		store.ids[id] = true
	}
	return NewChatFilter(creatorsChat, creators.NewService(store), api), store
}

func message(chatID int64, chatType string, userID int64) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID, Type: chatType},
		From: &tgbotapi.User{ID: userID},
		Text: "!тиры",
	}
}

func TestCheckAccess_CreatorsChat(t *testing.T) {
	api := &fakeAPI{}
	f, _ := newFilter(api)

	assert.True(t, f.CheckAccess(context.Background(), message(creatorsChat, "supergroup", 9)))
	assert.Zero(t, api.lookups)
}

func TestCheckAccess_OtherGroupDenied(t *testing.T) {
	api := &fakeAPI{}
	f, _ := newFilter(api, 9)

	assert.False(t, f.CheckAccess(context.Background(), message(-2002, "group", 9)))
	assert.Empty(t, api.sent)
}

func TestCheckAccess_PrivateKnownCreator(t *testing.T) {
	api := &fakeAPI{}
	f, _ := newFilter(api, 9)

	assert.True(t, f.CheckAccess(context.Background(), message(9, "private", 9)))
	assert.Zero(t, api.lookups)
}

func TestCheckAccess_PrivateBackfill(t *testing.T) {
	api := &fakeAPI{status: "member"}
	f, store := newFilter(api)

	require.True(t, f.CheckAccess(context.Background(), message(9, "private", 9)))
	assert.True(t, store.ids[9])
	assert.Equal(t, 1, api.lookups)
}

func TestCheckAccess_PrivateStranger(t *testing.T) {
	for _, tc := range []struct {
		status string
		member bool
	}{
		{"left", false},
		{"kicked", false},
		{"restricted", false},
	} {
		api := &fakeAPI{status: tc.status, member: tc.member}
		f, store := newFilter(api)

		assert.False(t, f.CheckAccess(context.Background(), message(9, "private", 9)), tc.status)
		assert.False(t, store.ids[9])
		require.Len(t, api.sent, 1)
		assert.Contains(t, api.sent[0], "только для участников")
	}
}

func TestCheckAccess_RestrictedMemberAllowed(t *testing.T) {
	api := &fakeAPI{status: "restricted", member: true}
	f, _ := newFilter(api)

	assert.True(t, f.CheckAccess(context.Background(), message(9, "private", 9)))
}

func TestCheckAccess_TelegramError(t *testing.T) {
	api := &fakeAPI{err: errors.New("timeout")}
	f, _ := newFilter(api)

	assert.False(t, f.CheckAccess(context.Background(), message(9, "private", 9)))
	assert.Empty(t, api.sent)
}

func TestCheckAccess_NilParts(t *testing.T) {
	f, _ := newFilter(&fakeAPI{})
	ctx := context.Background()

	assert.False(t, f.CheckAccess(ctx, nil))
	assert.False(t, f.CheckAccess(ctx, &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: creatorsChat}}))
}
