package creators

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/reach-rewards-bot/internal/common"
)

type memStore struct {
	byID      map[int64]*Creator
	upserts   int
	existsErr error
}

func newMemStore() *memStore {
	return &memStore{byID: map[int64]*Creator{}}
}

func (m *memStore) Upsert(_ context.Context, p Profile) error {
	m.upserts++
	m.byID[p.UserID] = &Creator{UserID: p.UserID, Username: p.Username, FirstName: p.FirstName, LastName: p.LastName}
	return nil
}

func (m *memStore) GetByUserID(_ context.Context, userID int64) (*Creator, error) {
	c, ok := m.byID[userID]
	if !ok {
		return nil, fmt.Errorf("%w (user_id=%d)", common.ErrCreatorNotFound, userID)
	}
	return c, nil
}

func (m *memStore) Exists(_ context.Context, userID int64) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.byID[userID]
	return ok, nil
}

func (m *memStore) Delete(_ context.Context, userID int64) error {
	delete(m.byID, userID)
	return nil
}

func TestService_EnsureRegistersOnce(t *testing.T) {
	store := newMemStore()
	s := NewService(store)
	ctx := context.Background()
	p := Profile{UserID: 10, Username: "reels_maker", FirstName: "Аня"}

	require.NoError(t, s.Ensure(ctx, p))
	require.NoError(t, s.Ensure(ctx, p))
	assert.Equal(t, 1, store.upserts)

	ok, err := s.IsCreator(ctx, 10)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_EnsurePropagatesStoreError(t *testing.T) {
	store := newMemStore()
	store.existsErr = errors.New("db down")

	err := NewService(store).Ensure(context.Background(), Profile{UserID: 1})
	assert.Error(t, err)
	assert.Zero(t, store.upserts)
}

func TestService_RemoveRevokesAccess(t *testing.T) {
	s := NewService(newMemStore())
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, Profile{UserID: 5}))

	require.NoError(t, s.Remove(ctx, 5))

	ok, err := s.IsCreator(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.GetByUserID(ctx, 5)
	assert.ErrorIs(t, err, common.ErrCreatorNotFound)
}

func TestHandler_NewAndLeftMembers(t *testing.T) {
	store := newMemStore()
	h := NewHandler(NewService(store))
	ctx := context.Background()

	h.HandleNewChatMembers(ctx, []tgbotapi.User{
		{ID: 1, UserName: "one"},
		{ID: 2, UserName: "helper_bot", IsBot: true},
		{ID: 3, FirstName: "Три"},
	})
	assert.Len(t, store.byID, 2)
	assert.Contains(t, store.byID, int64(1))
	assert.NotContains(t, store.byID, int64(2))

	h.HandleLeftChatMember(ctx, &tgbotapi.User{ID: 1})
	h.HandleLeftChatMember(ctx, nil)
	assert.Len(t, store.byID, 1)
}

func TestCreator_DisplayName(t *testing.T) {
	assert.Equal(t, "@reels", (&Creator{Username: "reels", FirstName: "Аня"}).DisplayName())
	assert.Equal(t, "Аня Ким", (&Creator{FirstName: "Аня", LastName: "Ким"}).DisplayName())
	assert.Equal(t, "Аня", (&Creator{FirstName: "Аня"}).DisplayName())
}
