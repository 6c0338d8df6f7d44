package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/chatrooms/internal/app"
	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/persistence"
	"github.com/Rrens/chatrooms/internal/repository/memory"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.Driver = "memory"
	cfg.Storage.Namespace = ""
	return cfg
}

func TestApp_SendAndReply(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()

	a, err := app.New(ctx, testConfig(), app.WithClock(clock), app.WithStorage(memory.NewStore()))
	require.NoError(t, err)
	defer a.Close()

	msg, err := a.Chat.Send(ctx, domain.MessageInput{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, domain.SenderUser, msg.Sender)

	room, ok := a.Chat.ActiveRoom()
	require.True(t, ok)
	assert.Equal(t, "New Chat", room.Title)
	require.Len(t, room.Messages, 2)
	assert.Equal(t, "Gemini is typing...", room.Messages[1].Text)

	clock.Advance(2 * time.Second)
	assert.Eventually(t, func() bool {
		r, _ := a.Chat.ActiveRoom()
		return len(r.Messages) == 2 && r.Messages[1].Sender == domain.SenderAI
	}, time.Second, 5*time.Millisecond)

	r, _ := a.Chat.ActiveRoom()
	assert.Equal(t, "Gemini's reply after thinking...", r.Messages[1].Text)
}

func TestApp_RestoresFromStorage(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()

	adapter := persistence.New(kv, true, nil)
	require.NoError(t, adapter.Save(ctx, &domain.Session{
		Rooms:        []domain.Room{{ID: "r1", Title: "Trip", Messages: []domain.Message{{ID: "m1", Text: "hi", Sender: domain.SenderUser}}}},
		ActiveRoomID: "r1",
	}))

	a, err := app.New(ctx, testConfig(), app.WithStorage(kv))
	require.NoError(t, err)
	defer a.Close()

	rooms := a.Chat.Rooms()
	require.Len(t, rooms, 1)
	assert.Len(t, rooms[0].Messages, 1)

	room, ok := a.Chat.ActiveRoom()
	require.True(t, ok)
	assert.Equal(t, "r1", room.ID)
}

func TestApp_LegacyMirrorOnly(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()
	require.NoError(t, kv.Set(ctx, persistence.KeyLegacyRooms, `[{"id":"old","title":"Old room"}]`))
	require.NoError(t, kv.Set(ctx, persistence.KeyLegacyActive, "old"))

	a, err := app.New(ctx, testConfig(), app.WithStorage(kv))
	require.NoError(t, err)
	defer a.Close()

	room, ok := a.Chat.ActiveRoom()
	require.True(t, ok)
	assert.Equal(t, "Old room", room.Title)
	assert.Empty(t, room.Messages)
}

func TestApp_Logout(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore()

	a, err := app.New(ctx, testConfig(), app.WithStorage(kv))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Chat.CreateRoom(ctx, "Trip")
	require.NoError(t, err)
	require.NoError(t, a.Adapter.SaveAuth(ctx, domain.Profile{Name: "Ada", Country: "+44", Phone: "7700900123"}))

	require.NoError(t, a.Auth.Logout(ctx))

	assert.Empty(t, a.Chat.Rooms())
	assert.False(t, a.Auth.Current(ctx).Authenticated)
	assert.Equal(t, 0, kv.Len())
}

func TestApp_BadEncryptionKey(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.EncryptionKey = "not-base64!"

	_, err := app.New(context.Background(), cfg, app.WithStorage(memory.NewStore()))
	assert.Error(t, err)
}
