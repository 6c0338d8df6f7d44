package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rrens/chatrooms/internal/llm"
	"github.com/Rrens/chatrooms/internal/llm/scripted"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_GetProvider(t *testing.T) {
	router := llm.NewRouter(scripted.Name)
	router.RegisterProvider(scripted.New("Gemini's reply after thinking..."))

	p, err := router.GetProvider("")
	require.NoError(t, err)
	assert.Equal(t, scripted.Name, p.Name())

	_, err = router.GetProvider("openai")
	assert.Error(t, err)

	assert.Equal(t, []string{scripted.Name}, router.ListProviders())
}

func TestRouter_UnconfiguredProvider(t *testing.T) {
	router := llm.NewRouter(scripted.Name)
	router.RegisterProvider(scripted.New())

	_, err := router.GetProvider(scripted.Name)
	assert.Error(t, err)
	assert.Empty(t, router.ListProviders())
}

func TestScripted_RepliesInOrder(t *testing.T) {
	p := scripted.New("one", "two")
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		resp, err := p.Reply(ctx, llm.Request{Prompt: "hi"})
		require.NoError(t, err)
		got = append(got, resp.Text)
	}
	assert.Equal(t, []string{"one", "two", "two"}, got)
}

func TestScripted_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scripted.New("x").Reply(ctx, llm.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

type failing struct{ name string }

func (f failing) Name() string { return f.name }
func (f failing) IsConfigured() bool { return true }
func (f failing) Reply(context.Context, llm.Request) (*llm.Response, error) {
	return nil, errors.New("upstream unavailable")
}

func TestRouter_ReplyFallsBack(t *testing.T) {
	router := llm.NewRouter("primary")
	router.RegisterProvider(scripted.New("from script"))
	router.RegisterProvider(failing{name: "primary"})

	assert.True(t, router.IsConfigured())

	resp, err := router.Reply(context.Background(), llm.Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from script", resp.Text)
	assert.Equal(t, scripted.Name, resp.Provider)
}

func TestRouter_ReplyAllFail(t *testing.T) {
	router := llm.NewRouter("a")
	router.RegisterProvider(failing{name: "a"})
	router.RegisterProvider(failing{name: "b"})

	_, err := router.Reply(context.Background(), llm.Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: upstream unavailable")
	assert.Contains(t, err.Error(), "b: upstream unavailable")
}

func TestRouter_ReplyWithoutProviders(t *testing.T) {
	router := llm.NewRouter(scripted.Name)
	router.RegisterProvider(scripted.New())

	assert.False(t, router.IsConfigured())
	_, err := router.Reply(context.Background(), llm.Request{})
	assert.ErrorIs(t, err, llm.ErrNoProvider)
}
