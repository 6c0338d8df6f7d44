package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/chatrooms/internal/api"
	"github.com/Rrens/chatrooms/internal/app"
	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/repository/memory"
	"github.com/Rrens/chatrooms/internal/repository/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var profile = domain.Profile{Name: "Ada", Country: "+44", Phone: "7700900123"}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

type testServer struct {
	app     *app.App
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	countriesSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":{"common":"Japan"},"idd":{"root":"+8","suffixes":["1"]}}]`))
	}))
	t.Cleanup(countriesSrv.Close)

	cfg := config.Default()
	cfg.Storage.Driver = "memory"
	cfg.Storage.Namespace = ""
	cfg.Auth.VerifyDelay = 0
	cfg.Countries.URL = countriesSrv.URL

	a, err := app.New(context.Background(), cfg, app.WithStorage(memory.NewStore()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	token, _, err := a.JWT.GenerateAccessToken(profile)
	require.NoError(t, err)

	return &testServer{app: a, handler: api.NewRouter(a, nil), token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRouter_LoginFlow(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/otp", domain.OTPRequest{Profile: profile})
	require.Equal(t, http.StatusOK, rec.Code)
	var sent map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	require.NotEmpty(t, sent["otp"])

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/verify", domain.OTPVerify{Profile: profile, OTP: "0"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/verify", domain.OTPVerify{Profile: profile, OTP: sent["otp"]})
	require.Equal(t, http.StatusOK, rec.Code)
	var login domain.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, profile, login.User)

	s.token = login.AccessToken
	rec, _ = s.do(t, http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec, _ := s.do(t, http.MethodGet, "/api/v1/rooms", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Validation(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/otp", domain.OTPRequest{Profile: domain.Profile{Name: "A"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotNil(t, env.Error)
}

func TestRouter_Rooms(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/rooms", domain.RoomCreate{Title: "Trip"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var room domain.Room
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, "Trip", room.Title)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/rooms", domain.RoomCreate{Title: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/rooms/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active domain.Room
	require.NoError(t, json.Unmarshal(env.Data, &active))
	assert.Equal(t, room.ID, active.ID)

	rec, env = s.do(t, http.MethodGet, "/api/v1/rooms?q=tri", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []domain.RoomSummary
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Equal(t, []domain.RoomSummary{{ID: room.ID, Title: "Trip"}}, found)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/rooms/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/rooms/"+room.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/rooms/active", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, s.app.Chat.Rooms())
}

func TestRouter_SendCreatesRoom(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/messages", domain.MessageInput{Text: "hello"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var msg domain.Message
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, domain.SenderUser, msg.Sender)

	rooms := s.app.Chat.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "New Chat", rooms[0].Title)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/messages", domain.MessageInput{Text: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed.Messages, 2)
	assert.True(t, listed.Messages[1].IsPlaceholder())

	rec, env = s.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Message sent")
}

func TestRouter_UploadImage(t *testing.T) {
	s := newTestServer(t)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	_, err = fw.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("text", "look"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	room, ok := s.app.Chat.ActiveRoom()
	require.True(t, ok)
	assert.Equal(t, "look", room.Messages[0].Text)
	assert.Contains(t, room.Messages[0].Image, "data:image/png;base64,")
}

func TestRouter_Countries(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/countries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Japan","code":"+81"}]`, string(env.Data))
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (redis.Decision, error) {
	return redis.Decision{Allowed: false, Limit: 1}, nil
}

func TestRouter_RateLimited(t *testing.T) {
	s := newTestServer(t)
	s.handler = api.NewRouter(s.app, denyAll{})

	rec, _ := s.do(t, http.MethodGet, "/api/v1/rooms", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
