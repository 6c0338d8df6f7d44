package service

import (
	"context"
	"testing"
	"time"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/notify"
	"github.com/Rrens/chatrooms/internal/persistence"
	"github.com/Rrens/chatrooms/internal/repository/memory"
	"github.com/Rrens/chatrooms/internal/security"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProfile = domain.Profile{Name: "Ada", Country: "+44", Phone: "7700900123"}

type authFixture struct {
	svc     *AuthService
	adapter *persistence.Adapter
	clock   *clockwork.FakeClock
	feed    *notify.Feed
	session *MockSessionResetter
	replies *MockReplyScheduler
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clock := clockwork.NewFakeClock()
	adapter := persistence.New(memory.NewStore(), false, nil)
	feed := notify.NewFeed(10, nil)
	sessionReset := new(MockSessionResetter)
	replies := new(MockReplyScheduler)

	svc := NewAuthService(
		adapter,
		security.NewJWTManager("test-secret-key-with-32-chars!!", time.Hour, clock),
		sessionReset,
		replies,
		feed,
		clock,
		config.AuthConfig{OTPDigits: 6, VerifyDelay: 3 * time.Second},
	)
	return &authFixture{svc: svc, adapter: adapter, clock: clock, feed: feed, session: sessionReset, replies: replies}
}

// verify runs Verify while advancing the fake clock past the verification delay
func (f *authFixture) verify(t *testing.T, ctx context.Context, in domain.OTPVerify) (*domain.LoginResult, error) {
	t.Helper()
	type result struct {
		res *domain.LoginResult
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := f.svc.Verify(ctx, in)
		done <- result{res, err}
	}()

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(waitCtx, 1))
	f.clock.Advance(3 * time.Second)

	r := <-done
	return r.res, r.err
}

func TestAuthService_RequestAndVerify(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	code, err := f.svc.RequestOTP(ctx, domain.OTPRequest{Profile: testProfile})
	require.NoError(t, err)
	assert.Len(t, code, 6)

	hash, ok := f.adapter.LoadOTP(ctx)
	require.True(t, ok)
	assert.NotEqual(t, code, hash)

	res, err := f.verify(t, ctx, domain.OTPVerify{Profile: testProfile, OTP: code})
	require.NoError(t, err)
	assert.Equal(t, testProfile, res.User)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	state := f.svc.Current(ctx)
	assert.True(t, state.Authenticated)
	assert.Equal(t, testProfile, *state.User)

	_, ok = f.adapter.LoadOTP(ctx)
	assert.False(t, ok)

	msgs := messagesOf(f.feed)
	assert.Equal(t, "OTP sent: "+code, msgs[0])
	assert.Equal(t, "OTP verified. Login successful.", msgs[len(msgs)-1])
}

func TestAuthService_InvalidOTP(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	code, err := f.svc.RequestOTP(ctx, domain.OTPRequest{Profile: testProfile})
	require.NoError(t, err)

	wrong := "100000"
	if code == wrong {
		wrong = "100001"
	}

	_, err = f.svc.Verify(ctx, domain.OTPVerify{Profile: testProfile, OTP: wrong})
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	assert.False(t, f.svc.Current(ctx).Authenticated)
	assert.Contains(t, messagesOf(f.feed), "Invalid OTP. Please try again.")
}

func TestAuthService_VerifyWithoutRequest(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Verify(context.Background(), domain.OTPVerify{Profile: testProfile, OTP: "123456"})
	assert.ErrorIs(t, err, domain.ErrOTPNotRequested)
}

func TestAuthService_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		profile domain.Profile
	}{
		{name: "short name", profile: domain.Profile{Name: "A", Country: "+44", Phone: "7700900123"}},
		{name: "no country", profile: domain.Profile{Name: "Ada", Phone: "7700900123"}},
		{name: "short phone", profile: domain.Profile{Name: "Ada", Country: "+44", Phone: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RequestOTP(ctx, domain.OTPRequest{Profile: tt.profile})
			assert.Error(t, err)
		})
	}
}

func TestAuthService_VerifyCancelled(t *testing.T) {
	f := newAuthFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	code, err := f.svc.RequestOTP(ctx, domain.OTPRequest{Profile: testProfile})
	require.NoError(t, err)

	cancel()
	_, err = f.svc.Verify(ctx, domain.OTPVerify{Profile: testProfile, OTP: code})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.svc.Current(context.Background()).Authenticated)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.adapter.SaveAuth(ctx, testProfile))
	f.replies.On("CancelAll").Return()
	f.session.On("Reset", ctx).Return(nil)

	require.NoError(t, f.svc.Logout(ctx))

	assert.Equal(t, domain.AuthState{}, f.svc.Current(ctx))
	f.replies.AssertExpectations(t)
	f.session.AssertExpectations(t)
}
