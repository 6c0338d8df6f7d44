package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/notify"
	"github.com/Rrens/chatrooms/internal/security"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// AuthStore is the auth mirror in persistence
type AuthStore interface {
	SaveOTP(ctx context.Context, hash string) error
	LoadOTP(ctx context.Context) (string, bool)
	SaveAuth(ctx context.Context, p domain.Profile) error
	LoadAuth(ctx context.Context) domain.AuthState
	ClearAuth(ctx context.Context) error
}

// SessionResetter tears the chat state down on logout
type SessionResetter interface {
	Reset(ctx context.Context) error
}

// ReplyCanceller drops scheduled assistant replies
type ReplyCanceller interface {
	CancelAll()
}

// AuthService handles the one-time-code login flow
type AuthService struct {
	store       AuthStore
	jwtManager  *security.JWTManager
	session     SessionResetter
	replies     ReplyCanceller
	notifier    notify.Notifier
	clock       clockwork.Clock
	otpDigits   int
	verifyDelay time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	store AuthStore,
	jwtManager *security.JWTManager,
	session SessionResetter,
	replies ReplyCanceller,
	notifier notify.Notifier,
	clock clockwork.Clock,
	cfg config.AuthConfig,
) *AuthService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &AuthService{
		store:       store,
		jwtManager:  jwtManager,
		session:     session,
		replies:     replies,
		notifier:    notifier,
		clock:       clock,
		otpDigits:   cfg.OTPDigits,
		verifyDelay: cfg.VerifyDelay,
	}
}

// RequestOTP issues a new code for the profile and returns it
func (s *AuthService) RequestOTP(ctx context.Context, input domain.OTPRequest) (string, error) {
	if err := validate.Struct(input); err != nil {
		return "", err
	}

	code, err := security.GenerateOTP(s.otpDigits)
	if err != nil {
		return "", err
	}

	hash, err := security.HashOTP(code)
	if err != nil {
		return "", err
	}

	if err := s.store.SaveOTP(ctx, hash); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	s.notifier.Notify(ctx, notify.LevelSuccess, "OTP sent: "+code)
	log.Info().Str("phone", input.Phone).Msg("OTP issued")
	return code, nil
}

// Verify checks the code, waits out the verification delay and signs the user in
func (s *AuthService) Verify(ctx context.Context, input domain.OTPVerify) (*domain.LoginResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	hash, ok := s.store.LoadOTP(ctx)
	if !ok {
		return nil, domain.ErrOTPNotRequested
	}

	if !security.CompareOTP(hash, input.OTP) {
		s.notifier.Notify(ctx, notify.LevelError, "Invalid OTP. Please try again.")
		return nil, domain.ErrInvalidOTP
	}

	s.notifier.Notify(ctx, notify.LevelInfo, "Verifying")
	select {
	case <-s.clock.After(s.verifyDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := s.store.SaveAuth(ctx, input.Profile); err != nil {
		return nil, fmt.Errorf("failed to store login: %w", err)
	}

	token, expiresIn, err := s.jwtManager.GenerateAccessToken(input.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.notifier.Notify(ctx, notify.LevelSuccess, "OTP verified. Login successful.")
	log.Info().Str("phone", input.Phone).Msg("User logged in")

	return &domain.LoginResult{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		User:        input.Profile,
	}, nil
}

// Current returns the stored login. A stored profile counts as signed in.
func (s *AuthService) Current(ctx context.Context) domain.AuthState {
	state := s.store.LoadAuth(ctx)
	if state.User != nil {
		state.Authenticated = true
	}
	return state
}

// Logout clears the auth mirror, drops pending replies and empties the chat state
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.ClearAuth(ctx); err != nil {
		return fmt.Errorf("failed to clear login: %w", err)
	}
	if s.replies != nil {
		s.replies.CancelAll()
	}
	if s.session != nil {
		if err := s.session.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset chat state: %w", err)
		}
	}
	log.Info().Msg("User logged out")
	return nil
}
