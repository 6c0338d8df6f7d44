package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

const issuer = "chatrooms"

// Claims carries the signed-in profile. Subject is the phone number.
type Claims struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	jwt.RegisteredClaims
}

// Profile rebuilds the user profile from the claims
func (c *Claims) Profile() domain.Profile {
	return domain.Profile{Name: c.Name, Country: c.Country, Phone: c.Subject}
}

// JWTManager handles JWT token operations
type JWTManager struct {
	secret         []byte
	accessTokenTTL time.Duration
	clock          clockwork.Clock
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, accessTTL time.Duration, clock clockwork.Clock) *JWTManager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &JWTManager{
		secret:         []byte(secret),
		accessTokenTTL: accessTTL,
		clock:          clock,
	}
}

// GenerateAccessToken signs a token for the given profile
func (m *JWTManager) GenerateAccessToken(p domain.Profile) (string, int64, error) {
	now := m.clock.Now()
	claims := Claims{
		Name:    p.Name,
		Country: p.Country,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Phone,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, int64(m.accessTokenTTL.Seconds()), nil
}

// ValidateAccessToken validates an access token and returns the claims
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now), jwt.WithIssuer(issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// AccessTokenTTL returns the access token TTL
func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.accessTokenTTL
}
