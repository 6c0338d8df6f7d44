package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// GenerateOTP returns a random numeric code of the given length with no leading zero
func GenerateOTP(digits int) (string, error) {
	if digits <= 0 {
		return "", errors.New("otp length must be positive")
	}

	var b strings.Builder
	for i := 0; i < digits; i++ {
		max := int64(10)
		if i == 0 {
			max = 9
		}
		n, err := rand.Int(rand.Reader, big.NewInt(max))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		d := n.Int64()
		if i == 0 {
			d++
		}
		b.WriteByte(byte('0' + d))
	}
	return b.String(), nil
}

// HashOTP hashes a code for storage
func HashOTP(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash otp: %w", err)
	}
	return string(hash), nil
}

// CompareOTP reports whether code matches the stored hash
func CompareOTP(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
