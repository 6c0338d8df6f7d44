package security_test

import (
	"testing"

	"github.com/Rrens/chatrooms/internal/security"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := security.GenerateOTP(6)
		if err != nil {
			t.Fatalf("failed to generate otp: %v", err)
		}

		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}

		if code[0] == '0' {
			t.Errorf("otp has a leading zero: %q", code)
		}

		for _, r := range code {
			if r < '0' || r > '9' {
				t.Errorf("otp contains a non-digit: %q", code)
			}
		}
	}

	if _, err := security.GenerateOTP(0); err == nil {
		t.Error("expected error for zero length, got nil")
	}
}

func TestHashOTP(t *testing.T) {
	hash, err := security.HashOTP("123456")
	if err != nil {
		t.Fatalf("failed to hash otp: %v", err)
	}

	if hash == "123456" {
		t.Error("hash equals the code")
	}

	if !security.CompareOTP(hash, "123456") {
		t.Error("expected matching code to compare")
	}

	if security.CompareOTP(hash, "654321") {
		t.Error("expected other code not to compare")
	}
}
