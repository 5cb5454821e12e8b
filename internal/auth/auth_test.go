package auth

import (
	"testing"
	"time"

	"github.com/gamehub-backend/internal/config"
)

func testManager(t *testing.T, secret string, ttl time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.AuthConfig{JWTSecret: secret, TokenTTL: ttl})
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	return m
}

func TestJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager(&config.AuthConfig{}); err == nil {
		t.Error("Expected error for empty secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager(t, "test-secret", time.Hour)

	token, err := m.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	userID, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("VerifyToken returned %q, want user-123", userID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	signer := testManager(t, "secret-a", time.Hour)
	verifier := testManager(t, "secret-b", time.Hour)

	token, err := signer.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("Expected verification to fail with a different secret")
	}
}

func TestTokenExpired(t *testing.T) {
	m := testManager(t, "test-secret", -time.Minute)

	token, err := m.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.VerifyToken(token); err == nil {
		t.Error("Expected verification to fail for an expired token")
	}
}

func TestTokenGarbage(t *testing.T) {
	m := testManager(t, "test-secret", time.Hour)
	if _, err := m.VerifyToken("not-a-token"); err == nil {
		t.Error("Expected verification to fail for garbage input")
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	h := NewHasher(4) // minimum cost keeps the test fast

	hash, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("Hash returned the plaintext")
	}

	if !h.Verify("correct horse battery staple", hash) {
		t.Error("Verify rejected the correct password")
	}
	if h.Verify("wrong password", hash) {
		t.Error("Verify accepted a wrong password")
	}
}

func TestHasherCostClamped(t *testing.T) {
	// Out-of-range costs fall back to the bcrypt default instead of
	// failing at hash time
	h := NewHasher(99)
	if _, err := h.Hash("pw"); err != nil {
		t.Errorf("Hash with clamped cost failed: %v", err)
	}
}
