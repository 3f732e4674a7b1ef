package auth

import (
	"strings"
	"testing"
	"time"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	claims := map[string]any{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parsed, err := ParseAndVerifyHS256(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if parsed["sub"] != "user-1" {
		t.Fatalf("unexpected sub claim: %v", parsed["sub"])
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := SignHS256(map[string]any{"sub": "user-1"}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + b64.EncodeToString([]byte(`{"sub":"user-2"}`)) + "." + parts[2]
	if _, err := ParseAndVerifyHS256(tampered, secret); err == nil {
		t.Fatal("expected verification failure for tampered payload")
	}

	if _, err := ParseAndVerifyHS256(token, []byte("other-secret")); err == nil {
		t.Fatal("expected verification failure for wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := SignHS256(map[string]any{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseAndVerifyHS256(token, secret); err != ErrTokenExpired {
		t.Fatalf("expected token expired, got %v", err)
	}
}
