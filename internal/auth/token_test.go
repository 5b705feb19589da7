package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewTokenService("test-secret", "compboard", time.Hour)

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	teamID, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if teamID != 42 {
		t.Fatalf("expected team id 42, got %d", teamID)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", "compboard", time.Hour)
	verifier := NewTokenService("secret-b", "compboard", time.Hour)

	token, err := issuer.GenerateToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", "compboard", time.Nanosecond)

	token, err := svc.GenerateToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := svc.ValidateToken(token); err != ErrExpiredToken {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123456")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !VerifyPassword("pw123456", hash) {
		t.Fatalf("expected password to verify against its own hash")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("expected mismatched password to fail verification")
	}
}
