package auth

import (
	"errors"
	"testing"
	"time"
)

func testIssuer(now time.Time) TokenIssuer {
	return TokenIssuer{
		Secret:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:    "backend-slip",
		Audience:  "slip-devices",
		TTL:       time.Hour,
		ClockSkew: time.Second,
		Now:       func() time.Time { return now },
	}
}

func TestSignAndParse(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	issuer := testIssuer(now)

	token, expiresAt, err := issuer.Sign("device-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expiresAt = %v", expiresAt)
	}

	deviceID, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if deviceID != "device-1" {
		t.Fatalf("deviceID = %q", deviceID)
	}
}

func TestParseExpiredToken(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	issuer := testIssuer(now)
	token, _, err := issuer.Sign("device-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	later := testIssuer(now.Add(2 * time.Hour))
	if _, err := later.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	issuer := testIssuer(now)
	token, _, err := issuer.Sign("device-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	other := testIssuer(now)
	other.Secret = []byte("ffffffffffffffffffffffffffffffff")
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseWrongAudience(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	issuer := testIssuer(now)
	token, _, err := issuer.Sign("device-1")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	other := testIssuer(now)
	other.Audience = "someone-else"
	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
