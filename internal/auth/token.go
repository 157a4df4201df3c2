// Package auth pairs shop devices with the API and guards the slip routes.
// A device presents the shop's pairing code once and receives a signed token;
// every request after that carries the token as a bearer credential.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ErrInvalidToken is returned when a device token fails signature or claim
// validation.
var ErrInvalidToken = errors.New("auth: invalid device token")

// TokenIssuer signs and validates device tokens.
type TokenIssuer struct {
	Secret    []byte
	Issuer    string
	Audience  string
	TTL       time.Duration
	ClockSkew time.Duration
	// Now is swappable in tests. Defaults to time.Now.
	Now func() time.Time
}

func (t TokenIssuer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Sign issues a device token for the given device identifier.
func (t TokenIssuer) Sign(deviceID string) (string, time.Time, error) {
	if len(t.Secret) == 0 {
		return "", time.Time{}, errors.New("auth: signing secret not configured")
	}
	now := t.now()
	expiresAt := now.Add(t.TTL)
	builder := jwt.NewBuilder().
		Subject(deviceID).
		Issuer(t.Issuer).
		Audience([]string{t.Audience}).
		IssuedAt(now).
		NotBefore(now.Add(-t.ClockSkew)).
		Expiration(expiresAt)
	token, err := builder.Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, t.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

// Parse validates a device token and returns the device identifier.
func (t TokenIssuer) Parse(raw string) (string, error) {
	if len(t.Secret) == 0 {
		return "", errors.New("auth: signing secret not configured")
	}
	parsed, err := jwt.ParseString(raw, jwt.WithKey(jwa.HS256, t.Secret), jwt.WithValidate(false))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(t.now)),
	}
	if t.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(t.ClockSkew))
	}
	if t.Issuer != "" {
		options = append(options, jwt.WithIssuer(t.Issuer))
	}
	if t.Audience != "" {
		options = append(options, jwt.WithAudience(t.Audience))
	}
	if err := jwt.Validate(parsed, options...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if parsed.Subject() == "" {
		return "", ErrInvalidToken
	}
	return parsed.Subject(), nil
}
