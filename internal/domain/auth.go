package domain

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Credential is the bearer token proving an authenticated session,
// optionally paired with a refresh companion. At most one credential is
// current at a time; the previous one is discarded atomically on refresh.
type Credential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// IsZero reports whether no token is held.
func (c Credential) IsZero() bool {
	return c.AccessToken == ""
}

// ExpiresAt peeks at the access token's exp claim without verifying the
// signature. The zero time is returned when the token is opaque or carries
// no expiry; callers must treat that as "unknown", not "expired".
func (c Credential) ExpiresAt() time.Time {
	if c.AccessToken == "" {
		return time.Time{}
	}
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(c.AccessToken, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// ExpiresWithin reports whether the token is known to expire within d.
func (c Credential) ExpiresWithin(d time.Duration) bool {
	exp := c.ExpiresAt()
	if exp.IsZero() {
		return false
	}
	return time.Until(exp) < d
}
