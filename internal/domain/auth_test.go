package domain

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestCredentialExpiresAt(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	cred := Credential{AccessToken: signedToken(t, exp)}

	assert.True(t, cred.ExpiresAt().Equal(exp))
	assert.True(t, cred.ExpiresWithin(time.Hour))
	assert.False(t, cred.ExpiresWithin(time.Minute))
}

func TestCredentialOpaqueTokenHasUnknownExpiry(t *testing.T) {
	cred := Credential{AccessToken: "not-a-jwt"}

	assert.True(t, cred.ExpiresAt().IsZero())
	assert.False(t, cred.ExpiresWithin(time.Hour))
}

func TestCredentialIsZero(t *testing.T) {
	assert.True(t, Credential{}.IsZero())
	assert.False(t, Credential{AccessToken: "tok"}.IsZero())
}

func TestPlanCovers(t *testing.T) {
	paid := []SubscriptionPlan{PlanPro, PlanEnterprise}

	assert.False(t, PlanFree.Covers(paid))
	assert.True(t, PlanPro.Covers(paid))
	assert.True(t, PlanEnterprise.Covers(paid))

	// Trial shares the top rank, so it satisfies enterprise-only gates.
	assert.True(t, PlanTrial.Covers([]SubscriptionPlan{PlanEnterprise}))
	assert.False(t, PlanPro.Covers([]SubscriptionPlan{PlanEnterprise}))
	assert.False(t, PlanFree.Covers([]SubscriptionPlan{PlanPro}))
}
