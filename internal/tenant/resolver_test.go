package tenant

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workforce-client/internal/config"
	"github.com/spec-kit/workforce-client/internal/persistence"
)

func newResolver(t *testing.T, host, override string) (*Resolver, persistence.KV) {
	t.Helper()
	kv := persistence.NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	cfg := &config.Config{}
	cfg.API.Host = host
	cfg.Tenant.Override = override
	return NewResolver(cfg, kv), kv
}

func TestResolveFromSubdomain(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
		ok   bool
	}{
		{name: "three labels", host: "acme.app.tld", want: "acme", ok: true},
		{name: "bare domain", host: "app.tld", ok: false},
		{name: "www is not a tenant", host: "www.app.tld", ok: false},
		{name: "deep subdomain", host: "acme.staging.app.tld", want: "acme", ok: true},
		{name: "empty host", host: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newResolver(t, tt.host, "")
			got, ok := r.Resolve(context.Background())
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePersistedSelectionWinsOverHost(t *testing.T) {
	r, _ := newResolver(t, "other.app.tld", "")
	require.NoError(t, r.SetTenant(context.Background(), "acme"))

	got, ok := r.Resolve(context.Background())
	require.True(t, ok)
	assert.Equal(t, "acme", got)
}

func TestResolveOverrideWinsOverSubdomain(t *testing.T) {
	r, _ := newResolver(t, "other.app.tld", "dev-tenant")

	got, ok := r.Resolve(context.Background())
	require.True(t, ok)
	assert.Equal(t, "dev-tenant", got)
}

func TestResolvePersistedWinsOverOverride(t *testing.T) {
	r, _ := newResolver(t, "app.tld", "dev-tenant")
	require.NoError(t, r.SetTenant(context.Background(), "Chosen "))

	got, ok := r.Resolve(context.Background())
	require.True(t, ok)
	assert.Equal(t, "chosen", got, "persisted selection is normalized and wins")
}

func TestSetTenantClear(t *testing.T) {
	r, _ := newResolver(t, "app.tld", "")
	ctx := context.Background()
	require.NoError(t, r.SetTenant(ctx, "acme"))
	require.NoError(t, r.SetTenant(ctx, ""))

	_, ok := r.Resolve(ctx)
	assert.False(t, ok, "cleared selection with no other source resolves to nothing")
}

func TestResolveReflectsMidSessionChange(t *testing.T) {
	r, _ := newResolver(t, "app.tld", "")
	ctx := context.Background()

	_, ok := r.Resolve(ctx)
	require.False(t, ok)

	// Selection made after onboarding must apply to the very next request.
	require.NoError(t, r.SetTenant(ctx, "fresh"))
	got, ok := r.Resolve(ctx)
	require.True(t, ok)
	assert.Equal(t, "fresh", got)
}
