package devstub_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/workforce-client/internal/access"
	"github.com/spec-kit/workforce-client/internal/api"
	"github.com/spec-kit/workforce-client/internal/api/dto"
	"github.com/spec-kit/workforce-client/internal/config"
	"github.com/spec-kit/workforce-client/internal/devstub"
	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/events"
	"github.com/spec-kit/workforce-client/internal/session"
	apperrors "github.com/spec-kit/workforce-client/pkg/util"
)

func startStub(t *testing.T) (*devstub.Server, string) {
	t.Helper()
	srv := devstub.New(config.StubConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}, zaptest.NewLogger(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.App().Listener(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return srv, "http://" + ln.Addr().String()
}

func newClient(t *testing.T, baseURL, statePath string) *api.Client {
	t.Helper()
	cfg := &config.Config{
		API: config.APIConfig{
			BaseURL:               baseURL,
			Host:                  "acme.app.tld",
			RequestTimeoutSeconds: 5,
		},
		Storage: config.StorageConfig{Backend: "file", FilePath: statePath},
	}
	client, err := api.New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func seedOwner(t *testing.T, srv *devstub.Server) {
	t.Helper()
	err := srv.SeedUser("owner@acme.test", "owner-pass", domain.UserRecord{
		FirstName: "Olive",
		LastName:  "Ng",
		Role:      domain.RoleOwner,
	}, domain.PlanPro)
	require.NoError(t, err)
}

func TestLoginEstablishesSession(t *testing.T) {
	ctx := context.Background()
	srv, baseURL := startStub(t)
	seedOwner(t, srv)
	client := newClient(t, baseURL, filepath.Join(t.TempDir(), "state.json"))

	user, err := client.Auth.Login(ctx, "owner@acme.test", "owner-pass")
	require.NoError(t, err)
	assert.Equal(t, "owner@acme.test", user.Email)
	assert.True(t, client.Store.IsAuthenticated())
	assert.Equal(t, domain.PlanPro, client.Store.Subscription().Plan)

	// The tenant resolved from the configured host rides every call.
	assert.Equal(t, "acme", srv.LastTenantHeader())

	fetched, sub, err := client.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
	assert.Equal(t, domain.PlanPro, sub.Plan)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ctx := context.Background()
	srv, baseURL := startStub(t)
	seedOwner(t, srv)
	client := newClient(t, baseURL, filepath.Join(t.TempDir(), "state.json"))

	_, err := client.Auth.Login(ctx, "owner@acme.test", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.False(t, client.Store.IsAuthenticated())
}

func TestRevokedCredentialRecoversThroughRefresh(t *testing.T) {
	ctx := context.Background()
	srv, baseURL := startStub(t)
	seedOwner(t, srv)
	client := newClient(t, baseURL, filepath.Join(t.TempDir(), "state.json"))

	_, err := client.Auth.Login(ctx, "owner@acme.test", "owner-pass")
	require.NoError(t, err)
	before, ok := client.Store.Get()
	require.True(t, ok)

	srv.RevokeAccessTokens()

	user, _, err := client.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "owner@acme.test", user.Email)

	after, ok := client.Store.Get()
	require.True(t, ok)
	assert.NotEqual(t, before.AccessToken, after.AccessToken)
}

func TestRefreshFailureClearsSession(t *testing.T) {
	ctx := context.Background()
	srv, baseURL := startStub(t)
	seedOwner(t, srv)
	client := newClient(t, baseURL, filepath.Join(t.TempDir(), "state.json"))

	_, err := client.Auth.Login(ctx, "owner@acme.test", "owner-pass")
	require.NoError(t, err)

	var expired int
	client.Events.Subscribe(events.EventSessionExpired, func(context.Context, events.Event) error {
		expired++
		return nil
	})

	srv.RevokeAccessTokens()
	srv.FailRefresh(true)

	_, _, err = client.Auth.Me(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsRefreshFailed(err))
	assert.False(t, client.Store.IsAuthenticated())
	assert.Equal(t, 1, expired)
}

func TestBootstrapRestoresPersistedSession(t *testing.T) {
	ctx := context.Background()
	srv, baseURL := startStub(t)
	seedOwner(t, srv)
	statePath := filepath.Join(t.TempDir(), "state.json")

	first := newClient(t, baseURL, statePath)
	_, err := first.Auth.Login(ctx, "owner@acme.test", "owner-pass")
	require.NoError(t, err)

	// A fresh process sees only the persisted state file.
	second := newClient(t, baseURL, statePath)
	state := second.Bootstrap.Run(ctx)
	require.Equal(t, session.StateAuthenticated, state)

	user, ok := second.Store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "owner@acme.test", user.Email)

	outcome, err := second.Guard.Check(ctx, access.Requirement{
		Roles: []domain.Role{domain.RoleOwner, domain.RoleAdmin},
		Plans: []domain.SubscriptionPlan{domain.PlanPro, domain.PlanEnterprise},
	})
	require.NoError(t, err)
	assert.True(t, outcome.Allowed())
}

func TestBootstrapWithoutPersistedState(t *testing.T) {
	ctx := context.Background()
	_, baseURL := startStub(t)
	client := newClient(t, baseURL, filepath.Join(t.TempDir(), "state.json"))

	state := client.Bootstrap.Run(ctx)
	assert.Equal(t, session.StateUnauthenticated, state)
	assert.False(t, client.Store.IsAuthenticated())
}

func TestLogoutEndsBackendSession(t *testing.T) {
	ctx := context.Background()
	srv, baseURL := startStub(t)
	seedOwner(t, srv)
	client := newClient(t, baseURL, filepath.Join(t.TempDir(), "state.json"))

	_, err := client.Auth.Login(ctx, "owner@acme.test", "owner-pass")
	require.NoError(t, err)
	require.NoError(t, client.Auth.Logout(ctx))
	assert.False(t, client.Store.IsAuthenticated())

	// The refresh session is gone server-side, so nothing can recover.
	_, _, err = client.Auth.Me(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsRefreshFailed(err))
}

func TestRegisterCreatesAccountAndSession(t *testing.T) {
	ctx := context.Background()
	_, baseURL := startStub(t)
	client := newClient(t, baseURL, filepath.Join(t.TempDir(), "state.json"))

	user, err := client.Auth.Register(ctx, dtoRegister("new@acme.test"))
	require.NoError(t, err)
	assert.Equal(t, "new@acme.test", user.Email)
	assert.Equal(t, domain.RoleOwner, user.Role)
	assert.True(t, client.Store.IsAuthenticated())

	// Duplicate registration is a validation failure, not an auth one.
	_, err = client.Auth.Register(ctx, dtoRegister("new@acme.test"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func dtoRegister(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     email,
		Password:  "register-pass",
		FirstName: "Nadia",
		LastName:  "Okafor",
	}
}
