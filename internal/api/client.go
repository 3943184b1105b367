package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/access"
	"github.com/spec-kit/workforce-client/internal/config"
	"github.com/spec-kit/workforce-client/internal/events"
	"github.com/spec-kit/workforce-client/internal/persistence"
	"github.com/spec-kit/workforce-client/internal/session"
	"github.com/spec-kit/workforce-client/internal/tenant"
	"github.com/spec-kit/workforce-client/internal/transport"
)

// Client is the single-instance session context: it owns the credential
// store, refresh coordinator, tenant resolver, guard, and the typed
// endpoint services, all sharing one pipeline. Constructed once at
// application start and torn down only with the process.
type Client struct {
	Auth        *AuthService
	Users       *UsersService
	Attendance  *AttendanceService
	Leaves      *LeavesService
	Reports     *ReportsService
	Invitations *InvitationsService
	Billing     *BillingService

	Store     *session.Store
	Tenant    *tenant.Resolver
	Guard     *access.Guard
	Bootstrap *session.Bootstrapper
	Events    events.Dispatcher

	kv persistence.KV
}

// New wires the client from configuration. The http.Client carries a
// cookie jar so the backend's refresh cookie flows on every call.
func New(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	kv, err := newKV(cfg, logger)
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewInMemoryDispatcher()
	store := session.NewStore(kv, logger)
	resolver := tenant.NewResolver(cfg, kv)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("init cookie jar: %w", err)
	}
	httpClient := &http.Client{
		Timeout: cfg.API.RequestTimeout(),
		Jar:     jar,
	}

	coordinator := session.NewCoordinator(
		store,
		transport.NewRefreshCall(httpClient, cfg.API.BaseURL, resolver, logger),
		dispatcher,
		logger,
	)
	pipeline := transport.NewPipeline(httpClient, cfg.API.BaseURL, store, resolver, coordinator, dispatcher, logger)

	auth := NewAuthService(pipeline, store, dispatcher, logger)
	bootstrapper := session.NewBootstrapper(store, auth.Me, dispatcher, logger)
	guard := access.NewGuard(store, bootstrapper, dispatcher, logger)

	return &Client{
		Auth:        auth,
		Users:       NewUsersService(pipeline),
		Attendance:  NewAttendanceService(pipeline),
		Leaves:      NewLeavesService(pipeline),
		Reports:     NewReportsService(pipeline),
		Invitations: NewInvitationsService(pipeline),
		Billing:     NewBillingService(pipeline),
		Store:       store,
		Tenant:      resolver,
		Guard:       guard,
		Bootstrap:   bootstrapper,
		Events:      dispatcher,
		kv:          kv,
	}, nil
}

// Close releases the persistence backend.
func (c *Client) Close() error {
	if c.kv == nil {
		return nil
	}
	return c.kv.Close()
}

func newKV(cfg *config.Config, logger *zap.Logger) (persistence.KV, error) {
	switch cfg.Storage.Backend {
	case "file", "":
		return persistence.NewFileKV(cfg.Storage.FilePath), nil
	case "redis":
		return persistence.NewRedisKV(cfg.Redis, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Health pings the backend without auth semantics; used by the CLI.
func (c *Client) Health(ctx context.Context) error {
	return c.Auth.pipeline.DoJSON(ctx, transport.Request{
		Method:      http.MethodGet,
		Path:        "/health/live",
		SkipRefresh: true,
	}, nil)
}
