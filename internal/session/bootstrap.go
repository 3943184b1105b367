package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/events"
)

// State describes where the bootstrap stands. Access checks must not run
// while Unresolved; callers render a neutral loading state instead.
type State int

const (
	StateUnresolved State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// MeFunc fetches the authenticated user and subscription through the
// request pipeline, so an expired access token can still recover via the
// refresh path.
type MeFunc func(ctx context.Context) (domain.UserRecord, domain.Subscription, error)

// Bootstrapper establishes a session from persisted state at application
// start. It runs exactly once per process and is idempotent thereafter.
type Bootstrapper struct {
	once  sync.Once
	mu    sync.RWMutex
	state State

	store  *Store
	me     MeFunc
	events events.Dispatcher
	logger *zap.Logger
}

// NewBootstrapper builds a bootstrapper over the store.
func NewBootstrapper(store *Store, me MeFunc, dispatcher events.Dispatcher, logger *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		store:  store,
		me:     me,
		events: dispatcher,
		logger: logger,
	}
}

// State reports the current bootstrap state.
func (b *Bootstrapper) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Run resolves the session. With no persisted credential it resolves
// unauthenticated immediately, without any network call. With one, it
// restores the credential and validates it with a "who am I" call;
// any failure discards the persisted state. Subsequent calls return the
// already-resolved state.
func (b *Bootstrapper) Run(ctx context.Context) State {
	b.once.Do(func() {
		b.resolve(ctx)
	})
	return b.State()
}

func (b *Bootstrapper) resolve(ctx context.Context) {
	cred, ok := b.store.LoadPersisted(ctx)
	if !ok {
		b.setState(StateUnauthenticated)
		b.logger.Debug("no persisted credential, session unauthenticated")
		return
	}

	b.store.Restore(cred)

	user, sub, err := b.me(ctx)
	if err != nil {
		b.logger.Info("persisted session rejected", zap.Error(err))
		if clearErr := b.store.Clear(ctx); clearErr != nil {
			b.logger.Warn("failed to discard persisted credential", zap.Error(clearErr))
		}
		b.setState(StateUnauthenticated)
		return
	}

	// The credential may have rotated while validating; keep whatever the
	// store holds now rather than the one loaded above.
	current, _ := b.store.Get()
	if err := b.store.Set(ctx, current, user); err != nil {
		b.logger.Warn("failed to persist session", zap.Error(err))
	}
	b.store.SetSubscription(sub)
	b.setState(StateAuthenticated)

	if b.events != nil {
		_ = b.events.Publish(ctx, events.EventSessionEstablished, events.SessionEstablishedPayload{
			User: user,
			Plan: sub.Plan,
		})
	}
	b.logger.Info("session established",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("plan", string(sub.Plan)))
}

func (b *Bootstrapper) setState(state State) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
}
