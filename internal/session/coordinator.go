package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/events"
)

// RefreshFunc performs the network credential refresh. It relies on an
// implicit session artifact (same-origin cookie or stored refresh token)
// understood by the backend.
type RefreshFunc func(ctx context.Context) (domain.Credential, error)

type refreshResult struct {
	cred domain.Credential
	err  error
}

// Coordinator serializes credential refreshes: at most one network
// refresh call is in flight system-wide. Callers arriving while a refresh
// is running are parked as waiters and released together with that
// episode's outcome, all success or all failure. A failed episode is
// fatal only for its waiters; the next caller starts a fresh one.
type Coordinator struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan refreshResult

	store   *Store
	refresh RefreshFunc
	events  events.Dispatcher
	logger  *zap.Logger
}

// NewCoordinator builds a coordinator over the store and refresh call.
func NewCoordinator(store *Store, refresh RefreshFunc, dispatcher events.Dispatcher, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		store:   store,
		refresh: refresh,
		events:  dispatcher,
		logger:  logger,
	}
}

// Refresh obtains a fresh credential, either by issuing the single
// network refresh for this episode or by waiting on the one already in
// flight. On success the store holds the new credential before any waiter
// is released; on failure the store is cleared.
//
// A waiting caller whose context is cancelled stops waiting, but the
// episode itself always runs to completion and settles the remaining
// waiters.
func (c *Coordinator) Refresh(ctx context.Context) (domain.Credential, error) {
	c.mu.Lock()
	if c.inFlight {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case res := <-ch:
			return res.cred, res.err
		case <-ctx.Done():
			return domain.Credential{}, ctx.Err()
		}
	}
	c.inFlight = true
	c.mu.Unlock()

	// The episode outlives its originating caller.
	episodeCtx := context.WithoutCancel(ctx)
	cred, err := c.refresh(episodeCtx)

	if err != nil {
		if clearErr := c.store.Clear(episodeCtx); clearErr != nil {
			c.logger.Warn("failed to clear session after refresh failure", zap.Error(clearErr))
		}
	} else {
		if persistErr := c.store.UpdateCredential(episodeCtx, cred); persistErr != nil {
			c.logger.Warn("failed to persist refreshed credential", zap.Error(persistErr))
		}
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.inFlight = false
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{cred: cred, err: err}
	}

	if c.events != nil {
		if err != nil {
			_ = c.events.Publish(episodeCtx, events.EventSessionExpired, events.SessionExpiredPayload{Reason: err.Error()})
		} else {
			_ = c.events.Publish(episodeCtx, events.EventCredentialRefreshed, events.CredentialRefreshedPayload{Waiters: len(waiters)})
		}
	}

	if err != nil {
		c.logger.Warn("credential refresh failed", zap.Int("waiters", len(waiters)), zap.Error(err))
		return domain.Credential{}, err
	}
	c.logger.Debug("credential refreshed", zap.Int("waiters", len(waiters)))
	return cred, nil
}
