// Package session owns the client's mutable authentication state: the
// current credential, the authenticated user, and the single-flight
// refresh coordination around credential expiry.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/persistence"
)

// Store is the process-wide holder of the current credential and user
// record. All mutation goes through its methods; callers never
// read-modify-write its state directly. Set persists the credential so a
// later process start can attempt bootstrap; Clear removes it. The store
// itself performs no network calls.
type Store struct {
	mu           sync.RWMutex
	cred         domain.Credential
	user         *domain.UserRecord
	subscription domain.Subscription

	kv     persistence.KV
	logger *zap.Logger
}

// NewStore builds a store persisting through kv.
func NewStore(kv persistence.KV, logger *zap.Logger) *Store {
	return &Store{
		kv:           kv,
		subscription: domain.Subscription{Plan: domain.PlanFree},
		logger:       logger,
	}
}

// Get returns the current credential, if any.
func (s *Store) Get() (domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, !s.cred.IsZero()
}

// CurrentUser returns a copy of the authenticated user, if any.
func (s *Store) CurrentUser() (domain.UserRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.UserRecord{}, false
	}
	return *s.user, true
}

// IsAuthenticated is true iff both a credential and a user record are held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.cred.IsZero() && s.user != nil
}

// Subscription returns the current plan state.
func (s *Store) Subscription() domain.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subscription
}

// Set installs a credential together with its user record and persists
// the credential. Used on login and on "who am I" success.
func (s *Store) Set(ctx context.Context, cred domain.Credential, user domain.UserRecord) error {
	s.mu.Lock()
	s.cred = cred
	s.user = &user
	s.mu.Unlock()
	return s.persist(ctx, cred)
}

// UpdateCredential atomically replaces the credential while keeping the
// user record. Used on refresh success; the previous credential is
// discarded.
func (s *Store) UpdateCredential(ctx context.Context, cred domain.Credential) error {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	return s.persist(ctx, cred)
}

// SetUser replaces the user record without touching the credential. Used
// by profile-update responses.
func (s *Store) SetUser(user domain.UserRecord) {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

// SetSubscription records the current plan for access checks.
func (s *Store) SetSubscription(sub domain.Subscription) {
	s.mu.Lock()
	if sub.Plan == "" {
		sub.Plan = domain.PlanFree
	}
	s.subscription = sub
	s.mu.Unlock()
}

// Restore installs a credential loaded from persistence, before the user
// record is known. It does not write back to persistence.
func (s *Store) Restore(cred domain.Credential) {
	s.mu.Lock()
	s.cred = cred
	s.user = nil
	s.mu.Unlock()
}

// Clear drops all in-memory state and removes the persisted credential.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.cred = domain.Credential{}
	s.user = nil
	s.subscription = domain.Subscription{Plan: domain.PlanFree}
	s.mu.Unlock()

	if s.kv == nil {
		return nil
	}
	if err := s.kv.Delete(ctx, persistence.KeyCredential); err != nil {
		s.logger.Warn("failed to remove persisted credential", zap.Error(err))
		return err
	}
	return nil
}

// LoadPersisted reads the persisted credential, if one exists.
func (s *Store) LoadPersisted(ctx context.Context) (domain.Credential, bool) {
	if s.kv == nil {
		return domain.Credential{}, false
	}
	raw, err := s.kv.Get(ctx, persistence.KeyCredential)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			s.logger.Warn("failed to read persisted credential", zap.Error(err))
		}
		return domain.Credential{}, false
	}
	var cred domain.Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil || cred.IsZero() {
		return domain.Credential{}, false
	}
	return cred, true
}

func (s *Store) persist(ctx context.Context, cred domain.Credential) error {
	if s.kv == nil {
		return nil
	}
	raw, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, persistence.KeyCredential, string(raw)); err != nil {
		s.logger.Warn("failed to persist credential", zap.Error(err))
		return err
	}
	return nil
}
