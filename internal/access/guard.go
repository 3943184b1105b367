package access

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/events"
	"github.com/spec-kit/workforce-client/internal/session"
)

// ErrSessionUnresolved is returned when a guard check runs before the
// session bootstrap has settled. Callers must show a loading state and
// retry, never redirect.
var ErrSessionUnresolved = errors.New("session not yet resolved")

// Outcome is the guard's navigation decision for a protected view.
type Outcome struct {
	Decision Decision
	// Redirect is the navigation target when the view is denied; empty
	// when the view may render.
	Redirect string
}

// Allowed reports whether the protected content may render.
func (o Outcome) Allowed() bool { return o.Decision == Allow }

// Guard gates protected views against the live session state. Denials are
// navigation decisions, not errors: role and plan mismatches route to a
// dedicated view instead of failing silently or looping.
type Guard struct {
	store  *session.Store
	boot   *session.Bootstrapper
	events events.Dispatcher
	logger *zap.Logger
}

// NewGuard builds a guard over the session state.
func NewGuard(store *session.Store, boot *session.Bootstrapper, dispatcher events.Dispatcher, logger *zap.Logger) *Guard {
	return &Guard{store: store, boot: boot, events: dispatcher, logger: logger}
}

// Check evaluates the requirement against the current session and maps
// the decision to a navigation outcome.
func (g *Guard) Check(ctx context.Context, req Requirement) (Outcome, error) {
	if g.boot != nil && g.boot.State() == session.StateUnresolved {
		return Outcome{}, ErrSessionUnresolved
	}

	var user *domain.UserRecord
	if u, ok := g.store.CurrentUser(); ok && g.store.IsAuthenticated() {
		user = &u
	}

	decision := Evaluate(user, g.store.Subscription().Plan, req)
	outcome := Outcome{Decision: decision, Redirect: redirectFor(decision)}

	if decision != Allow {
		g.logger.Debug("access denied",
			zap.String("decision", decision.String()),
			zap.String("redirect", outcome.Redirect))
		if g.events != nil {
			_ = g.events.Publish(ctx, events.EventNavigate, events.NavigatePayload{Target: outcome.Redirect})
		}
	}
	return outcome, nil
}

func redirectFor(d Decision) string {
	switch d {
	case DenyUnauthenticated:
		return events.TargetLogin
	case DenyRole:
		return events.TargetForbidden
	case DenyPlan:
		return events.TargetSubscription
	default:
		return ""
	}
}
