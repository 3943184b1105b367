// Package access decides whether the current session may see a protected
// view. Evaluation is pure and synchronous: no I/O, safe on every render.
package access

import (
	"github.com/spec-kit/workforce-client/internal/domain"
)

// Decision is the outcome of evaluating a requirement.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyRole
	DenyPlan
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyRole:
		return "deny_role"
	case DenyPlan:
		return "deny_plan"
	default:
		return "unknown"
	}
}

// Requirement is the declarative constraint attached to a protected view.
// Nil slices mean "no constraint of that kind".
type Requirement struct {
	Roles []domain.Role
	Plans []domain.SubscriptionPlan
}

// Evaluate applies the requirement against the user and current plan.
// Checks run in fixed order: authentication, then role, then plan.
func Evaluate(user *domain.UserRecord, plan domain.SubscriptionPlan, req Requirement) Decision {
	if user == nil {
		return DenyUnauthenticated
	}

	if len(req.Roles) > 0 && !roleAllowed(user.Role, req.Roles) {
		return DenyRole
	}

	if len(req.Plans) > 0 && !plan.Covers(req.Plans) {
		return DenyPlan
	}

	return Allow
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
