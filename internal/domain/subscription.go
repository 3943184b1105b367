package domain

import "time"

// SubscriptionPlan enumerates billing tiers.
type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "FREE"
	PlanPro        SubscriptionPlan = "PRO"
	PlanTrial      SubscriptionPlan = "TRIAL"
	PlanEnterprise SubscriptionPlan = "ENTERPRISE"
)

// planRanks orders tiers for at-least-this-tier checks. TRIAL and
// ENTERPRISE share a rank, matching the backend's hierarchy.
var planRanks = map[SubscriptionPlan]int{
	PlanFree:       0,
	PlanPro:        2,
	PlanTrial:      3,
	PlanEnterprise: 3,
}

// Rank returns the plan's position in the tier hierarchy. Unknown plans
// rank lowest.
func (p SubscriptionPlan) Rank() int {
	return planRanks[p]
}

// Covers reports whether the plan grants access to a feature gated on any
// of the required plans.
func (p SubscriptionPlan) Covers(required []SubscriptionPlan) bool {
	rank := p.Rank()
	for _, req := range required {
		if rank >= req.Rank() {
			return true
		}
	}
	return false
}

// Subscription is the tenant's current billing state.
type Subscription struct {
	Plan      SubscriptionPlan `json:"plan"`
	ExpiresAt *time.Time       `json:"expiresAt,omitempty"`
}
