package domain

import "time"

// Tenant is the customer workspace namespace isolating data.
type Tenant struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Subdomain             string           `json:"subdomain"`
	Plan                  SubscriptionPlan `json:"plan"`
	CreatedAt             time.Time        `json:"createdAt"`
	SubscriptionExpiresAt *time.Time       `json:"subscriptionExpiresAt,omitempty"`
}
