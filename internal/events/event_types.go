package events

import (
	"time"

	"github.com/spec-kit/workforce-client/internal/domain"
)

// EventType enumerates session lifecycle event identifiers.
type EventType string

const (
	EventSessionEstablished  EventType = "session_established"
	EventCredentialRefreshed EventType = "credential_refreshed"
	EventSessionExpired      EventType = "session_expired"
	EventNavigate            EventType = "navigate"
)

// Navigation targets published with EventNavigate. The embedding UI decides
// what "navigating" means; the core only announces the destination.
const (
	TargetLogin        = "/login"
	TargetForbidden    = "/403"
	TargetSubscription = "/settings/subscription"
)

// Event represents a session lifecycle event emitted by the core.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionEstablishedPayload payload.
type SessionEstablishedPayload struct {
	User domain.UserRecord       `json:"user"`
	Plan domain.SubscriptionPlan `json:"plan"`
}

// CredentialRefreshedPayload payload.
type CredentialRefreshedPayload struct {
	Waiters int `json:"waiters"`
}

// SessionExpiredPayload payload.
type SessionExpiredPayload struct {
	Reason string `json:"reason"`
}

// NavigatePayload payload.
type NavigatePayload struct {
	Target string `json:"target"`
}
