package domain

import "time"

// Role enumerates the access roles a workspace member can hold.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

// UserRecord is the authenticated user as returned by the backend.
// It is owned exclusively by the session store and replaced wholesale
// on login, refresh, or profile updates.
type UserRecord struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Role          Role      `json:"role"`
	TenantID      string    `json:"tenantId"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	AvatarURL     string    `json:"avatarUrl,omitempty"`
}

// FullName joins first and last name for display purposes.
func (u UserRecord) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
