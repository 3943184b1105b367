package dto

// MarkAttendanceRequest payload for recording a day's attendance.
type MarkAttendanceRequest struct {
	UserID string `json:"userId"`
	Date   string `json:"date"`
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// CreateLeaveRequest payload for a new leave request.
type CreateLeaveRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// LeaveDecisionRequest payload for approving or rejecting a leave.
type LeaveDecisionRequest struct {
	Status        string `json:"status"`
	ApproverNotes string `json:"approverNotes,omitempty"`
}

// UpdateUserRequest payload for partial user updates.
type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// AcceptInvitationRequest payload for joining a workspace.
type AcceptInvitationRequest struct {
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CheckoutRequest payload for starting a billing checkout.
type CheckoutRequest struct {
	Plan string `json:"plan"`
}

// CheckoutSessionResponse carries the checkout redirect URL.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}
