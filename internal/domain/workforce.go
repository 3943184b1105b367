package domain

import "time"

// AttendanceStatus enumerates daily attendance outcomes.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceOnLeave AttendanceStatus = "LEAVE"
)

// LeaveStatus enumerates the approval lifecycle of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// Attendance is one member's record for a single day.
type Attendance struct {
	ID     string           `json:"id"`
	UserID string           `json:"userId"`
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
	Notes  string           `json:"notes,omitempty"`
	User   *UserRecord      `json:"user,omitempty"`
}

// Leave is a leave-of-absence request and its decision state.
type Leave struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	StartDate     string      `json:"startDate"`
	EndDate       string      `json:"endDate"`
	Reason        string      `json:"reason"`
	Status        LeaveStatus `json:"status"`
	ApproverID    string      `json:"approverId,omitempty"`
	ApproverNotes string      `json:"approverNotes,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	User          *UserRecord `json:"user,omitempty"`
	Approver      *UserRecord `json:"approver,omitempty"`
}

// DepartmentStat aggregates attendance for one department.
type DepartmentStat struct {
	Department     string  `json:"department"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// DailyAttendance is one day's headcount split.
type DailyAttendance struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	OnLeave int    `json:"onLeave"`
}

// MonthlyReport summarizes a month of attendance across the workspace.
type MonthlyReport struct {
	Month             string            `json:"month"`
	TotalEmployees    int               `json:"totalEmployees"`
	AverageAttendance float64           `json:"averageAttendance"`
	TotalLeaves       int               `json:"totalLeaves"`
	DepartmentStats   []DepartmentStat  `json:"departmentStats"`
	DailyAttendance   []DailyAttendance `json:"dailyAttendance"`
}

// Invitation is a pending offer to join a workspace.
type Invitation struct {
	Token      string      `json:"token"`
	Email      string      `json:"email"`
	Role       Role        `json:"role"`
	TenantID   string      `json:"tenantId"`
	TenantName string      `json:"tenantName,omitempty"`
	AcceptedAt *time.Time  `json:"acceptedAt,omitempty"`
	CreatedBy  string      `json:"createdBy,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	ExpiresAt  time.Time   `json:"expiresAt"`
	InvitedBy  *UserRecord `json:"invitedBy,omitempty"`
}
