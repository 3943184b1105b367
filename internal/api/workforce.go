package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/workforce-client/internal/api/dto"
	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/transport"
)

// AttendanceService drives the attendance endpoints.
type AttendanceService struct {
	pipeline *transport.Pipeline
}

// NewAttendanceService builds the service.
func NewAttendanceService(pipeline *transport.Pipeline) *AttendanceService {
	return &AttendanceService{pipeline: pipeline}
}

// Daily returns attendance records for one date (YYYY-MM-DD).
func (s *AttendanceService) Daily(ctx context.Context, date string) ([]domain.Attendance, error) {
	query := url.Values{}
	query.Set("date", date)
	var out []domain.Attendance
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/attendance/daily",
		Query:  query,
	}, &out)
	return out, err
}

// Mark records or overwrites one member's attendance for a day.
func (s *AttendanceService) Mark(ctx context.Context, req dto.MarkAttendanceRequest) (domain.Attendance, error) {
	var out domain.Attendance
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodPut,
		Path:   "/api/v1/attendance",
		Body:   req,
	}, &out)
	return out, err
}

// LeavesService drives the leave request endpoints.
type LeavesService struct {
	pipeline *transport.Pipeline
}

// NewLeavesService builds the service.
func NewLeavesService(pipeline *transport.Pipeline) *LeavesService {
	return &LeavesService{pipeline: pipeline}
}

// List returns the leave requests visible to the caller.
func (s *LeavesService) List(ctx context.Context) ([]domain.Leave, error) {
	var out []domain.Leave
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/leaves",
	}, &out)
	return out, err
}

// Create submits a new leave request.
func (s *LeavesService) Create(ctx context.Context, req dto.CreateLeaveRequest) (domain.Leave, error) {
	var out domain.Leave
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/leaves",
		Body:   req,
	}, &out)
	return out, err
}

// Decide approves or rejects a pending leave request.
func (s *LeavesService) Decide(ctx context.Context, id, approverID string, req dto.LeaveDecisionRequest) error {
	query := url.Values{}
	query.Set("approverId", approverID)
	return s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodPatch,
		Path:   "/api/v1/leaves/" + id + "/decision",
		Query:  query,
		Body:   req,
	}, nil)
}

// ReportsService drives the reporting endpoints.
type ReportsService struct {
	pipeline *transport.Pipeline
}

// NewReportsService builds the service.
func NewReportsService(pipeline *transport.Pipeline) *ReportsService {
	return &ReportsService{pipeline: pipeline}
}

// Monthly returns the report for one month (YYYY-MM).
func (s *ReportsService) Monthly(ctx context.Context, month string) (domain.MonthlyReport, error) {
	query := url.Values{}
	query.Set("month", month)
	var out domain.MonthlyReport
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/reports/monthly",
		Query:  query,
	}, &out)
	return out, err
}

// InvitationsService drives the invitation endpoints.
type InvitationsService struct {
	pipeline *transport.Pipeline
}

// NewInvitationsService builds the service.
func NewInvitationsService(pipeline *transport.Pipeline) *InvitationsService {
	return &InvitationsService{pipeline: pipeline}
}

// Send invites an email address into the workspace with a role.
func (s *InvitationsService) Send(ctx context.Context, email string, role domain.Role) error {
	query := url.Values{}
	query.Set("email", email)
	query.Set("role", string(role))
	return s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/invitations",
		Query:  query,
	}, nil)
}

// Get returns an invitation by its token.
func (s *InvitationsService) Get(ctx context.Context, token string) (domain.Invitation, error) {
	var out domain.Invitation
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/invitations/" + token,
	}, &out)
	return out, err
}

// Accept redeems an invitation, creating the member account.
func (s *InvitationsService) Accept(ctx context.Context, token string, req dto.AcceptInvitationRequest) error {
	return s.pipeline.DoJSON(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/api/v1/invitations/" + token + "/accept",
		Body:        req,
		SkipRefresh: true,
	}, nil)
}

// BillingService drives the billing endpoints.
type BillingService struct {
	pipeline *transport.Pipeline
}

// NewBillingService builds the service.
func NewBillingService(pipeline *transport.Pipeline) *BillingService {
	return &BillingService{pipeline: pipeline}
}

// CreateCheckoutSession starts an upgrade checkout and returns the URL
// to hand to the user.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, plan domain.SubscriptionPlan) (string, error) {
	var out dto.CheckoutSessionResponse
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/api/v1/billing/checkout-session",
		Body:   dto.CheckoutRequest{Plan: string(plan)},
	}, &out)
	return out.URL, err
}
