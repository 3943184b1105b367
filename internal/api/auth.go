// Package api exposes the backend's REST surface as typed services over
// the session-aware request pipeline.
package api

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/api/dto"
	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/events"
	"github.com/spec-kit/workforce-client/internal/session"
	"github.com/spec-kit/workforce-client/internal/transport"
)

// AuthService drives the authentication endpoints.
type AuthService struct {
	pipeline *transport.Pipeline
	store    *session.Store
	events   events.Dispatcher
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(pipeline *transport.Pipeline, store *session.Store, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{pipeline: pipeline, store: store, events: dispatcher, logger: logger}
}

// Login authenticates with email and password and installs the resulting
// session. A 401 here is a credential problem with the input, so the
// refresh recovery is disabled.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.UserRecord, error) {
	var out dto.AuthResponse
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Body:        dto.LoginRequest{Email: email, Password: password},
		SkipRefresh: true,
	}, &out)
	if err != nil {
		return domain.UserRecord{}, err
	}

	cred := domain.Credential{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if err := s.store.Set(ctx, cred, out.User); err != nil {
		s.logger.Warn("failed to persist session after login", zap.Error(err))
	}
	if out.Subscription != nil {
		s.store.SetSubscription(*out.Subscription)
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, events.EventSessionEstablished, events.SessionEstablishedPayload{
			User: out.User,
			Plan: s.store.Subscription().Plan,
		})
	}
	s.logger.Info("logged in", zap.String("user_id", out.User.ID))
	return out.User, nil
}

// Register creates an account and installs the resulting session.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (domain.UserRecord, error) {
	var out dto.AuthResponse
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Body:        req,
		SkipRefresh: true,
	}, &out)
	if err != nil {
		return domain.UserRecord{}, err
	}

	cred := domain.Credential{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if err := s.store.Set(ctx, cred, out.User); err != nil {
		s.logger.Warn("failed to persist session after register", zap.Error(err))
	}
	return out.User, nil
}

// Me fetches the authenticated user and subscription. It flows through
// the full pipeline, so an expired credential recovers via refresh.
func (s *AuthService) Me(ctx context.Context) (domain.UserRecord, domain.Subscription, error) {
	var out dto.MeResponse
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/api/v1/auth/me",
	}, &out)
	if err != nil {
		return domain.UserRecord{}, domain.Subscription{}, err
	}
	sub := domain.Subscription{Plan: domain.PlanFree}
	if out.Subscription != nil {
		sub = *out.Subscription
	}
	return out.User, sub, nil
}

// Logout ends the backend session best-effort, then discards all local
// credential state either way.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.pipeline.DoJSON(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		SkipRefresh: true,
	}, nil)
	if err != nil {
		s.logger.Warn("logout call failed, clearing local session anyway", zap.Error(err))
	}

	if clearErr := s.store.Clear(ctx); clearErr != nil {
		return clearErr
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, events.EventNavigate, events.NavigatePayload{Target: events.TargetLogin})
	}
	return err
}

// VerifyEmail confirms an email address with the emailed token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	query := url.Values{}
	query.Set("token", token)
	return s.pipeline.DoJSON(ctx, transport.Request{
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/verify-email",
		Query:       query,
		SkipRefresh: true,
	}, nil)
}

// ResendVerification requests a new verification email.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	query := url.Values{}
	query.Set("email", email)
	return s.pipeline.DoJSON(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/verify-email/resend",
		Query:       query,
		SkipRefresh: true,
	}, nil)
}
