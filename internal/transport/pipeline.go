// Package transport is the session-aware request layer every outbound
// API call flows through: it attaches tenant and credential headers and
// recovers from credential expiry exactly once per request.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/events"
	"github.com/spec-kit/workforce-client/internal/session"
	"github.com/spec-kit/workforce-client/internal/tenant"
	apperrors "github.com/spec-kit/workforce-client/pkg/util"
)

// Request is an immutable descriptor of one logical API call. The retry
// attempt count is carried alongside internally, never mutated on the
// descriptor, so concurrent requests each retry independently.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	// SkipRefresh disables the 401 recovery path. Set on the auth
	// endpoints themselves, where a 401 means bad input, not an expired
	// credential.
	SkipRefresh bool
}

// Response is the raw outcome of a pipeline call. Non-401 statuses pass
// through unchanged; interpreting 4xx/5xx bodies is the caller's job.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Pipeline wraps every outbound call with tenant and credential headers
// and the single-retry refresh flow.
type Pipeline struct {
	client   *http.Client
	baseURL  string
	store    *session.Store
	resolver *tenant.Resolver
	coord    *session.Coordinator
	events   events.Dispatcher
	logger   *zap.Logger
}

// NewPipeline builds the pipeline. The http.Client should carry a cookie
// jar so the backend's refresh cookie survives between calls.
func NewPipeline(client *http.Client, baseURL string, store *session.Store, resolver *tenant.Resolver, coord *session.Coordinator, dispatcher events.Dispatcher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		client:   client,
		baseURL:  baseURL,
		store:    store,
		resolver: resolver,
		coord:    coord,
		events:   dispatcher,
		logger:   logger,
	}
}

// Do executes the request. A first 401 triggers one coordinated refresh
// and one re-issue with the new credential; a 401 on the re-issued
// attempt propagates without another refresh. Refresh failure clears the
// session and announces navigation to the login entry point.
func (p *Pipeline) Do(ctx context.Context, req Request) (*Response, error) {
	requestID := uuid.NewString()

	used, _ := p.store.Get()
	resp, err := p.attempt(ctx, req, requestID, used.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || req.SkipRefresh {
		return resp, nil
	}

	// First 401: recover, then retry exactly once. When the credential
	// already rotated while this request was in flight, the rejection is
	// stale and the retry can reuse the rotated credential directly.
	fresh, ok := p.store.Get()
	if !ok || fresh.AccessToken == used.AccessToken {
		p.logger.Debug("credential rejected, attempting refresh",
			zap.String("request_id", requestID),
			zap.String("path", req.Path))

		fresh, err = p.coord.Refresh(ctx)
		if err != nil {
			if p.events != nil {
				_ = p.events.Publish(ctx, events.EventNavigate, events.NavigatePayload{Target: events.TargetLogin})
			}
			return nil, apperrors.NewRefreshFailed(err)
		}
	}

	retry, err := p.attempt(ctx, req, requestID, fresh.AccessToken)
	if err != nil {
		return nil, err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		// Already retried once; do not loop.
		return nil, apperrors.NewUnauthenticated("request rejected after credential refresh")
	}
	return retry, nil
}

// DoJSON executes the request, maps non-2xx statuses onto the error
// taxonomy, and decodes the response body into out when given.
func (p *Pipeline) DoJSON(ctx context.Context, req Request, out interface{}) error {
	resp, err := p.Do(ctx, req)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

func (p *Pipeline) attempt(ctx context.Context, req Request, requestID, token string) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, apperrors.NewValidationError("unencodable request payload", map[string]any{"path": req.Path})
		}
		body = bytes.NewReader(raw)
	}

	target := p.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid request", map[string]any{"path": req.Path})
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if slug, ok := p.resolver.Resolve(ctx); ok {
		httpReq.Header.Set("X-Tenant", slug)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		p.logger.Warn("request transport failure",
			zap.String("request_id", requestID),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, apperrors.NewNetworkError(err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError(err)
	}

	p.logger.Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", httpResp.StatusCode))

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// apiError maps a rejected response to the error taxonomy using the
// backend's {message, code, details} error body when present.
func apiError(resp *Response) error {
	var payload struct {
		Message string         `json:"message"`
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	_ = json.Unmarshal(resp.Body, &payload)

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.NewValidationError(orDefault(payload.Message, "invalid request"), payload.Details)
	case http.StatusUnauthorized:
		return apperrors.NewUnauthenticated(orDefault(payload.Message, "unauthenticated"))
	case http.StatusForbidden:
		return apperrors.NewForbidden(orDefault(payload.Message, "forbidden"))
	default:
		return apperrors.NewAPIError(resp.StatusCode, payload.Message, payload.Details)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
