package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/domain"
	"github.com/spec-kit/workforce-client/internal/session"
	"github.com/spec-kit/workforce-client/internal/tenant"
)

const refreshPath = "/api/v1/auth/refresh"

// NewRefreshCall builds the single network refresh operation handed to
// the coordinator. It deliberately bypasses the pipeline's 401 recovery:
// the refresh endpoint authenticates through the backend's refresh
// cookie (carried by the shared cookie jar), and a 401 here means the
// session is gone.
func NewRefreshCall(client *http.Client, baseURL string, resolver *tenant.Resolver, logger *zap.Logger) session.RefreshFunc {
	return func(ctx context.Context) (domain.Credential, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+refreshPath, nil)
		if err != nil {
			return domain.Credential{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		if slug, ok := resolver.Resolve(ctx); ok {
			req.Header.Set("X-Tenant", slug)
		}

		resp, err := client.Do(req)
		if err != nil {
			return domain.Credential{}, fmt.Errorf("refresh call: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return domain.Credential{}, fmt.Errorf("refresh call: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			logger.Debug("refresh rejected", zap.Int("status", resp.StatusCode))
			return domain.Credential{}, fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
		}

		var payload struct {
			AccessToken string `json:"accessToken"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return domain.Credential{}, fmt.Errorf("decode refresh response: %w", err)
		}
		if payload.AccessToken == "" {
			return domain.Credential{}, fmt.Errorf("refresh response carried no credential")
		}
		return domain.Credential{AccessToken: payload.AccessToken}, nil
	}
}
