// Package tenant resolves the active workspace identifier sent as the
// X-Tenant header on every outbound request.
package tenant

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/workforce-client/internal/config"
	"github.com/spec-kit/workforce-client/internal/persistence"
)

// Resolver determines the current tenant from, in priority order: an
// explicitly persisted selection, the deployment-level dev override, and
// the first label of the application host when it is a genuine subdomain.
// Resolution runs fresh per request; the tenant can change mid-session
// (right after onboarding) without a restart.
type Resolver struct {
	kv       persistence.KV
	override string
	host     string
}

// NewResolver builds a resolver over the persisted state and config.
func NewResolver(cfg *config.Config, kv persistence.KV) *Resolver {
	return &Resolver{
		kv:       kv,
		override: normalize(cfg.Tenant.Override),
		host:     strings.ToLower(cfg.API.Host),
	}
}

// Resolve returns the active tenant slug, or false when none applies.
func (r *Resolver) Resolve(ctx context.Context) (string, bool) {
	if r.kv != nil {
		val, err := r.kv.Get(ctx, persistence.KeyTenant)
		if err == nil {
			if slug := normalize(val); slug != "" {
				return slug, true
			}
		} else if !errors.Is(err, persistence.ErrNotFound) {
			// Storage trouble must not take requests down; fall through
			// to the remaining sources.
		}
	}

	if r.override != "" {
		return r.override, true
	}

	return subdomain(r.host)
}

// SetTenant persists an explicit tenant selection; an empty slug clears it.
// This is the only write path of the resolver.
func (r *Resolver) SetTenant(ctx context.Context, slug string) error {
	slug = normalize(slug)
	if slug == "" {
		return r.kv.Delete(ctx, persistence.KeyTenant)
	}
	return r.kv.Set(ctx, persistence.KeyTenant, slug)
}

// subdomain extracts the tenant from a host of the form
// <tenant>.<domain>.<tld>. Bare domains and the www label do not count.
func subdomain(host string) (string, bool) {
	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", false
	}
	label := parts[0]
	if label == "" || label == "www" {
		return "", false
	}
	return label, true
}

func normalize(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
