// api/auth/gate.go

// Package auth decides, per request, whether the caller may proceed.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/harvestlink/market/api/cache"
	harvest_errors "github.com/harvestlink/market/api/errors"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
)

// RoleStore looks up role assignments. A user with no assignments yields an
// empty slice, not an error.
type RoleStore interface {
	RolesOf(ctx context.Context, userID string) ([]string, error)
}

// Gate resolves identities and checks roles. It holds no per-request state;
// the only shared state is the optional role cache.
type Gate struct {
	sessions  SessionProvider
	roles     RoleStore
	roleCache *cache.Cache[[]string]
}

type GateOption func(*Gate)

// WithRoleCache caches each identity's role set for ttl. Lookup failures
// are never cached.
func WithRoleCache(ttl time.Duration, opts ...cache.Option) GateOption {
	return func(g *Gate) {
		opts = append([]cache.Option{cache.WithName("roles"), cache.WithTTL(ttl)}, opts...)
		g.roleCache = cache.New[[]string](opts...)
	}
}

func NewGate(sessions SessionProvider, roles RoleStore, opts ...GateOption) *Gate {
	g := &Gate{sessions: sessions, roles: roles}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize decides whether the caller of r may proceed. An empty
// requiredRole means any authenticated caller is allowed.
func (g *Gate) Authorize(r *http.Request, requiredRole string) model.AuthorizationDecision {
	decision := model.AuthorizationDecision{RequiredRole: requiredRole}

	identity, err := g.sessions.CurrentIdentity(r)
	if err != nil || identity == nil {
		logger.Debug("No session identity", zap.Error(err), zap.String("path", r.URL.Path))
		decision.Reason = model.DenyUnauthenticated
		return decision
	}
	decision.Principal = identity

	if requiredRole == "" {
		decision.Authorized = true
		return decision
	}

	roles, err := g.RolesOf(r.Context(), identity.ID)
	if err != nil {
		logger.Error("Role lookup failed",
			zap.Error(err),
			zap.String("userID", identity.ID),
			zap.String("requiredRole", requiredRole))
		decision.Reason = model.DenyRoleLookupFailed
		decision.Err = err
		return decision
	}

	for _, role := range roles {
		if role == requiredRole {
			decision.Authorized = true
			return decision
		}
	}

	decision.Reason = model.DenyForbidden
	return decision
}

// RolesOf returns the identity's roles, through the role cache when enabled.
func (g *Gate) RolesOf(ctx context.Context, userID string) ([]string, error) {
	if g.roleCache == nil {
		return g.lookupRoles(ctx, userID)
	}
	return g.roleCache.Get(ctx, userID, func(ctx context.Context) ([]string, error) {
		return g.lookupRoles(ctx, userID)
	}, cache.GetOptions{})
}

// InvalidateIdentity forgets the cached roles of one identity.
func (g *Gate) InvalidateIdentity(userID string) {
	if g.roleCache != nil {
		g.roleCache.Invalidate(userID)
	}
}

func (g *Gate) lookupRoles(ctx context.Context, userID string) ([]string, error) {
	roles, err := g.roles.RolesOf(ctx, userID)
	if err != nil {
		if errors.Is(err, harvest_errors.ErrRoleLookupFailed) {
			return nil, err
		}
		return nil, errors.Join(harvest_errors.ErrRoleLookupFailed, err)
	}
	return roles, nil
}
