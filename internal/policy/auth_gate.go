package policy

import (
	"context"
	"net/http"

	"github.com/diewo77/orderdesk/auth"
	"github.com/diewo77/orderdesk/gate"
	"github.com/diewo77/orderdesk/httpx"
)

// AuthGate checks the session actor's role against the gate.
// Use this as a central authorization point in the router.
type AuthGate struct {
	Gate *gate.Gate
}

func NewAuthGate(g *gate.Gate) *AuthGate {
	return &AuthGate{Gate: g}
}

// Authorize checks if the current actor can perform action on resourceType.
// Returns nil if authorized, gate.ErrUnauthorized otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string) error {
	a, ok := auth.ActorFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, a.Role, action, resourceType)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string) bool {
	return ag.Authorize(ctx, action, resourceType) == nil
}

// RequirePermission returns middleware that blocks actors lacking resourceType:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.ActorFromContext(r.Context()); !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
				return
			}
			if !ag.Can(r.Context(), action, resourceType) {
				perm := string(gate.NewPermission(resourceType, action))
				httpx.JSONError(w, http.StatusForbidden, "forbidden", "your role may not "+perm, perm)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that only allows the superadmin role.
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := auth.ActorFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", "sign in required", nil)
				return
			}
			if !ag.Gate.IsAdmin(r.Context(), a.Role) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", "admin role required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
