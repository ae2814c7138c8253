// Package gate resolves roles to permission profiles and answers
// "may this role perform action on resource" questions.
//
// Permissions use the "resource:action" form with wildcard support;
// "*:*" is the superadmin permission held by the admin role.
package gate

import (
	"context"
	"fmt"
	"strings"
)

// Gate is the central authorization checkpoint.
type Gate struct {
	resolver ProfileResolver
}

// New creates a gate backed by resolver.
func New(resolver ProfileResolver) *Gate {
	return &Gate{resolver: resolver}
}

// Authorize returns nil if role may perform action on resourceType.
// An empty or unknown role is denied with ErrUnauthorized.
func (g *Gate) Authorize(ctx context.Context, role string, action Action, resourceType string) error {
	if strings.TrimSpace(role) == "" {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, role)
	if err != nil || profile == nil {
		return fmt.Errorf("%w: role %q", ErrUnauthorized, role)
	}
	if !profile.HasPermission(NewPermission(resourceType, action)) {
		return fmt.Errorf("%w: role %q lacks %s", ErrUnauthorized, role, NewPermission(resourceType, action))
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, role string, action Action, resourceType string) bool {
	return g.Authorize(ctx, role, action, resourceType) == nil
}

// IsAdmin reports whether role holds the superadmin permission.
func (g *Gate) IsAdmin(ctx context.Context, role string) bool {
	profile, err := g.resolver.Resolve(ctx, role)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(PermissionSuperAdmin)
}
