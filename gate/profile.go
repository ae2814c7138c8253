package gate

import (
	"context"
	"sort"
	"strings"
)

// Profile represents a role with a set of permissions.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a role name to its profile.
type ProfileResolver interface {
	Resolve(ctx context.Context, role string) (Profile, error)
}

// StaticProfile is a simple in-memory profile implementation.
type StaticProfile struct {
	name        string
	permissions map[Permission]bool
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{
		name:        name,
		permissions: make(map[Permission]bool),
	}
	for _, perm := range permissions {
		p.permissions[perm] = true
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

// Permissions returns all permissions in this profile, sorted.
func (p *StaticProfile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// HasPermission checks if the profile has the requested permission.
// Supports wildcard matching.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// RoleResolver maps role names to profiles. Role names are case-insensitive.
// The map is fixed after construction, so concurrent Resolve calls are safe.
type RoleResolver struct {
	profiles map[string]Profile
}

// NewRoleResolver creates a resolver from the given profiles, keyed by name.
func NewRoleResolver(profiles ...Profile) *RoleResolver {
	r := &RoleResolver{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		r.profiles[strings.ToLower(p.Name())] = p
	}
	return r
}

// Resolve returns the profile for role, or ErrUnknownRole.
func (r *RoleResolver) Resolve(_ context.Context, role string) (Profile, error) {
	if profile, ok := r.profiles[strings.ToLower(strings.TrimSpace(role))]; ok {
		return profile, nil
	}
	return nil, ErrUnknownRole
}

// Roles lists the known role names, sorted.
func (r *RoleResolver) Roles() []string {
	out := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Role names shipped with DefaultRoles.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleDesigner = "designer"
	RoleShipping = "shipping"
)

// DefaultRoles returns the built-in role table.
// Only admin holds order:cancel and system:reset.
func DefaultRoles() *RoleResolver {
	readOrders := []Permission{
		NewPermission(ResourceOrder, ActionList),
		NewPermission(ResourceOrder, ActionView),
		NewPermission(ResourceDashboard, ActionView),
	}
	staff := append([]Permission{
		NewPermission(ResourceOrder, ActionCreate),
		NewPermission(ResourceOrder, ActionUpdate),
		NewPermission(ResourceOrder, ActionAdvance),
		NewPermission(ResourceOrder, ActionPay),
		NewPermission(ResourceCustomer, WildcardAll),
		NewPermission(ResourceInventory, WildcardAll),
		NewPermission(ResourceInvoice, WildcardAll),
		NewPermission(ResourceDesignTask, WildcardAll),
		NewPermission(ResourceShipment, WildcardAll),
	}, readOrders...)
	designer := append([]Permission{
		NewPermission(ResourceDesignTask, WildcardAll),
		NewPermission(ResourceOrder, ActionAdvance),
	}, readOrders...)
	shipping := append([]Permission{
		NewPermission(ResourceShipment, WildcardAll),
		NewPermission(ResourceOrder, ActionAdvance),
		NewPermission(ResourceCustomer, ActionList),
	}, readOrders...)

	return NewRoleResolver(
		NewStaticProfile(RoleAdmin, PermissionSuperAdmin),
		NewStaticProfile(RoleStaff, staff...),
		NewStaticProfile(RoleDesigner, designer...),
		NewStaticProfile(RoleShipping, shipping...),
	)
}
