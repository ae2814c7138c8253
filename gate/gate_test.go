package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/diewo77/orderdesk/gate"
)

func TestGate_DefaultRoles(t *testing.T) {
	g := gate.New(gate.DefaultRoles())
	ctx := context.Background()

	tests := []struct {
		role     string
		action   gate.Action
		resource string
		want     bool
	}{
		{"admin", gate.ActionCancel, gate.ResourceOrder, true},
		{"admin", gate.ActionReset, gate.ResourceSystem, true},
		{"staff", gate.ActionCancel, gate.ResourceOrder, false},
		{"staff", gate.ActionAdvance, gate.ResourceOrder, true},
		{"staff", gate.ActionAdjust, gate.ResourceInventory, true},
		{"staff", gate.ActionReset, gate.ResourceSystem, false},
		{"designer", gate.ActionAssign, gate.ResourceDesignTask, true},
		{"designer", gate.ActionDispatch, gate.ResourceShipment, false},
		{"designer", gate.ActionCancel, gate.ResourceOrder, false},
		{"shipping", gate.ActionDeliver, gate.ResourceShipment, true},
		{"shipping", gate.ActionCreate, gate.ResourceOrder, false},
		{"", gate.ActionView, gate.ResourceOrder, false},
		{"ghost", gate.ActionView, gate.ResourceOrder, false},
	}
	for _, tt := range tests {
		if got := g.Can(ctx, tt.role, tt.action, tt.resource); got != tt.want {
			t.Errorf("Can(%q, %s, %s) = %v, want %v", tt.role, tt.action, tt.resource, got, tt.want)
		}
	}
}

func TestGate_AuthorizeWrapsErrUnauthorized(t *testing.T) {
	g := gate.New(gate.DefaultRoles())
	err := g.Authorize(context.Background(), "staff", gate.ActionCancel, gate.ResourceOrder)
	if !errors.Is(err, gate.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_IsAdmin(t *testing.T) {
	g := gate.New(gate.DefaultRoles())
	if !g.IsAdmin(context.Background(), "ADMIN") {
		t.Error("admin should be superadmin")
	}
	if g.IsAdmin(context.Background(), "staff") {
		t.Error("staff should not be superadmin")
	}
}
