package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/validation"
)

// ErrNotFound is returned when an order, task, shipment, product or
// customer does not exist.
var ErrNotFound = errors.New("not found")

// IllegalTransitionError reports a status change that is not an edge of
// the workflow graph.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %q to %q", e.From, e.To)
}

func illegalOrderTransition(from, to models.OrderStatus) error {
	return &IllegalTransitionError{From: string(from), To: string(to)}
}

// AuthorizationError reports a legal action the caller's role may not perform.
type AuthorizationError struct {
	Role   string
	Action string
}

func (e *AuthorizationError) Error() string {
	role := e.Role
	if role == "" {
		role = "anonymous"
	}
	return fmt.Sprintf("role %s is not allowed to %s", role, e.Action)
}

// InsufficientStockError reports a product whose stock cannot cover an order.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %d, available %d",
		e.Name, e.ProductID, e.Requested, e.Available)
}

// ValidationError carries per-field violations.
type ValidationError struct {
	Fields validation.Violations
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// invalid returns a *ValidationError when v has violations, else nil.
func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Fields: v}
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: validation.Violations{field: msg}}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// errorKind names err for metrics and logs.
func errorKind(err error) string {
	var (
		illegal *IllegalTransitionError
		authz   *AuthorizationError
		stock   *InsufficientStockError
		verr    *ValidationError
	)
	switch {
	case errors.As(err, &illegal):
		return "illegal_transition"
	case errors.As(err, &authz):
		return "authorization"
	case errors.As(err, &stock):
		return "insufficient_stock"
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
