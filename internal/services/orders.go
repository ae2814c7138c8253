package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/orderdesk/gate"
	"github.com/diewo77/orderdesk/internal/logging"
	"github.com/diewo77/orderdesk/internal/metrics"
	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/diewo77/orderdesk/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Authorizer answers whether a role may perform an action on a resource.
type Authorizer interface {
	Authorize(ctx context.Context, role string, action gate.Action, resourceType string) error
}

var transitionMessages = map[models.OrderStatus]string{
	models.OrderStatusDesign:     "Order moved to design",
	models.OrderStatusReady:      "Design completed, order is ready for shipping",
	models.OrderStatusDispatched: "Order dispatched to courier",
	models.OrderStatusDelivered:  "Order delivered successfully",
	models.OrderStatusCancelled:  "Order cancelled",
}

// Transition describes a committed status change.
type Transition struct {
	OrderID string             `json:"orderId"`
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
	At      time.Time          `json:"at"`
	Message string             `json:"message"`
}

// LineItemInput is one requested order line. A line with a product ID is
// stock-tracked; its name and unit price default to the inventory record.
type LineItemInput struct {
	ProductID string           `json:"productId"`
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity" validate:"gt=0,lte=1000000"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// OrderInput is the editable part of an order.
type OrderInput struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId"`
	Customer     string          `json:"customer"`
	Items        []LineItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Date         *time.Time      `json:"date"`
	Notes        string          `json:"notes"`
}

// OrderService is the only writer of Order.Status. Every status change
// goes through advance, which enforces the workflow graph, stamps the
// progression record and re-derives design tasks and shipments in the
// same repository update.
type OrderService struct {
	repo    *repository.Repository
	authz   Authorizer
	deriver Deriver
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewOrderService(repo *repository.Repository, authz Authorizer, log logrus.FieldLogger, m *metrics.Metrics) *OrderService {
	return &OrderService{
		repo:    repo,
		authz:   authz,
		log:     log,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns all orders, or only those in status when it is set.
func (s *OrderService) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.IsValid() {
		return nil, fieldError("status", "invalid_value")
	}
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return snap.Orders, nil
	}
	out := []models.Order{}
	for _, o := range snap.Orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	o := snap.Order(id)
	if o == nil {
		return nil, notFound("order", id)
	}
	return o, nil
}

// Progression returns the stage-entry timestamps of an order.
func (s *OrderService) Progression(ctx context.Context, id string) (models.ProgressionRecord, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return models.ProgressionRecord{}, err
	}
	if snap.Order(id) == nil {
		return models.ProgressionRecord{}, notFound("order", id)
	}
	return snap.Progression[id], nil
}

// AdvanceStatus moves an order to target on behalf of role.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string, target models.OrderStatus, role string) (*Transition, error) {
	var tr *Transition
	err := s.repo.Update(ctx, func(snap *repository.Snapshot) error {
		var err error
		tr, err = s.advance(ctx, snap, orderID, target, role)
		return err
	})
	if err != nil {
		s.reject("AdvanceStatus", err, logrus.Fields{"order": orderID, "to": target, "role": role})
		return nil, err
	}
	s.committed(tr, role)
	return tr, nil
}

// advance applies one status change to snap. It checks legality before
// authorization and leaves snap untouched on error.
func (s *OrderService) advance(ctx context.Context, snap *repository.Snapshot, orderID string, target models.OrderStatus, role string) (*Transition, error) {
	o := snap.Order(orderID)
	if o == nil {
		return nil, notFound("order", orderID)
	}
	from := o.Status
	if !target.IsValid() || !from.CanTransitionTo(target) {
		return nil, illegalOrderTransition(from, target)
	}
	if target == models.OrderStatusCancelled {
		if err := s.authz.Authorize(ctx, role, gate.ActionCancel, gate.ResourceOrder); err != nil {
			return nil, &AuthorizationError{Role: role, Action: "cancel orders"}
		}
	}

	now := s.now()
	o.Status = target
	snap.Progression.Stamp(orderID, target, now)
	s.deriver.Derive(snap)

	return &Transition{
		OrderID: orderID,
		From:    from,
		To:      target,
		At:      now,
		Message: transitionMessages[target],
	}, nil
}

func (s *OrderService) committed(tr *Transition, role string) {
	s.metrics.Transition(string(tr.From), string(tr.To))
	s.log.WithFields(logrus.Fields{
		"order": tr.OrderID,
		"from":  tr.From,
		"to":    tr.To,
		"role":  role,
	}).Info(tr.Message)
}

// reject records a failed operation. Domain rejections are warnings;
// anything else is an error.
func (s *OrderService) reject(funcName string, err error, fields logrus.Fields) {
	kind := errorKind(err)
	s.metrics.Rejection(kind)
	if kind == "internal" {
		logging.LogError(s.log, "services", funcName, "repository update", fields, err)
		return
	}
	s.log.WithFields(fields).WithField("kind", kind).Warn(err.Error())
}

// CreateOrder validates input, reserves stock for every product line and
// registers the order directly in the design stage.
func (s *OrderService) CreateOrder(ctx context.Context, in OrderInput) (*models.Order, error) {
	var created models.Order
	err := s.repo.Update(ctx, func(snap *repository.Snapshot) error {
		v := validation.Violations{}
		order := buildOrder(snap, in, v)

		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = models.NextOrderID(snap.Orders)
		} else if snap.Order(id) != nil {
			v.Add("id", "duplicate")
		}
		if err := invalid(v); err != nil {
			return err
		}

		now := s.now()
		if err := reserveStock(snap.Inventory, order.QuantitiesByProduct(), now); err != nil {
			return err
		}

		order.ID = id
		order.Status = models.OrderStatusDesign
		if order.Date.IsZero() {
			order.Date = now
		}
		snap.Orders = append(snap.Orders, order)
		snap.Progression.Stamp(id, models.OrderStatusDesign, now)
		s.deriver.Derive(snap)
		created = order
		return nil
	})
	if err != nil {
		s.reject("CreateOrder", err, logrus.Fields{"customer": in.Customer})
		return nil, err
	}
	s.metrics.OrderCreated()
	s.log.WithFields(logrus.Fields{
		"order":    created.ID,
		"customer": created.Customer,
		"total":    created.TotalAmount.String(),
	}).Info("order created")
	return &created, nil
}

// UpdateOrder replaces the editable fields of an order. Stock, status and
// progression are left alone.
func (s *OrderService) UpdateOrder(ctx context.Context, id string, in OrderInput) (*models.Order, error) {
	var updated models.Order
	err := s.repo.Update(ctx, func(snap *repository.Snapshot) error {
		existing := snap.Order(id)
		if existing == nil {
			return notFound("order", id)
		}
		if !existing.CanEdit() {
			return fieldError("status", "not_editable")
		}
		v := validation.Violations{}
		order := buildOrder(snap, in, v)
		if err := invalid(v); err != nil {
			return err
		}

		order.ID = existing.ID
		order.Status = existing.Status
		if order.Date.IsZero() {
			order.Date = existing.Date
		}
		*existing = order
		s.deriver.Derive(snap)
		updated = order
		return nil
	})
	if err != nil {
		s.reject("UpdateOrder", err, logrus.Fields{"order": id})
		return nil, err
	}
	s.log.WithField("order", id).Info("order updated")
	return &updated, nil
}

// RecordPayment adds amount to the order's paid amount.
func (s *OrderService) RecordPayment(ctx context.Context, id string, amount decimal.Decimal) (*models.Order, error) {
	var updated models.Order
	err := s.repo.Update(ctx, func(snap *repository.Snapshot) error {
		o := snap.Order(id)
		if o == nil {
			return notFound("order", id)
		}
		v := validation.Violations{}
		validation.PositiveDecimal("amount", amount, v)
		if o.Status == models.OrderStatusCancelled {
			v.Add("status", "cancelled")
		}
		if err := invalid(v); err != nil {
			return err
		}
		if amount.GreaterThan(o.Balance) {
			return fieldError("amount", "exceeds_balance")
		}
		o.PaidAmount = o.PaidAmount.Add(amount)
		o.Normalize()
		updated = *o
		return nil
	})
	if err != nil {
		s.reject("RecordPayment", err, logrus.Fields{"order": id, "amount": amount.String()})
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"order":   id,
		"amount":  amount.String(),
		"balance": updated.Balance.String(),
	}).Info("payment recorded")
	return &updated, nil
}

// buildOrder turns input into a normalized order, adding violations to v.
// The customer is resolved by ID, then by name; product lines are
// completed from inventory.
func buildOrder(snap *repository.Snapshot, in OrderInput, v validation.Violations) models.Order {
	validation.Struct(in, v)

	order := models.Order{
		ShippingCost: in.ShippingCost,
		PaidAmount:   in.PaidAmount,
		Notes:        strings.TrimSpace(in.Notes),
	}
	if in.Date != nil {
		order.Date = in.Date.UTC()
	}

	customerID := strings.TrimSpace(in.CustomerID)
	name := strings.TrimSpace(in.Customer)
	switch c, ok := models.FindCustomer(snap.Customers, customerID, name); {
	case ok && (customerID == "" || c.ID == customerID):
		order.CustomerID = c.ID
		order.Customer = c.Name
	case customerID != "":
		v.Add("customerId", "unknown_customer")
	case name == "":
		v.Add("customer", "required")
	default:
		order.Customer = name
	}

	for i, item := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		line := models.LineItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Name:      strings.TrimSpace(item.Name),
			Quantity:  item.Quantity,
		}
		if item.UnitPrice != nil {
			line.UnitPrice = *item.UnitPrice
			validation.NonNegativeDecimal(field+".unitPrice", line.UnitPrice, v)
		}
		if line.ProductID != "" {
			inv, ok := models.FindInventoryItem(snap.Inventory, line.ProductID)
			if !ok {
				v.Add(field+".productId", "unknown_product")
			} else {
				if line.Name == "" {
					line.Name = inv.Name
				}
				if item.UnitPrice == nil {
					price, err := inv.SellingAmount()
					if err != nil {
						v.Add(field+".unitPrice", "required")
					}
					line.UnitPrice = price
				}
			}
		} else {
			validation.Required(field+".name", line.Name, v)
			if item.UnitPrice == nil {
				v.Add(field+".unitPrice", "required")
			}
		}
		order.Items = append(order.Items, line)
	}

	validation.NonNegativeDecimal("shippingCost", order.ShippingCost, v)
	order.Normalize()
	validation.RangeDecimal("paidAmount", order.PaidAmount, decimal.Zero, order.TotalAmount, v)
	return order
}

