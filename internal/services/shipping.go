package services

import (
	"context"
	"strings"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/diewo77/orderdesk/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DispatchInput hands a ready shipment to a courier.
type DispatchInput struct {
	CourierService string `json:"courierService"`
	TrackingID     string `json:"trackingId"`
}

// DeliveryDetails are required to mark a shipment delivered.
type DeliveryDetails struct {
	CourierService string           `json:"courierService"`
	Weight         *decimal.Decimal `json:"weight"`
	DeliveryCost   *decimal.Decimal `json:"deliveryCost"`
}

// ShippingService runs the shipping desk. Dispatch and delivery advance
// the parent order through the order service.
type ShippingService struct {
	orders *OrderService
}

func NewShippingService(orders *OrderService) *ShippingService {
	return &ShippingService{orders: orders}
}

// List returns all shipments, or only those in status when it is set.
func (s *ShippingService) List(ctx context.Context, status models.ShipmentStatus) ([]models.Shipment, error) {
	if status != "" && !status.IsValid() {
		return nil, fieldError("status", "invalid_value")
	}
	snap, err := s.orders.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Shipment{}
	for _, sh := range snap.Shipments {
		if status == "" || sh.Status == status {
			out = append(out, sh)
		}
	}
	return out, nil
}

// UpdateDetails edits courier and tracking on a shipment that has not
// been delivered. The status is not touched.
func (s *ShippingService) UpdateDetails(ctx context.Context, id string, in DispatchInput) (*models.Shipment, error) {
	var updated models.Shipment
	err := s.orders.repo.Update(ctx, func(snap *repository.Snapshot) error {
		sh := snap.Shipment(id)
		if sh == nil {
			return notFound("shipment", id)
		}
		if sh.Status == models.ShipmentDelivered {
			return fieldError("status", "not_editable")
		}
		if c := strings.TrimSpace(in.CourierService); c != "" {
			sh.CourierService = c
		}
		if t := strings.TrimSpace(in.TrackingID); t != "" {
			sh.TrackingID = t
		}
		updated = *sh
		return nil
	})
	if err != nil {
		s.orders.reject("ShippingService.UpdateDetails", err, logrus.Fields{"shipment": id})
		return nil, err
	}
	return &updated, nil
}

// Dispatch moves a ready shipment and its order to dispatched.
func (s *ShippingService) Dispatch(ctx context.Context, id string, in DispatchInput, role string) (*models.Shipment, *Transition, error) {
	v := validation.Violations{}
	validation.Required("courierService", in.CourierService, v)

	return s.advance(ctx, id, models.ShipmentDispatched, v, role, func(sh *models.Shipment, tr *Transition) {
		sh.CourierService = strings.TrimSpace(in.CourierService)
		if t := strings.TrimSpace(in.TrackingID); t != "" {
			sh.TrackingID = t
		}
		at := tr.At
		sh.DispatchedAt = &at
	})
}

// Deliver moves a dispatched shipment and its order to delivered.
// Courier, weight and delivery cost are all required.
func (s *ShippingService) Deliver(ctx context.Context, id string, d DeliveryDetails, role string) (*models.Shipment, *Transition, error) {
	v := validation.Violations{}
	validation.Required("courierService", d.CourierService, v)
	if d.Weight == nil {
		v.Add("weight", "required")
	} else {
		validation.PositiveDecimal("weight", *d.Weight, v)
	}
	if d.DeliveryCost == nil {
		v.Add("deliveryCost", "required")
	} else {
		validation.NonNegativeDecimal("deliveryCost", *d.DeliveryCost, v)
	}

	return s.advance(ctx, id, models.ShipmentDelivered, v, role, func(sh *models.Shipment, tr *Transition) {
		sh.CourierService = strings.TrimSpace(d.CourierService)
		sh.Weight = *d.Weight
		sh.DeliveryCost = *d.DeliveryCost
		at := tr.At
		sh.DeliveredAt = &at
	})
}

// advance checks the shipment step, then the input, then moves the order.
// apply fills in the shipment fields once the order has moved.
func (s *ShippingService) advance(
	ctx context.Context,
	id string,
	target models.ShipmentStatus,
	v validation.Violations,
	role string,
	apply func(*models.Shipment, *Transition),
) (*models.Shipment, *Transition, error) {
	var (
		updated models.Shipment
		tr      *Transition
	)
	err := s.orders.repo.Update(ctx, func(snap *repository.Snapshot) error {
		sh := snap.Shipment(id)
		if sh == nil {
			return notFound("shipment", id)
		}
		if !sh.Status.CanAdvanceTo(target) {
			return &IllegalTransitionError{From: string(sh.Status), To: string(target)}
		}
		if err := invalid(v); err != nil {
			return err
		}

		var err error
		tr, err = s.orders.advance(ctx, snap, sh.OrderID, models.OrderStatus(target), role)
		if err != nil {
			return err
		}
		sh = snap.Shipment(id)
		sh.Status = target
		apply(sh, tr)
		updated = *sh
		return nil
	})
	if err != nil {
		s.orders.reject("ShippingService.advance", err, logrus.Fields{"shipment": id, "to": target, "role": role})
		return nil, nil, err
	}
	s.orders.committed(tr, role)
	return &updated, tr, nil
}
