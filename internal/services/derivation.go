package services

import (
	"slices"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/repository"
)

// DerivationResult counts what one derivation pass changed.
type DerivationResult struct {
	TasksCreated     int
	TasksUpdated     int
	ShipmentsCreated int
	ShipmentsUpdated int
}

// Changed reports whether the pass touched anything.
func (r DerivationResult) Changed() bool {
	return r.TasksCreated+r.TasksUpdated+r.ShipmentsCreated+r.ShipmentsUpdated > 0
}

// Deriver projects orders into design tasks and shipments.
//
// Existing records are matched by order ID and updated in place, so data
// entered on the desks (assignment, notes, courier, tracking, weight, cost)
// survives. Records are never removed. New records are appended in order
// registry order and the clock is never read, which makes a second pass
// over unchanged orders a no-op.
type Deriver struct{}

// Hook adapts the deriver to repository.WithLoadHook.
func (d Deriver) Hook(snap *repository.Snapshot) {
	d.Derive(snap)
}

// Derive updates snap.DesignTasks and snap.Shipments from snap.Orders.
func (d Deriver) Derive(snap *repository.Snapshot) DerivationResult {
	var res DerivationResult

	taskIdx := make(map[string]int, len(snap.DesignTasks))
	for i, t := range snap.DesignTasks {
		taskIdx[t.OrderID] = i
	}
	shipIdx := make(map[string]int, len(snap.Shipments))
	for i, s := range snap.Shipments {
		shipIdx[s.OrderID] = i
	}

	for _, o := range snap.Orders {
		switch {
		case o.Status == models.OrderStatusDesign:
			if i, ok := taskIdx[o.ID]; ok {
				if mergeTask(&snap.DesignTasks[i], o) {
					res.TasksUpdated++
				}
				continue
			}
			snap.DesignTasks = append(snap.DesignTasks, newTask(o))
			taskIdx[o.ID] = len(snap.DesignTasks) - 1
			res.TasksCreated++

		case o.Status.InShipping():
			rec := snap.Progression[o.ID]
			if i, ok := shipIdx[o.ID]; ok {
				if mergeShipment(&snap.Shipments[i], o, snap.Customers, rec) {
					res.ShipmentsUpdated++
				}
				continue
			}
			snap.Shipments = append(snap.Shipments, newShipment(o, snap.Customers, rec))
			shipIdx[o.ID] = len(snap.Shipments) - 1
			res.ShipmentsCreated++
		}
	}
	return res
}

func newTask(o models.Order) models.DesignTask {
	return models.DesignTask{
		ID:       models.DesignTaskID(o.ID),
		OrderID:  o.ID,
		Customer: o.Customer,
		Items:    slices.Clone(o.Items),
		Date:     o.Date,
		Status:   models.DesignTaskNotAssigned,
	}
}

// mergeTask copies the order's denormalized fields, keeping the task's
// own status, assignment and notes.
func mergeTask(t *models.DesignTask, o models.Order) bool {
	changed := t.Customer != o.Customer || !t.Date.Equal(o.Date) || !sameItems(t.Items, o.Items)
	if !changed {
		return false
	}
	t.Customer = o.Customer
	t.Items = slices.Clone(o.Items)
	t.Date = o.Date
	return true
}

func sameItems(a, b []models.LineItem) bool {
	return slices.EqualFunc(a, b, func(x, y models.LineItem) bool {
		return x.ProductID == y.ProductID && x.Name == y.Name && x.Quantity == y.Quantity &&
			x.UnitPrice.Equal(y.UnitPrice) && x.Total.Equal(y.Total)
	})
}

// contactFor resolves a shipment's address and phone from the customer
// list, by customer ID first and display name second.
func contactFor(o models.Order, customers []models.Customer) (address, phone string) {
	c, ok := models.FindCustomer(customers, o.CustomerID, o.Customer)
	if !ok {
		return models.AddressNotProvided, ""
	}
	address = c.FullAddress()
	if address == "" {
		address = models.AddressNotProvided
	}
	return address, c.Phone
}

func newShipment(o models.Order, customers []models.Customer, rec models.ProgressionRecord) models.Shipment {
	address, phone := contactFor(o, customers)
	status, _ := models.ShipmentStatusFor(o.Status)
	s := models.Shipment{
		ID:       models.ShipmentID(o.ID),
		OrderID:  o.ID,
		Customer: o.Customer,
		Address:  address,
		Phone:    phone,
		Status:   status,
	}
	backfillTimes(&s, rec)
	return s
}

// mergeShipment refreshes the customer fields and raises the status to
// match the order. The status is never lowered.
func mergeShipment(s *models.Shipment, o models.Order, customers []models.Customer, rec models.ProgressionRecord) bool {
	changed := false
	if s.Customer != o.Customer {
		// A different customer means different contact details.
		s.Customer = o.Customer
		s.Address, s.Phone = contactFor(o, customers)
		changed = true
	} else if !s.HasContact() || s.Phone == "" {
		address, phone := contactFor(o, customers)
		if !s.HasContact() && address != s.Address {
			s.Address = address
			changed = true
		}
		if s.Phone == "" && phone != "" {
			s.Phone = phone
			changed = true
		}
	}
	if want, ok := models.ShipmentStatusFor(o.Status); ok && s.Status.Before(want) {
		s.Status = want
		changed = true
	}
	if backfillTimes(s, rec) {
		changed = true
	}
	return changed
}

// backfillTimes copies dispatch and delivery times from the order's
// progression record when the shipment has reached that stage without one.
func backfillTimes(s *models.Shipment, rec models.ProgressionRecord) bool {
	changed := false
	if s.DispatchedAt == nil && !s.Status.Before(models.ShipmentDispatched) && rec.ShippingStartTime != nil {
		t := *rec.ShippingStartTime
		s.DispatchedAt = &t
		changed = true
	}
	if s.DeliveredAt == nil && s.Status == models.ShipmentDelivered && rec.ShippingCompleteTime != nil {
		t := *rec.ShippingCompleteTime
		s.DeliveredAt = &t
		changed = true
	}
	return changed
}
