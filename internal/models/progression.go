package models

import "time"

// ProgressionRecord holds the time an order entered each stage.
// It is used for reporting only, never for control flow.
type ProgressionRecord struct {
	DesignStartTime      *time.Time `json:"designStartTime,omitempty"`
	DesignCompleteTime   *time.Time `json:"designCompleteTime,omitempty"`
	ShippingStartTime    *time.Time `json:"shippingStartTime,omitempty"`
	ShippingCompleteTime *time.Time `json:"shippingCompleteTime,omitempty"`
	CancelledTime        *time.Time `json:"cancelledTime,omitempty"`
}

// Progression maps order ID to its progression record.
type Progression map[string]ProgressionRecord

// Stamp records that the order entered status at t.
// Re-entering a stage overwrites the earlier timestamp. Statuses without a
// progression field (new) are ignored and reported as false.
func (r *ProgressionRecord) Stamp(status OrderStatus, t time.Time) bool {
	ts := t
	switch status {
	case OrderStatusDesign:
		r.DesignStartTime = &ts
	case OrderStatusReady:
		r.DesignCompleteTime = &ts
	case OrderStatusDispatched:
		r.ShippingStartTime = &ts
	case OrderStatusDelivered:
		r.ShippingCompleteTime = &ts
	case OrderStatusCancelled:
		r.CancelledTime = &ts
	default:
		return false
	}
	return true
}

// EnteredAt returns the recorded entry time for status, if any.
func (r ProgressionRecord) EnteredAt(status OrderStatus) *time.Time {
	switch status {
	case OrderStatusDesign:
		return r.DesignStartTime
	case OrderStatusReady:
		return r.DesignCompleteTime
	case OrderStatusDispatched:
		return r.ShippingStartTime
	case OrderStatusDelivered:
		return r.ShippingCompleteTime
	case OrderStatusCancelled:
		return r.CancelledTime
	default:
		return nil
	}
}

// Stamp sets the stage timestamp for orderID, creating the record if needed.
func (p Progression) Stamp(orderID string, status OrderStatus, t time.Time) {
	rec := p[orderID]
	if rec.Stamp(status, t) {
		p[orderID] = rec
	}
}
