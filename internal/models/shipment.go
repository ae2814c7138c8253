package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const shipmentIDPrefix = "SHP-"

// AddressNotProvided is used when no customer record matches a shipment.
const AddressNotProvided = "address not provided"

// Shipment is the shipping desk's view of an order that reached the ready stage.
type Shipment struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"orderId"`
	Customer       string          `json:"customer"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	CourierService string          `json:"courierService,omitempty"`
	TrackingID     string          `json:"trackingId,omitempty"`
	Weight         decimal.Decimal `json:"weight"`
	DeliveryCost   decimal.Decimal `json:"deliveryCost"`
	Status         ShipmentStatus  `json:"status"`
	DispatchedAt   *time.Time      `json:"dispatchedAt,omitempty"`
	DeliveredAt    *time.Time      `json:"deliveredAt,omitempty"`
}

// ShipmentID derives the shipment ID from its order ID.
func ShipmentID(orderID string) string {
	return shipmentIDPrefix + orderID
}

// HasContact returns true if the contact fields came from a real customer record.
func (s *Shipment) HasContact() bool {
	return s.Address != "" && s.Address != AddressNotProvided
}
