package models

// OrderStatus is the fulfillment stage of an order.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusDesign     OrderStatus = "design"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDispatched OrderStatus = "dispatched"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every stage in workflow order, cancelled last.
var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusDesign,
	OrderStatusReady,
	OrderStatusDispatched,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the six known stages.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusDesign, OrderStatusReady,
		OrderStatusDispatched, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo returns true if target is a direct successor of s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusNew:
		return target == OrderStatusDesign
	case OrderStatusDesign:
		return target == OrderStatusReady || target == OrderStatusCancelled
	case OrderStatusReady:
		return target == OrderStatusDispatched || target == OrderStatusCancelled
	case OrderStatusDispatched:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	default:
		return false
	}
}

// InShipping reports whether an order in s is tracked by a shipment.
func (s OrderStatus) InShipping() bool {
	return s == OrderStatusReady || s == OrderStatusDispatched || s == OrderStatusDelivered
}

// DesignTaskStatus is the progress of a design task.
type DesignTaskStatus string

const (
	DesignTaskNotAssigned        DesignTaskStatus = "not_assigned"
	DesignTaskInProgress         DesignTaskStatus = "in_progress"
	DesignTaskPartiallyCompleted DesignTaskStatus = "partially_completed"
	DesignTaskCompleted          DesignTaskStatus = "completed"
)

// IsValid reports whether s is a known task status.
func (s DesignTaskStatus) IsValid() bool {
	switch s {
	case DesignTaskNotAssigned, DesignTaskInProgress, DesignTaskPartiallyCompleted, DesignTaskCompleted:
		return true
	default:
		return false
	}
}

// ShipmentStatus is the courier stage of a shipment.
type ShipmentStatus string

const (
	ShipmentReady      ShipmentStatus = "ready"
	ShipmentDispatched ShipmentStatus = "dispatched"
	ShipmentDelivered  ShipmentStatus = "delivered"
)

// rank orders shipment statuses; unknown values rank below ready.
func (s ShipmentStatus) rank() int {
	switch s {
	case ShipmentReady:
		return 1
	case ShipmentDispatched:
		return 2
	case ShipmentDelivered:
		return 3
	default:
		return 0
	}
}

// IsValid reports whether s is a known shipment status.
func (s ShipmentStatus) IsValid() bool {
	return s.rank() > 0
}

// Before reports whether s comes strictly earlier than other.
func (s ShipmentStatus) Before(other ShipmentStatus) bool {
	return s.rank() < other.rank()
}

// CanAdvanceTo allows only the single forward step ready → dispatched → delivered.
func (s ShipmentStatus) CanAdvanceTo(target ShipmentStatus) bool {
	return target.IsValid() && target.rank() == s.rank()+1
}

// ShipmentStatusFor maps an order stage to the shipment status that mirrors it.
// The second result is false for stages that have no shipment.
func ShipmentStatusFor(s OrderStatus) (ShipmentStatus, bool) {
	switch s {
	case OrderStatusReady:
		return ShipmentReady, true
	case OrderStatusDispatched:
		return ShipmentDispatched, true
	case OrderStatusDelivered:
		return ShipmentDelivered, true
	default:
		return "", false
	}
}

// PaymentStatus summarises how much of an order has been paid.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)
