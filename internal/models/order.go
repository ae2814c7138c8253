package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the authoritative record of a customer order.
// The ID doubles as the invoice and display number.
type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId,omitempty"`
	Customer      string          `json:"customer"`
	Items         []LineItem      `json:"items"`
	ShippingCost  decimal.Decimal `json:"shippingCost"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Balance       decimal.Decimal `json:"balance"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Date          time.Time       `json:"date"`
	Status        OrderStatus     `json:"status"`
	Notes         string          `json:"notes,omitempty"`
}

// LineItem is one product line on an order.
type LineItem struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// LineTotal calculates quantity × unit price.
func (item LineItem) LineTotal() decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal sums the line totals, excluding shipping.
func (o *Order) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Normalize recomputes every derived money field from its inputs:
// line totals, total amount, balance and payment status.
// Call it after any change to items, shipping or payments.
func (o *Order) Normalize() {
	for i := range o.Items {
		o.Items[i].Total = o.Items[i].LineTotal()
	}
	o.TotalAmount = o.Subtotal().Add(o.ShippingCost)
	o.Balance = o.TotalAmount.Sub(o.PaidAmount)
	o.PaymentStatus = paymentStatusFor(o.TotalAmount, o.PaidAmount)
}

func paymentStatusFor(total, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.Sign() <= 0:
		return PaymentUnpaid
	case paid.GreaterThanOrEqual(total):
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// CanEdit returns true while the order has not reached a terminal stage.
func (o *Order) CanEdit() bool {
	return !o.Status.IsTerminal()
}

// MaxLineQuantity bounds a single order line.
const MaxLineQuantity = 1_000_000

// QuantitiesByProduct sums requested quantities per stock-tracked product.
// Lines without a product ID are custom items and are skipped. A sum that
// would overflow saturates at math.MaxInt.
func (o *Order) QuantitiesByProduct() map[string]int {
	out := make(map[string]int)
	for _, item := range o.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		if out[item.ProductID] > math.MaxInt-item.Quantity {
			out[item.ProductID] = math.MaxInt
			continue
		}
		out[item.ProductID] += item.Quantity
	}
	return out
}

const orderIDPrefix = "ORD-"

// NextOrderID generates the next sequential order number after the
// highest numeric ID in orders. Format: ORD-NNNN (e.g., ORD-1001).
func NextOrderID(orders []Order) string {
	highest := 1000
	for _, o := range orders {
		n, err := strconv.Atoi(strings.TrimPrefix(o.ID, orderIDPrefix))
		if err != nil || !strings.HasPrefix(o.ID, orderIDPrefix) {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", orderIDPrefix, highest+1)
}
