package services

import (
	"context"
	"time"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/shopspring/decimal"
)

// Invoice is the flattened view handed to invoice generators.
type Invoice struct {
	ID       string               `json:"id"`
	OrderID  string               `json:"orderId"`
	Customer string               `json:"customer"`
	Date     time.Time            `json:"date"`
	Amount   decimal.Decimal      `json:"amount"`
	Paid     decimal.Decimal      `json:"paid"`
	Balance  decimal.Decimal      `json:"balance"`
	Items    []models.LineItem    `json:"items"`
	Status   models.PaymentStatus `json:"status"`
}

// CourierSlip is the view handed to courier-slip generators.
type CourierSlip struct {
	ShipmentID     string            `json:"shipmentId"`
	OrderID        string            `json:"orderId"`
	Customer       string            `json:"customer"`
	Address        string            `json:"address"`
	Phone          string            `json:"phone"`
	CourierService string            `json:"courierService"`
	TrackingID     string            `json:"trackingId"`
	Weight         decimal.Decimal   `json:"weight"`
	Items          []models.LineItem `json:"items"`
	AmountDue      decimal.Decimal   `json:"amountDue"`
}

// Dashboard summarises the workflow for the overview screen.
type Dashboard struct {
	OrdersByStatus    map[models.OrderStatus]int      `json:"ordersByStatus"`
	TasksByStatus     map[models.DesignTaskStatus]int `json:"tasksByStatus"`
	ShipmentsByStatus map[models.ShipmentStatus]int   `json:"shipmentsByStatus"`
	Revenue           decimal.Decimal                 `json:"revenue"`
	Outstanding       decimal.Decimal                 `json:"outstanding"`
	LowStock          []models.InventoryItem          `json:"lowStock"`
}

// LowStockThreshold is the stock level at or below which the dashboard flags an item.
const LowStockThreshold = 10

// InvoiceService builds read-only projections. It never writes.
type InvoiceService struct {
	repo *repository.Repository
}

func NewInvoiceService(repo *repository.Repository) *InvoiceService {
	return &InvoiceService{repo: repo}
}

// Invoices returns one invoice per order that has not been cancelled.
// The order ID is the invoice number.
func (s *InvoiceService) Invoices(ctx context.Context) ([]Invoice, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []Invoice{}
	for _, o := range snap.Orders {
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		out = append(out, Invoice{
			ID:       o.ID,
			OrderID:  o.ID,
			Customer: o.Customer,
			Date:     o.Date,
			Amount:   o.TotalAmount,
			Paid:     o.PaidAmount,
			Balance:  o.Balance,
			Items:    o.Items,
			Status:   o.PaymentStatus,
		})
	}
	return out, nil
}

// Slip returns the courier slip for a shipment. The amount due is the
// order's outstanding balance, collected on delivery.
func (s *InvoiceService) Slip(ctx context.Context, shipmentID string) (*CourierSlip, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	sh := snap.Shipment(shipmentID)
	if sh == nil {
		return nil, notFound("shipment", shipmentID)
	}
	slip := &CourierSlip{
		ShipmentID:     sh.ID,
		OrderID:        sh.OrderID,
		Customer:       sh.Customer,
		Address:        sh.Address,
		Phone:          sh.Phone,
		CourierService: sh.CourierService,
		TrackingID:     sh.TrackingID,
		Weight:         sh.Weight,
		Items:          []models.LineItem{},
		AmountDue:      decimal.Zero,
	}
	if o := snap.Order(sh.OrderID); o != nil {
		slip.Items = o.Items
		slip.AmountDue = o.Balance
	}
	return slip, nil
}

// Dashboard computes summary counts and money totals.
// Revenue is what has been collected; outstanding excludes cancelled orders.
func (s *InvoiceService) Dashboard(ctx context.Context) (*Dashboard, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		OrdersByStatus:    map[models.OrderStatus]int{},
		TasksByStatus:     map[models.DesignTaskStatus]int{},
		ShipmentsByStatus: map[models.ShipmentStatus]int{},
		Revenue:           decimal.Zero,
		Outstanding:       decimal.Zero,
	}
	for _, st := range models.OrderStatuses {
		d.OrdersByStatus[st] = 0
	}
	for _, o := range snap.Orders {
		d.OrdersByStatus[o.Status]++
		d.Revenue = d.Revenue.Add(o.PaidAmount)
		if o.Status != models.OrderStatusCancelled {
			d.Outstanding = d.Outstanding.Add(o.Balance)
		}
	}
	for _, t := range snap.DesignTasks {
		d.TasksByStatus[t.Status]++
	}
	for _, sh := range snap.Shipments {
		d.ShipmentsByStatus[sh.Status]++
	}
	d.LowStock = lowStock(snap.Inventory, LowStockThreshold)
	return d, nil
}
