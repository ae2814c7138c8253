package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceStatus_LegalTransitions(t *testing.T) {
	tests := []struct {
		name        string
		orderID     string
		target      models.OrderStatus
		wantMessage string
		stamped     func(models.ProgressionRecord) bool
	}{
		{"new to design", "ORD-1006", models.OrderStatusDesign, "Order moved to design",
			func(r models.ProgressionRecord) bool { return r.DesignStartTime != nil }},
		{"design to ready", "ORD-1001", models.OrderStatusReady, "Design completed, order is ready for shipping",
			func(r models.ProgressionRecord) bool { return r.DesignCompleteTime != nil }},
		{"ready to dispatched", "ORD-1002", models.OrderStatusDispatched, "Order dispatched to courier",
			func(r models.ProgressionRecord) bool { return r.ShippingStartTime != nil }},
		{"dispatched to delivered", "ORD-1003", models.OrderStatusDelivered, "Order delivered successfully",
			func(r models.ProgressionRecord) bool { return r.ShippingCompleteTime != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tr, err := env.orders.AdvanceStatus(context.Background(), tt.orderID, tt.target, "staff")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMessage, tr.Message)
			assert.Equal(t, tt.target, tr.To)

			snap := env.snapshot(t)
			assert.Equal(t, tt.target, snap.Order(tt.orderID).Status)
			rec := snap.Progression[tt.orderID]
			assert.True(t, tt.stamped(rec))
			assert.True(t, rec.EnteredAt(tt.target).Equal(testNow))
		})
	}
}

func TestAdvanceStatus_IllegalTransitionLeavesOrderUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		orderID string
		target  models.OrderStatus
	}{
		{"ORD-1006", models.OrderStatusReady},      // skips design
		{"ORD-1001", models.OrderStatusDelivered},  // skips ahead
		{"ORD-1002", models.OrderStatusDesign},     // backwards
		{"ORD-1004", models.OrderStatusDispatched}, // from terminal
		{"ORD-1005", models.OrderStatusDesign},     // from cancelled
		{"ORD-1001", models.OrderStatusDesign},     // self loop
		{"ORD-1001", "shipped"},                    // not a status
		{"ORD-1006", models.OrderStatusCancelled},  // new cannot be cancelled
	}
	before := env.snapshot(t)
	for _, c := range cases {
		_, err := env.orders.AdvanceStatus(ctx, c.orderID, c.target, "admin")
		var illegal *IllegalTransitionError
		require.ErrorAs(t, err, &illegal, "%s -> %s", c.orderID, c.target)
		assert.Equal(t, string(c.target), illegal.To)
	}
	after := env.snapshot(t)
	assert.Equal(t, before.Orders, after.Orders)
	assert.Equal(t, before.Progression, after.Progression)
	assert.Equal(t, float64(len(cases)), testutil.ToFloat64(env.metrics.Rejections.WithLabelValues("illegal_transition")))
}

func TestAdvanceStatus_CancelRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, role := range []string{"staff", "designer", "shipping", "", "ghost"} {
		_, err := env.orders.AdvanceStatus(ctx, "ORD-1001", models.OrderStatusCancelled, role)
		var authz *AuthorizationError
		require.ErrorAs(t, err, &authz, "role %q", role)
	}
	snap := env.snapshot(t)
	assert.Equal(t, models.OrderStatusDesign, snap.Order("ORD-1001").Status)
	assert.Nil(t, snap.Progression["ORD-1001"].CancelledTime)

	tr, err := env.orders.AdvanceStatus(ctx, "ORD-1001", models.OrderStatusCancelled, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Order cancelled", tr.Message)
	snap = env.snapshot(t)
	assert.Equal(t, models.OrderStatusCancelled, snap.Order("ORD-1001").Status)
	assert.NotNil(t, snap.Progression["ORD-1001"].CancelledTime)
}

func TestAdvanceStatus_LegalityCheckedBeforeAuthorization(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orders.AdvanceStatus(context.Background(), "ORD-1004", models.OrderStatusCancelled, "staff")
	var illegal *IllegalTransitionError
	assert.ErrorAs(t, err, &illegal)
}

func TestAdvanceStatus_UnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orders.AdvanceStatus(context.Background(), "ORD-9999", models.OrderStatusReady, "admin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdvanceStatus_ToReadyCreatesShipment(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orders.AdvanceStatus(context.Background(), "ORD-1001", models.OrderStatusReady, "staff")
	require.NoError(t, err)

	snap := env.snapshot(t)
	sh := snap.Shipment(models.ShipmentID("ORD-1001"))
	require.NotNil(t, sh)
	assert.Equal(t, models.ShipmentReady, sh.Status)
	assert.Equal(t, "14 MG Road, Pune - 411001", sh.Address)
	assert.Equal(t, "9876543210", sh.Phone)
	assert.NotNil(t, snap.DesignTask(models.DesignTaskID("ORD-1001")), "design task is retained")
}

func TestCreateOrder_DecrementsStockAndEntersDesign(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, 45, env.stock(t, "INV001"))

	order, err := env.orders.CreateOrder(context.Background(), OrderInput{
		Customer: "Asha Traders",
		Items:    []LineItemInput{{ProductID: "INV001", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-1007", order.ID)
	assert.Equal(t, models.OrderStatusDesign, order.Status)
	assert.Equal(t, "0b7d4b8e-3c1a-4f0e-9d57-1a2f6c3e8b01", order.CustomerID)
	assert.Equal(t, "Business Cards (box of 100)", order.Items[0].Name)
	assert.Equal(t, "900", order.TotalAmount.String())
	assert.Equal(t, models.PaymentUnpaid, order.PaymentStatus)
	assert.True(t, order.Date.Equal(testNow))

	assert.Equal(t, 43, env.stock(t, "INV001"))
	snap := env.snapshot(t)
	rec := snap.Progression[order.ID]
	require.NotNil(t, rec.DesignStartTime)
	assert.True(t, rec.DesignStartTime.Equal(testNow))

	task := snap.DesignTask(models.DesignTaskID(order.ID))
	require.NotNil(t, task)
	assert.Equal(t, models.DesignTaskNotAssigned, task.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.OrdersCreated))
}

func TestCreateOrder_InsufficientStockIsAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	before := env.snapshot(t)

	_, err := env.orders.CreateOrder(context.Background(), OrderInput{
		Customer: "Cedar Cafe",
		Items: []LineItemInput{
			{ProductID: "INV001", Quantity: 2},
			{ProductID: "INV003", Quantity: 20},
		},
	})

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "INV003", stockErr.ProductID)
	assert.Equal(t, "Printed Mug", stockErr.Name)
	assert.Equal(t, 20, stockErr.Requested)
	assert.Equal(t, 18, stockErr.Available)

	after := env.snapshot(t)
	assert.Equal(t, 18, env.stock(t, "INV003"))
	assert.Equal(t, 45, env.stock(t, "INV001"))
	assert.Equal(t, before.Orders, after.Orders)
	assert.Equal(t, before.DesignTasks, after.DesignTasks)
}

func TestCreateOrder_QuantitiesSummedPerProduct(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orders.CreateOrder(context.Background(), OrderInput{
		Customer: "Cedar Cafe",
		Items: []LineItemInput{
			{ProductID: "INV003", Quantity: 10},
			{ProductID: "INV003", Name: "Printed Mug (gift wrap)", Quantity: 10},
		},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 20, stockErr.Requested)
	assert.Equal(t, 18, env.stock(t, "INV003"))
}

func TestCreateOrder_OversizedQuantitiesLeaveStockAlone(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orders.CreateOrder(context.Background(), OrderInput{
		Customer: "Cedar Cafe",
		Items: []LineItemInput{
			{ProductID: "INV001", Quantity: math.MaxInt/2 + 1},
			{ProductID: "INV001", Quantity: math.MaxInt/2 + 1},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "too_large", verr.Fields["items[0].quantity"])
	assert.Equal(t, "too_large", verr.Fields["items[1].quantity"])
	assert.Equal(t, 45, env.stock(t, "INV001"))
	assert.Len(t, env.snapshot(t).Orders, 6)
}

func TestReserveStock_RejectsOverflowedTotals(t *testing.T) {
	inventory := []models.InventoryItem{{ID: "INV001", Name: "Business Cards (box of 100)", Stock: 45}}
	for _, qty := range []int{math.MaxInt, -3} {
		err := reserveStock(inventory, map[string]int{"INV001": qty}, time.Now())
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 45, inventory[0].Stock)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input OrderInput
		field string
	}{
		{"no items", OrderInput{Customer: "Asha Traders"}, "items"},
		{"no customer", OrderInput{Items: []LineItemInput{{ProductID: "INV001", Quantity: 1}}}, "customer"},
		{"unknown customer id", OrderInput{CustomerID: "nope", Items: []LineItemInput{{ProductID: "INV001", Quantity: 1}}}, "customerId"},
		{"zero quantity", OrderInput{Customer: "X", Items: []LineItemInput{{ProductID: "INV001", Quantity: 0}}}, "items[0].quantity"},
		{"unknown product", OrderInput{Customer: "X", Items: []LineItemInput{{ProductID: "INV999", Quantity: 1}}}, "items[0].productId"},
		{"custom line without price", OrderInput{Customer: "X", Items: []LineItemInput{{Name: "Sticker", Quantity: 1}}}, "items[0].unitPrice"},
		{"custom line without name", OrderInput{Customer: "X", Items: []LineItemInput{{Quantity: 1, UnitPrice: price("10")}}}, "items[0].name"},
		{"negative price", OrderInput{Customer: "X", Items: []LineItemInput{{Name: "A", Quantity: 1, UnitPrice: price("-1")}}}, "items[0].unitPrice"},
		{"negative shipping", OrderInput{Customer: "X", ShippingCost: dec("-5"), Items: []LineItemInput{{Name: "A", Quantity: 1, UnitPrice: price("1")}}}, "shippingCost"},
		{"overpaid", OrderInput{Customer: "X", PaidAmount: dec("11"), Items: []LineItemInput{{Name: "A", Quantity: 1, UnitPrice: price("10")}}}, "paidAmount"},
		{"negative paid", OrderInput{Customer: "X", PaidAmount: dec("-1"), Items: []LineItemInput{{Name: "A", Quantity: 1, UnitPrice: price("10")}}}, "paidAmount"},
		{"quantity too large", OrderInput{Customer: "X", Items: []LineItemInput{{ProductID: "INV001", Quantity: models.MaxLineQuantity + 1}}}, "items[0].quantity"},
		{"duplicate id", OrderInput{ID: "ORD-1001", Customer: "X", Items: []LineItemInput{{Name: "A", Quantity: 1, UnitPrice: price("10")}}}, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.orders.CreateOrder(context.Background(), tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Len(t, env.snapshot(t).Orders, 6)
		})
	}
}

func TestCreateOrder_CustomLineNotStockTracked(t *testing.T) {
	env := newTestEnv(t)
	order, err := env.orders.CreateOrder(context.Background(), OrderInput{
		ID:           "WEB-77",
		Customer:     "New Walk-in",
		ShippingCost: dec("40"),
		PaidAmount:   dec("100"),
		Items:        []LineItemInput{{Name: "Hand-lettered sign", Quantity: 2, UnitPrice: price("250")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "WEB-77", order.ID)
	assert.Empty(t, order.CustomerID)
	assert.Equal(t, "540", order.TotalAmount.String())
	assert.Equal(t, "440", order.Balance.String())
	assert.Equal(t, models.PaymentPartial, order.PaymentStatus)
}

func TestUpdateOrder_KeepsStockStatusAndProgression(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	before := env.snapshot(t)

	updated, err := env.orders.UpdateOrder(ctx, "ORD-1001", OrderInput{
		Customer:     "Asha Traders",
		ShippingCost: dec("0"),
		Items:        []LineItemInput{{ProductID: "INV001", Quantity: 10}},
		Notes:        "Rush",
	})
	require.NoError(t, err)
	assert.Equal(t, "4500", updated.TotalAmount.String())
	assert.Equal(t, models.OrderStatusDesign, updated.Status)
	assert.Equal(t, "Rush", updated.Notes)

	after := env.snapshot(t)
	assert.Equal(t, 45, env.stock(t, "INV001"))
	assert.Equal(t, before.Progression, after.Progression)
	assert.True(t, after.Order("ORD-1001").Date.Equal(before.Order("ORD-1001").Date))

	task := after.DesignTask(models.DesignTaskID("ORD-1001"))
	assert.Equal(t, 10, task.Items[0].Quantity, "design task picks up the new items")
	assert.Equal(t, models.DesignTaskInProgress, task.Status, "task keeps its own status")
	assert.Equal(t, "Meera", *task.AssignedDesigner)
}

func TestUpdateOrder_CustomerChangeRefreshesShipmentContact(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.orders.UpdateOrder(ctx, "ORD-1003", OrderInput{
		Customer:     "Bright Prints",
		ShippingCost: dec("80"),
		PaidAmount:   dec("500"),
		Items:        []LineItemInput{{ProductID: "INV003", Quantity: 5}},
	})
	require.NoError(t, err)

	sh := env.snapshot(t).Shipment(models.ShipmentID("ORD-1003"))
	assert.Equal(t, "Bright Prints", sh.Customer)
	assert.Equal(t, "3 Park Street, Kolkata - 700016", sh.Address)
	assert.Equal(t, "9822012345", sh.Phone)
	assert.Equal(t, "BlueDart", sh.CourierService, "courier details survive")
	assert.Equal(t, models.ShipmentDispatched, sh.Status)

	_, err = env.orders.UpdateOrder(ctx, "ORD-1003", OrderInput{
		Customer: "Counter sale",
		Items:    []LineItemInput{{ProductID: "INV003", Quantity: 5}},
	})
	require.NoError(t, err)

	sh = env.snapshot(t).Shipment(models.ShipmentID("ORD-1003"))
	assert.Equal(t, models.AddressNotProvided, sh.Address)
	assert.Empty(t, sh.Phone)
}

func TestUpdateOrder_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	input := OrderInput{Customer: "X", Items: []LineItemInput{{Name: "A", Quantity: 1, UnitPrice: price("1")}}}

	_, err := env.orders.UpdateOrder(ctx, "ORD-4040", input)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.orders.UpdateOrder(ctx, "ORD-1004", input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "not_editable", verr.Fields["status"])
}

func TestRecordPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	o, err := env.orders.RecordPayment(ctx, "ORD-1003", dec("330"))
	require.NoError(t, err)
	assert.Equal(t, "830", o.PaidAmount.String())
	assert.Equal(t, "1000", o.Balance.String())
	assert.True(t, o.Balance.Equal(o.TotalAmount.Sub(o.PaidAmount)))
	assert.Equal(t, models.PaymentPartial, o.PaymentStatus)

	o, err = env.orders.RecordPayment(ctx, "ORD-1003", dec("1000"))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
	assert.True(t, o.Balance.IsZero())

	var verr *ValidationError
	_, err = env.orders.RecordPayment(ctx, "ORD-1003", dec("1"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "exceeds_balance", verr.Fields["amount"])

	_, err = env.orders.RecordPayment(ctx, "ORD-1001", dec("0"))
	require.ErrorAs(t, err, &verr)

	_, err = env.orders.RecordPayment(ctx, "ORD-1005", dec("10"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "cancelled", verr.Fields["status"])
}

func TestBalanceInvariantAfterEveryMutation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.orders.CreateOrder(ctx, OrderInput{Customer: "Bright Prints", PaidAmount: dec("100"),
		Items: []LineItemInput{{ProductID: "INV002", Quantity: 1}}})
	require.NoError(t, err)
	_, err = env.orders.RecordPayment(ctx, "ORD-1001", dec("200"))
	require.NoError(t, err)
	_, err = env.orders.UpdateOrder(ctx, "ORD-1003", OrderInput{Customer: "Cedar Cafe", PaidAmount: dec("500"),
		ShippingCost: dec("10"), Items: []LineItemInput{{ProductID: "INV003", Quantity: 2}}})
	require.NoError(t, err)

	for _, o := range env.snapshot(t).Orders {
		assert.True(t, o.Balance.Equal(o.TotalAmount.Sub(o.PaidAmount)), "order %s", o.ID)
	}
}

func TestListAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	all, err := env.orders.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	design, err := env.orders.List(ctx, models.OrderStatusDesign)
	require.NoError(t, err)
	require.Len(t, design, 1)
	assert.Equal(t, "ORD-1001", design[0].ID)

	_, err = env.orders.List(ctx, "bogus")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	o, err := env.orders.Get(ctx, "ORD-1002")
	require.NoError(t, err)
	assert.Equal(t, "Bright Prints", o.Customer)

	_, err = env.orders.Get(ctx, "ORD-0000")
	assert.True(t, errors.Is(err, ErrNotFound))

	rec, err := env.orders.Progression(ctx, "ORD-1003")
	require.NoError(t, err)
	assert.NotNil(t, rec.ShippingStartTime)
	_, err = env.orders.Progression(ctx, "ORD-0000")
	assert.ErrorIs(t, err, ErrNotFound)
}
