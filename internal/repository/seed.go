package repository

import (
	"slices"
	"time"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/shopspring/decimal"
)

func seedDay(day, hour int) time.Time {
	return time.Date(2026, time.January, day, hour, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func line(productID, name string, qty int, price int64) models.LineItem {
	return models.LineItem{ProductID: productID, Name: name, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

// Seed returns the demo data set used on first start and by Reset.
// Design tasks and shipments not listed here are filled in by derivation.
func Seed() *Snapshot {
	customers := []models.Customer{
		{ID: "0b7d4b8e-3c1a-4f0e-9d57-1a2f6c3e8b01", Name: "Asha Traders", Email: "orders@ashatraders.in", Phone: "9876543210", Address: "14 MG Road, Pune", Pincode: "411001"},
		{ID: "5e2c9a71-8f44-4b6d-a0c3-7d91e2b4f602", Name: "Bright Prints", Email: "hello@brightprints.in", Phone: "9822012345", Address: "3 Park Street, Kolkata", Pincode: "700016"},
		{ID: "a3f81c2d-6b59-4e17-8c0a-94d2b7e1c503", Name: "Cedar Cafe", Phone: "9123456789", Address: "22 Brigade Road, Bengaluru", Pincode: "560025"},
		{ID: "d94e0b6a-2f73-4c88-b1e5-0c6a8f3d2704", Name: "Deepa Boutique", Email: "deepa@boutique.in", Phone: "9988776655", Address: "7 Linking Road, Mumbai", Pincode: "400050"},
		{ID: "f1c7a5e3-9d20-4a6b-8e4f-2b3c5d7e9805", Name: "Ethan Stores", Phone: "9001122334", Address: "88 Anna Salai, Chennai", Pincode: "600002"},
	}

	orders := []models.Order{
		{
			ID: "ORD-1001", CustomerID: customers[0].ID, Customer: customers[0].Name,
			Items:        []models.LineItem{line("INV001", "Business Cards (box of 100)", 2, 450)},
			ShippingCost: decimal.NewFromInt(50),
			Date:         seedDay(5, 10), Status: models.OrderStatusDesign,
		},
		{
			ID: "ORD-1002", CustomerID: customers[1].ID, Customer: customers[1].Name,
			Items:      []models.LineItem{line("INV002", "Vinyl Banner 6x3 ft", 1, 1200)},
			PaidAmount: decimal.NewFromInt(1200),
			Date:       seedDay(6, 11), Status: models.OrderStatusReady,
		},
		{
			ID: "ORD-1003", CustomerID: customers[2].ID, Customer: customers[2].Name,
			Items:        []models.LineItem{line("INV003", "Printed Mug", 5, 350)},
			ShippingCost: decimal.NewFromInt(80),
			PaidAmount:   decimal.NewFromInt(500),
			Date:         seedDay(7, 9), Status: models.OrderStatusDispatched,
		},
		{
			ID: "ORD-1004", CustomerID: customers[3].ID, Customer: customers[3].Name,
			Items:        []models.LineItem{line("INV004", "Canvas Tote Bag", 3, 220)},
			ShippingCost: decimal.NewFromInt(60),
			PaidAmount:   decimal.NewFromInt(720),
			Date:         seedDay(8, 15), Status: models.OrderStatusDelivered,
		},
		{
			ID: "ORD-1005", CustomerID: customers[4].ID, Customer: customers[4].Name,
			Items: []models.LineItem{{Name: "Custom shop-front banner", Quantity: 1, UnitPrice: decimal.NewFromInt(900)}},
			Date:  seedDay(9, 12), Status: models.OrderStatusCancelled,
			Notes: "Customer changed venue",
		},
		{
			ID: "ORD-1006", Customer: "Walk-in customer",
			Items: []models.LineItem{line("INV001", "Business Cards (box of 100)", 1, 450)},
			Date:  seedDay(10, 16), Status: models.OrderStatusNew,
		},
	}
	for i := range orders {
		orders[i].Normalize()
	}

	progression := models.Progression{
		"ORD-1001": {DesignStartTime: ptr(seedDay(5, 10))},
		"ORD-1002": {DesignStartTime: ptr(seedDay(6, 11)), DesignCompleteTime: ptr(seedDay(7, 14))},
		"ORD-1003": {DesignStartTime: ptr(seedDay(7, 9)), DesignCompleteTime: ptr(seedDay(8, 10)), ShippingStartTime: ptr(seedDay(9, 9))},
		"ORD-1004": {DesignStartTime: ptr(seedDay(8, 15)), DesignCompleteTime: ptr(seedDay(9, 11)), ShippingStartTime: ptr(seedDay(10, 9)), ShippingCompleteTime: ptr(seedDay(12, 17))},
		"ORD-1005": {DesignStartTime: ptr(seedDay(9, 12)), CancelledTime: ptr(seedDay(10, 10))},
	}

	designTasks := []models.DesignTask{
		{
			ID: models.DesignTaskID("ORD-1001"), OrderID: "ORD-1001", Customer: customers[0].Name,
			Items: slices.Clone(orders[0].Items), Date: orders[0].Date,
			Status: models.DesignTaskInProgress, AssignedDesigner: ptr("Meera"),
		},
	}

	shipments := []models.Shipment{
		{
			ID: models.ShipmentID("ORD-1003"), OrderID: "ORD-1003", Customer: customers[2].Name,
			Address: customers[2].FullAddress(), Phone: customers[2].Phone,
			CourierService: "BlueDart", TrackingID: "BD7712340091",
			Status: models.ShipmentDispatched, DispatchedAt: ptr(seedDay(9, 9)),
		},
		{
			ID: models.ShipmentID("ORD-1004"), OrderID: "ORD-1004", Customer: customers[3].Name,
			Address: customers[3].FullAddress(), Phone: customers[3].Phone,
			CourierService: "DTDC", TrackingID: "D55019823",
			Weight: decimal.RequireFromString("1.2"), DeliveryCost: decimal.NewFromInt(60),
			Status: models.ShipmentDelivered, DispatchedAt: ptr(seedDay(10, 9)), DeliveredAt: ptr(seedDay(12, 17)),
		},
	}

	inventory := []models.InventoryItem{
		{ID: "INV001", Name: "Business Cards (box of 100)", BuyingPrice: "₹300", SellingPrice: "₹450", Stock: 45, Supplier: "Sharma Paper Co", LastUpdated: seedDay(1, 9)},
		{ID: "INV002", Name: "Vinyl Banner 6x3 ft", BuyingPrice: "₹800", SellingPrice: "₹1200", Stock: 12, Supplier: "FlexiPrint", LastUpdated: seedDay(1, 9)},
		{ID: "INV003", Name: "Printed Mug", BuyingPrice: "₹200", SellingPrice: "₹350", Stock: 18, Supplier: "Ceramica", LastUpdated: seedDay(1, 9)},
		{ID: "INV004", Name: "Canvas Tote Bag", BuyingPrice: "₹120", SellingPrice: "₹220", Stock: 30, Supplier: "Loom & Co", LastUpdated: seedDay(1, 9)},
	}

	return &Snapshot{
		Orders:      orders,
		Customers:   customers,
		DesignTasks: designTasks,
		Shipments:   shipments,
		Progression: progression,
		Inventory:   inventory,
	}
}
