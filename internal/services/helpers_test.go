package services

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/orderdesk/gate"
	"github.com/diewo77/orderdesk/internal/logging"
	"github.com/diewo77/orderdesk/internal/metrics"
	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/diewo77/orderdesk/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.February, 3, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	repo      *repository.Repository
	orders    *OrderService
	design    *DesignService
	shipping  *ShippingService
	inventory *InventoryService
	customers *CustomerService
	invoices  *InvoiceService
	metrics   *metrics.Metrics
}

// newTestEnv wires every service over a seeded in-memory store with a fixed clock.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logging.Discard()
	repo := repository.New(store.NewMemoryStore(), log,
		repository.WithSeedOnEmpty(true),
		repository.WithLoadHook(Deriver{}.Hook),
	)
	m := metrics.New(prometheus.NewRegistry())
	orders := NewOrderService(repo, gate.New(gate.DefaultRoles()), log, m)
	orders.now = func() time.Time { return testNow }
	inventory := NewInventoryService(repo, log)
	inventory.now = orders.now

	require.NoError(t, repo.Sync(context.Background()))
	return &testEnv{
		repo:      repo,
		orders:    orders,
		design:    NewDesignService(orders),
		shipping:  NewShippingService(orders),
		inventory: inventory,
		customers: NewCustomerService(repo, log, "IN"),
		invoices:  NewInvoiceService(repo),
		metrics:   m,
	}
}

func (e *testEnv) snapshot(t *testing.T) *repository.Snapshot {
	t.Helper()
	snap, err := e.repo.Load(context.Background())
	require.NoError(t, err)
	return snap
}

func (e *testEnv) stock(t *testing.T, id string) int {
	t.Helper()
	item, ok := models.FindInventoryItem(e.snapshot(t).Inventory, id)
	require.True(t, ok, "inventory item %s", id)
	return item.Stock
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
