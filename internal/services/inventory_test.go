package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryAdjust(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.inventory.Adjust(ctx, "INV003", 12)
	require.NoError(t, err)
	assert.Equal(t, 30, item.Stock)
	assert.True(t, item.LastUpdated.Equal(testNow))

	_, err = env.inventory.Adjust(ctx, "INV003", -31)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 30, stockErr.Available)
	assert.Equal(t, 30, env.stock(t, "INV003"))

	_, err = env.inventory.Adjust(ctx, "INV999", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	var verr *ValidationError
	_, err = env.inventory.Adjust(ctx, "INV003", 0)
	assert.ErrorAs(t, err, &verr)
}

func TestInventoryUpsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.inventory.Upsert(ctx, InventoryItemInput{
		ID: "INV005", Name: "Sticker Sheet", BuyingPrice: "₹20", SellingPrice: "₹45", Stock: 200,
	})
	require.NoError(t, err)
	assert.Equal(t, "INV005", item.ID)

	items, err := env.inventory.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 5)

	_, err = env.inventory.Upsert(ctx, InventoryItemInput{ID: "INV001", Name: "Cards", BuyingPrice: "₹300", SellingPrice: "₹500", Stock: 40})
	require.NoError(t, err)
	assert.Equal(t, 40, env.stock(t, "INV001"))

	_, err = env.inventory.Upsert(ctx, InventoryItemInput{ID: "INV006", Name: "Bad", BuyingPrice: "cheap", SellingPrice: "₹1", Stock: -1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid_price", verr.Fields["buyingPrice"])
	assert.Contains(t, verr.Fields, "stock")
}

func TestLowStock(t *testing.T) {
	env := newTestEnv(t)
	items, err := env.inventory.LowStock(context.Background(), 18)
	require.NoError(t, err)
	ids := []string{}
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.ElementsMatch(t, []string{"INV002", "INV003"}, ids)
}
