package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked product.
// Prices are kept as currency-prefixed strings (e.g. "₹450") as the
// inventory screens enter them.
type InventoryItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BuyingPrice  string    `json:"buyingPrice"`
	SellingPrice string    `json:"sellingPrice"`
	Stock        int       `json:"stock"`
	Supplier     string    `json:"supplier,omitempty"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// SellingAmount parses SellingPrice into a decimal amount.
func (i *InventoryItem) SellingAmount() (decimal.Decimal, error) {
	return ParsePrice(i.SellingPrice)
}

// BuyingAmount parses BuyingPrice into a decimal amount.
func (i *InventoryItem) BuyingAmount() (decimal.Decimal, error) {
	return ParsePrice(i.BuyingPrice)
}

// ParsePrice strips any currency prefix and thousands separators from a
// price string such as "₹1,250.50" and returns the amount.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-' && r != '.'
	})
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("invalid price %q", raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	return d, nil
}

// FindInventoryItem returns the item with the given ID.
func FindInventoryItem(items []InventoryItem, id string) (*InventoryItem, bool) {
	for i := range items {
		if items[i].ID == id {
			return &items[i], true
		}
	}
	return nil, false
}
