package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/diewo77/orderdesk/validation"
	"github.com/sirupsen/logrus"
)

// reserveStock decrements stock for every product in quantities, or for
// none of them. Products are checked in ID order so the reported shortage
// does not depend on map iteration.
func reserveStock(inventory []models.InventoryItem, quantities map[string]int, now time.Time) error {
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		item, ok := models.FindInventoryItem(inventory, id)
		if !ok {
			return notFound("product", id)
		}
		if quantities[id] < 0 || quantities[id] > item.Stock {
			return &InsufficientStockError{
				ProductID: id,
				Name:      item.Name,
				Requested: quantities[id],
				Available: item.Stock,
			}
		}
	}
	for _, id := range ids {
		item, _ := models.FindInventoryItem(inventory, id)
		item.Stock -= quantities[id]
		item.LastUpdated = now
	}
	return nil
}

// InventoryItemInput creates or replaces an inventory record.
type InventoryItemInput struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	BuyingPrice  string `json:"buyingPrice" validate:"required"`
	SellingPrice string `json:"sellingPrice" validate:"required"`
	Stock        int    `json:"stock" validate:"gte=0"`
	Supplier     string `json:"supplier"`
}

// InventoryService manages stock outside of order creation.
type InventoryService struct {
	repo *repository.Repository
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewInventoryService(repo *repository.Repository, log logrus.FieldLogger) *InventoryService {
	return &InventoryService{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *InventoryService) List(ctx context.Context) ([]models.InventoryItem, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Inventory, nil
}

// LowStock returns items whose stock is at or below threshold.
func (s *InventoryService) LowStock(ctx context.Context, threshold int) ([]models.InventoryItem, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return lowStock(items, threshold), nil
}

func lowStock(items []models.InventoryItem, threshold int) []models.InventoryItem {
	out := []models.InventoryItem{}
	for _, it := range items {
		if it.Stock <= threshold {
			out = append(out, it)
		}
	}
	return out
}

// Adjust changes stock by delta (restock or correction). Stock never goes negative.
func (s *InventoryService) Adjust(ctx context.Context, id string, delta int) (*models.InventoryItem, error) {
	var updated models.InventoryItem
	err := s.repo.Update(ctx, func(snap *repository.Snapshot) error {
		item, ok := models.FindInventoryItem(snap.Inventory, id)
		if !ok {
			return notFound("product", id)
		}
		if delta == 0 {
			return fieldError("delta", "required")
		}
		if item.Stock+delta < 0 {
			return &InsufficientStockError{ProductID: id, Name: item.Name, Requested: -delta, Available: item.Stock}
		}
		item.Stock += delta
		item.LastUpdated = s.now()
		updated = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"product": id, "delta": delta, "stock": updated.Stock}).Info("stock adjusted")
	return &updated, nil
}

// Upsert creates an item or replaces the one with the same ID.
func (s *InventoryService) Upsert(ctx context.Context, in InventoryItemInput) (*models.InventoryItem, error) {
	v := validation.Violations{}
	validation.Struct(in, v)
	item := models.InventoryItem{
		ID:           strings.TrimSpace(in.ID),
		Name:         strings.TrimSpace(in.Name),
		BuyingPrice:  strings.TrimSpace(in.BuyingPrice),
		SellingPrice: strings.TrimSpace(in.SellingPrice),
		Stock:        in.Stock,
		Supplier:     strings.TrimSpace(in.Supplier),
	}
	if item.BuyingPrice != "" {
		if _, err := item.BuyingAmount(); err != nil {
			v.Add("buyingPrice", "invalid_price")
		}
	}
	if item.SellingPrice != "" {
		if _, err := item.SellingAmount(); err != nil {
			v.Add("sellingPrice", "invalid_price")
		}
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	err := s.repo.Update(ctx, func(snap *repository.Snapshot) error {
		item.LastUpdated = s.now()
		if existing, ok := models.FindInventoryItem(snap.Inventory, item.ID); ok {
			*existing = item
			return nil
		}
		snap.Inventory = append(snap.Inventory, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("product", item.ID).Info("inventory item saved")
	return &item, nil
}
