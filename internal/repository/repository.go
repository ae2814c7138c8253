// Package repository owns the persisted collections and the
// read-merge-write contract every mutation goes through.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/store"
	"github.com/sirupsen/logrus"
)

// Snapshot is an in-memory copy of every collection.
type Snapshot struct {
	Orders      []models.Order
	Customers   []models.Customer
	DesignTasks []models.DesignTask
	Shipments   []models.Shipment
	Progression models.Progression
	Inventory   []models.InventoryItem
}

// Order returns a pointer into s.Orders, or nil.
func (s *Snapshot) Order(id string) *models.Order {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i]
		}
	}
	return nil
}

// DesignTask returns a pointer into s.DesignTasks, or nil.
func (s *Snapshot) DesignTask(id string) *models.DesignTask {
	for i := range s.DesignTasks {
		if s.DesignTasks[i].ID == id {
			return &s.DesignTasks[i]
		}
	}
	return nil
}

// Shipment returns a pointer into s.Shipments, or nil.
func (s *Snapshot) Shipment(id string) *models.Shipment {
	for i := range s.Shipments {
		if s.Shipments[i].ID == id {
			return &s.Shipments[i]
		}
	}
	return nil
}

// Hook is run on every snapshot read from the store, before callers see it.
type Hook func(*Snapshot)

// Option configures a Repository.
type Option func(*Repository)

// WithSeedOnEmpty seeds demo data when the orders document is missing.
func WithSeedOnEmpty(enabled bool) Option {
	return func(r *Repository) { r.seedOnEmpty = enabled }
}

// WithLoadHook registers a hook applied after every load.
func WithLoadHook(h Hook) Option {
	return func(r *Repository) { r.hooks = append(r.hooks, h) }
}

// Repository serializes access to the store. All mutations go through
// Update, which re-reads the store, applies one change and writes back
// only the collections that changed.
type Repository struct {
	store       store.Store
	log         logrus.FieldLogger
	seedOnEmpty bool
	hooks       []Hook

	mu sync.Mutex
}

func New(s store.Store, log logrus.FieldLogger, opts ...Option) *Repository {
	r := &Repository{store: s, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads every collection.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, _, err := r.load(ctx)
	return snap, err
}

// Save writes every collection of snap unconditionally.
func (r *Repository) Save(ctx context.Context, snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, snap, nil)
}

// Update loads a fresh snapshot, passes it to fn and persists the result.
// If fn returns an error nothing is written and the error is returned as is.
func (r *Repository) Update(ctx context.Context, fn func(*Snapshot) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if locker, ok := r.store.(store.Locker); ok {
		unlock, err := locker.Lock(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				r.log.WithError(err).Warn("release store lock")
			}
		}()
	}

	snap, raw, err := r.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return r.write(ctx, snap, raw)
}

// Sync loads and writes back, persisting whatever the load hooks and
// seeding produced.
func (r *Repository) Sync(ctx context.Context) error {
	return r.Update(ctx, func(*Snapshot) error { return nil })
}

// Reset replaces every collection with the seed data set.
func (r *Repository) Reset(ctx context.Context) error {
	return r.Update(ctx, func(snap *Snapshot) error {
		*snap = *Seed()
		r.runHooks(snap)
		return nil
	})
}

func (r *Repository) runHooks(snap *Snapshot) {
	for _, h := range r.hooks {
		h(snap)
	}
}

// load decodes every collection and returns the raw documents alongside,
// so write can skip unchanged ones.
func (r *Repository) load(ctx context.Context) (*Snapshot, map[string][]byte, error) {
	snap := &Snapshot{}
	raw := make(map[string][]byte, len(store.Keys))

	var seed *Snapshot
	if r.seedOnEmpty {
		if _, err := r.store.Get(ctx, store.KeyOrders); errors.Is(err, store.ErrNotFound) {
			r.log.Info("no orders document found, seeding demo data")
			seed = Seed()
		}
	}

	targets := map[string]any{
		store.KeyOrders:      &snap.Orders,
		store.KeyCustomers:   &snap.Customers,
		store.KeyDesignTasks: &snap.DesignTasks,
		store.KeyShipments:   &snap.Shipments,
		store.KeyProgression: &snap.Progression,
		store.KeyInventory:   &snap.Inventory,
	}
	for _, key := range store.Keys {
		data, err := r.store.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", key, err)
		}
		raw[key] = data
		if err := json.Unmarshal(data, targets[key]); err != nil {
			r.log.WithError(err).WithField("key", key).Warn("unreadable collection, starting empty")
			resetTarget(targets[key])
		}
	}

	if seed != nil {
		fillMissing(snap, seed, raw)
	}
	normalize(snap)
	r.runHooks(snap)
	return snap, raw, nil
}

// fillMissing copies seed collections for every key that had no document.
func fillMissing(snap, seed *Snapshot, raw map[string][]byte) {
	if _, ok := raw[store.KeyOrders]; !ok {
		snap.Orders = seed.Orders
	}
	if _, ok := raw[store.KeyCustomers]; !ok {
		snap.Customers = seed.Customers
	}
	if _, ok := raw[store.KeyDesignTasks]; !ok {
		snap.DesignTasks = seed.DesignTasks
	}
	if _, ok := raw[store.KeyShipments]; !ok {
		snap.Shipments = seed.Shipments
	}
	if _, ok := raw[store.KeyProgression]; !ok {
		snap.Progression = seed.Progression
	}
	if _, ok := raw[store.KeyInventory]; !ok {
		snap.Inventory = seed.Inventory
	}
}

func resetTarget(target any) {
	switch t := target.(type) {
	case *[]models.Order:
		*t = nil
	case *[]models.Customer:
		*t = nil
	case *[]models.DesignTask:
		*t = nil
	case *[]models.Shipment:
		*t = nil
	case *models.Progression:
		*t = nil
	case *[]models.InventoryItem:
		*t = nil
	}
}

// normalize replaces nil collections with empty ones so they encode as
// [] and {}, and recomputes order money fields.
func normalize(snap *Snapshot) {
	if snap.Orders == nil {
		snap.Orders = []models.Order{}
	}
	if snap.Customers == nil {
		snap.Customers = []models.Customer{}
	}
	if snap.DesignTasks == nil {
		snap.DesignTasks = []models.DesignTask{}
	}
	if snap.Shipments == nil {
		snap.Shipments = []models.Shipment{}
	}
	if snap.Progression == nil {
		snap.Progression = models.Progression{}
	}
	if snap.Inventory == nil {
		snap.Inventory = []models.InventoryItem{}
	}
	for i := range snap.Orders {
		snap.Orders[i].Normalize()
	}
}

// write encodes every collection and puts those whose bytes differ from
// raw. A nil raw writes everything.
func (r *Repository) write(ctx context.Context, snap *Snapshot, raw map[string][]byte) error {
	normalize(snap)
	docs := map[string]any{
		store.KeyOrders:      snap.Orders,
		store.KeyCustomers:   snap.Customers,
		store.KeyDesignTasks: snap.DesignTasks,
		store.KeyShipments:   snap.Shipments,
		store.KeyProgression: snap.Progression,
		store.KeyInventory:   snap.Inventory,
	}
	for _, key := range store.Keys {
		data, err := json.MarshalIndent(docs[key], "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if prev, ok := raw[key]; ok && bytes.Equal(prev, data) {
			continue
		}
		if err := r.store.Put(ctx, key, data); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}
