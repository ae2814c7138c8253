// Package store persists whole JSON documents by key.
//
// Every collection lives under one key and is read and written in full;
// there are no transactions across keys.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.New("document not found")

// Collection keys.
const (
	KeyOrders      = "orders"
	KeyCustomers   = "customers"
	KeyDesignTasks = "designTasks"
	KeyShipments   = "shipments"
	KeyProgression = "orderProgression"
	KeyInventory   = "inventory"
)

// Keys lists every collection key in a fixed order.
var Keys = []string{KeyOrders, KeyCustomers, KeyDesignTasks, KeyShipments, KeyProgression, KeyInventory}

// Store is a key-value document store.
type Store interface {
	// Get returns the raw document stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Locker is implemented by stores that can serialize writers across processes.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done. The returned
	// function releases it.
	Lock(ctx context.Context) (unlock func(context.Context) error, err error)
}
