package inventory

import (
	"errors"
	"fmt"
)

// ErrShortStock is returned when a warehouse cannot cover an order line.
var ErrShortStock = errors.New("not enough stock")

// Clock is a value-typed dependency; doubles of it are copied freely.
type Clock interface {
	Now() int64
}

// Order is one line to allocate.
type Order struct {
	SKU string
	Qty int
}

// Warehouse is the dependency the allocator talks to.
type Warehouse interface {
	// Count reports units on hand.
	Count(sku string) int
	// Reserve holds qty units and returns a reservation id.
	Reserve(sku string, qty int) (string, error)
	// Release drops a reservation.
	Release(reservation string)
	// Audit checks the warehouse is consistent before allocating.
	Audit() error
	// Backorder returns the restock date for sku, or nil when none is scheduled.
	Backorder(sku string) *int64
}

// Allocate reserves every order line, releasing what it already holds when one
// line fails. It returns the reservation ids stamped with the clock's time.
func Allocate(wh Warehouse, clock Clock, orders []Order) ([]string, int64, error) {
	err := wh.Audit()
	if err != nil {
		return nil, 0, fmt.Errorf("audit: %w", err)
	}

	held := make([]string, 0, len(orders))

	for _, order := range orders {
		id, err := reserveLine(wh, order)
		if err != nil {
			for _, prev := range held {
				wh.Release(prev)
			}

			return nil, 0, err
		}

		held = append(held, id)
	}

	return held, clock.Now(), nil
}

func reserveLine(wh Warehouse, order Order) (string, error) {
	have := wh.Count(order.SKU)
	if have < order.Qty {
		if date := wh.Backorder(order.SKU); date != nil {
			return "", fmt.Errorf("%w: %s has %d of %d, restock at %d",
				ErrShortStock, order.SKU, have, order.Qty, *date)
		}

		return "", fmt.Errorf("%w: %s has %d of %d", ErrShortStock, order.SKU, have, order.Qty)
	}

	id, err := wh.Reserve(order.SKU, order.Qty)
	if err != nil {
		return "", fmt.Errorf("reserve %s: %w", order.SKU, err)
	}

	return id, nil
}
