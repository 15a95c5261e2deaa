package cart

import (
	"sync"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"

	"github.com/google/uuid"
)

// Cart is the in-memory ordered collection of line items for one cashier
// session. It has no persistence; it lives and dies with the session.
type Cart struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func New() *Cart {
	return &Cart{}
}

// Add appends the item, preserving insertion order. If a line with the same
// product already exists, its quantity is incremented and the price already
// on the line is retained, not overwritten.
func (c *Cart) Add(item domain.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// ItemUpdate carries the fields a cashier may edit on an existing line.
type ItemUpdate struct {
	Price    *float64
	Quantity *int
}

// Update merges the given fields into the matching line. Unknown product ids
// are a no-op.
func (c *Cart) Update(productID uuid.UUID, update ItemUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID != productID {
			continue
		}
		if update.Price != nil {
			c.items[i].Price = *update.Price
		}
		if update.Quantity != nil {
			c.items[i].Quantity = *update.Quantity
		}
		return
	}
}

// Remove deletes the matching line if present.
func (c *Cart) Remove(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0.0
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Registry holds one cart per cashier, created on first use. Scoping the
// cart to the authenticated session keeps checkouts of different cashiers
// independent.
type Registry struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[uuid.UUID]*Cart)}
}

func (r *Registry) For(cashierID uuid.UUID) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cashierID]
	if !ok {
		c = New()
		r.carts[cashierID] = c
	}
	return c
}
