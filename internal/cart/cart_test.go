package cart

import (
	"testing"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id uuid.UUID, name string, price float64, qty int) domain.CartItem {
	return domain.CartItem{ProductID: id, ProductName: name, Price: price, Quantity: qty}
}

func TestAddMergesQuantityAndKeepsFirstPrice(t *testing.T) {
	c := New()
	id := uuid.New()

	c.Add(item(id, "Coffee", 4.50, 2))
	c.Add(item(id, "Coffee", 9.99, 3))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 4.50, items[0].Price)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	c := New()
	first, second, third := uuid.New(), uuid.New(), uuid.New()

	c.Add(item(first, "A", 1, 1))
	c.Add(item(second, "B", 2, 1))
	c.Add(item(third, "C", 3, 1))
	c.Add(item(second, "B", 2, 4))

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, first, items[0].ProductID)
	assert.Equal(t, second, items[1].ProductID)
	assert.Equal(t, third, items[2].ProductID)
	assert.Equal(t, 5, items[1].Quantity)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	c := New()
	id := uuid.New()
	c.Add(item(id, "Tea", 3.00, 2))

	newPrice := 3.50
	c.Update(id, ItemUpdate{Price: &newPrice})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3.50, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)

	newQty := 7
	c.Update(id, ItemUpdate{Quantity: &newQty})
	items = c.Items()
	assert.Equal(t, 3.50, items[0].Price)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestUpdateUnknownProductIsNoOp(t *testing.T) {
	c := New()
	c.Add(item(uuid.New(), "Tea", 3.00, 2))

	qty := 10
	c.Update(uuid.New(), ItemUpdate{Quantity: &qty})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	keep, drop := uuid.New(), uuid.New()
	c.Add(item(keep, "A", 1, 1))
	c.Add(item(drop, "B", 2, 1))

	c.Remove(drop)
	require.Len(t, c.Items(), 1)
	assert.Equal(t, keep, c.Items()[0].ProductID)

	c.Remove(uuid.New()) // unknown id, no-op
	require.Len(t, c.Items(), 1)

	c.Clear()
	assert.Empty(t, c.Items())
	assert.Zero(t, c.Total())
}

func TestTotal(t *testing.T) {
	c := New()
	c.Add(item(uuid.New(), "A", 2.50, 2))
	c.Add(item(uuid.New(), "B", 10.00, 1))

	assert.InDelta(t, 15.00, c.Total(), 1e-9)
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New()
	id := uuid.New()
	c.Add(item(id, "A", 1.00, 1))

	items := c.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestRegistryIsolatesCashiers(t *testing.T) {
	reg := NewRegistry()
	alice, bob := uuid.New(), uuid.New()

	reg.For(alice).Add(item(uuid.New(), "A", 1, 1))

	assert.Len(t, reg.For(alice).Items(), 1)
	assert.Empty(t, reg.For(bob).Items())
	assert.Same(t, reg.For(alice), reg.For(alice))
}
