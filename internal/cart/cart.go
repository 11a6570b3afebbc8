// ABOUTME: In-memory shopping cart keyed by product id
// ABOUTME: Totals apply each product's discount as a percentage off its price

package cart

import (
	"sync"

	"github.com/markalston/shopfront/internal/client"
)

// Line is one product and its quantity
type Line struct {
	Product  client.Product
	Quantity int
}

// UnitPrice is the price after discount
func (l Line) UnitPrice() float64 {
	return l.Product.DiscountedPrice()
}

// Subtotal is UnitPrice times Quantity
func (l Line) Subtotal() float64 {
	return l.UnitPrice() * float64(l.Quantity)
}

// Cart is safe for concurrent use
type Cart struct {
	mu    sync.RWMutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of p in the cart
func (c *Cart) Add(p client.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// Remove drops the product entirely
func (c *Cart) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(id)
}

// SetQuantity sets the quantity of a product already in the cart; n <= 0 removes it
func (c *Cart) SetQuantity(id, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n <= 0 {
		c.remove(id)
		return
	}
	if i := c.index(id); i >= 0 {
		c.lines[i].Quantity = n
	}
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []Line {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Line(nil), c.lines...)
}

// Count is the total number of units
func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total is the sum of line subtotals
func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) index(id int) int {
	for i, l := range c.lines {
		if l.Product.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) remove(id int) {
	if i := c.index(id); i >= 0 {
		c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	}
}
