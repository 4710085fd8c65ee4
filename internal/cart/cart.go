// Package cart keeps in-memory cart lines and prices them.
package cart

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tayloree/storefront/internal/api"
)

// ErrNoLine is returned for an out-of-range line index.
var ErrNoLine = errors.New("no such cart line")

// Line is one product in the cart with its quantity.
type Line struct {
	Product  api.Product `json:"product"`
	Quantity int         `json:"quantity"`
}

// Subtotal is the line price times its quantity.
func (l Line) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines. The zero value is an empty cart.
type Cart struct {
	lines []Line
}

// Add puts qty units of a product in the cart. A line for the same product,
// or failing that the same name and weight, is topped up instead of adding a
// new one. Quantities below one count as one.
func (c *Cart) Add(p api.Product, qty int) {
	qty = max(qty, 1)
	if i := c.IndexOf(p); i >= 0 {
		c.lines[i].Quantity += qty
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: qty})
}

// IndexOf returns the line holding a product, matched by identity and then
// by name and weight, or -1.
func (c *Cart) IndexOf(p api.Product) int {
	id := p.Identity()
	for i, l := range c.lines {
		if l.Product.Identity() == id {
			return i
		}
	}
	for i, l := range c.lines {
		if l.Product.Name == p.Name && l.Product.Weight == p.Weight {
			return i
		}
	}
	return -1
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// SetQuantity sets a line's quantity, never below one.
func (c *Cart) SetQuantity(i, qty int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.lines[i].Quantity = max(qty, 1)
	return nil
}

// Increment adds one unit to a line.
func (c *Cart) Increment(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.lines[i].Quantity++
	return nil
}

// Decrement removes one unit from a line, stopping at one.
func (c *Cart) Decrement(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
	}
	return nil
}

// Remove drops a line.
func (c *Cart) Remove(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Count returns the total quantity across lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total sums every line subtotal.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) check(i int) error {
	if i < 0 || i >= len(c.lines) {
		return fmt.Errorf("line %d: %w", i, ErrNoLine)
	}
	return nil
}

// OrderNumber formats an order reference: SK-YYYYMMDD-NNNN with NNNN drawn
// from 1000..9999.
func OrderNumber(t time.Time, rng *rand.Rand) string {
	return fmt.Sprintf("SK-%s-%d", t.Format("20060102"), 1000+rng.Intn(9000))
}

// Summary renders the order confirmation text.
func (c *Cart) Summary(orderNo, payment, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%s placed successfully!\n\nProducts:\n", orderNo)
	for _, l := range c.lines {
		weight := l.Product.Weight
		if weight == "" {
			weight = "-"
		}
		fmt.Fprintf(&b, "- %s (%s) x%d = %s %s\n", l.Product.Name, weight, l.Quantity, currency, l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s %s\nPayment: %s", currency, c.Total().StringFixed(2), payment)
	return b.String()
}
