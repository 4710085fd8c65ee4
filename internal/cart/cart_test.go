package cart_test

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/storefront/internal/api"
	"github.com/tayloree/storefront/internal/cart"
)

func TestAdd_MergesSameProduct(t *testing.T) {
	var c cart.Cart
	ghee := api.Product{Name: "Ghee", Weight: "500g", Price: 20}

	c.Add(ghee, 2)
	c.Add(ghee, 0)
	c.Add(api.Product{Name: "Ghee", Weight: "1kg", Price: 35}, 1)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 4, c.Count())
}

func TestAdd_MergesByProductCode(t *testing.T) {
	var c cart.Cart

	c.Add(api.Product{Name: "Ghee", ProductCode: "G-1", Price: 20}, 1)
	c.Add(api.Product{Name: "Desi Ghee", ProductCode: "G-1", Price: 21}, 1)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestAdd_FallsBackToNameAndWeight(t *testing.T) {
	var c cart.Cart

	c.Add(api.Product{Name: "Tea", Weight: "250g", Price: 10}, 1)
	c.Add(api.Product{Name: "Tea", Weight: "250g", Price: 12}, 2)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.Lines()[0].Quantity)
}

func TestIndexOf(t *testing.T) {
	var c cart.Cart
	tea := api.Product{Name: "Tea", Weight: "250g", Price: 10}
	c.Add(api.Product{Name: "Ghee", Weight: "500g", Price: 20}, 1)
	c.Add(tea, 1)

	assert.Equal(t, 1, c.IndexOf(tea))
	assert.Equal(t, 1, c.IndexOf(api.Product{Name: "Tea", Weight: "250g", Price: 11}))
	assert.Equal(t, -1, c.IndexOf(api.Product{Name: "Tea", Weight: "1kg"}))
}

func TestQuantityEdits(t *testing.T) {
	var c cart.Cart
	c.Add(api.Product{Name: "Tea"}, 1)

	require.NoError(t, c.Increment(0))
	require.NoError(t, c.Increment(0))
	assert.Equal(t, 3, c.Count())

	require.NoError(t, c.Decrement(0))
	require.NoError(t, c.Decrement(0))
	require.NoError(t, c.Decrement(0))
	assert.Equal(t, 1, c.Count())

	require.NoError(t, c.SetQuantity(0, -4))
	assert.Equal(t, 1, c.Count())
	require.NoError(t, c.SetQuantity(0, 6))
	assert.Equal(t, 6, c.Count())

	assert.ErrorIs(t, c.Increment(3), cart.ErrNoLine)
	assert.ErrorIs(t, c.SetQuantity(-1, 2), cart.ErrNoLine)

	require.NoError(t, c.Remove(0))
	assert.Zero(t, c.Len())
	assert.ErrorIs(t, c.Remove(0), cart.ErrNoLine)
}

func TestTotal_IsExact(t *testing.T) {
	var c cart.Cart
	c.Add(api.Product{Name: "Candy", Price: 0.1}, 3)
	c.Add(api.Product{Name: "Gum", Price: 0.2}, 1)

	assert.Equal(t, "0.50", c.Total().StringFixed(2))
	assert.True(t, c.Total().Equal(c.Lines()[0].Subtotal().Add(c.Lines()[1].Subtotal())))
}

func TestOrderNumber(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	day := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^SK-20260307-[1-9]\d{3}$`)

	for range 200 {
		assert.Regexp(t, pattern, cart.OrderNumber(day, rng))
	}
}

func TestSummary(t *testing.T) {
	var c cart.Cart
	c.Add(api.Product{Name: "Ghee", Weight: "1kg", Price: 35}, 2)
	c.Add(api.Product{Name: "Tea", Price: 12.5}, 1)

	want := "Order #SK-20260307-4242 placed successfully!\n\n" +
		"Products:\n" +
		"- Ghee (1kg) x2 = AED 70.00\n" +
		"- Tea (-) x1 = AED 12.50\n" +
		"\nTotal: AED 82.50\nPayment: COD"
	assert.Equal(t, want, c.Summary("SK-20260307-4242", "COD", "AED"))
}

func TestClear(t *testing.T) {
	var c cart.Cart
	c.Add(api.Product{Name: "Tea"}, 2)
	c.Clear()

	assert.Zero(t, c.Count())
	assert.True(t, c.Total().IsZero())
}
