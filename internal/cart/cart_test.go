package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markalston/shopfront/internal/client"
)

func ptr[T any](v T) *T { return &v }

var (
	headphones = client.Product{ID: 1, Title: "Headphones", Price: 100}
	speaker    = client.Product{ID: 2, Title: "Speaker", Price: 50, Discount: ptr(20.0)}
)

func TestAdd(t *testing.T) {
	c := New()
	c.Add(headphones)
	c.Add(speaker)
	c.Add(headphones)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 3, c.Count())
}

func TestTotal_HonoursDiscount(t *testing.T) {
	c := New()
	c.Add(headphones)
	c.Add(speaker)
	c.Add(speaker)

	// 100 + 2 * (50 - 20%)
	assert.InDelta(t, 180.0, c.Total(), 1e-9)
	assert.InDelta(t, 40.0, c.Lines()[1].UnitPrice(), 1e-9)
}

func TestSetQuantity(t *testing.T) {
	c := New()
	c.Add(headphones)
	c.Add(speaker)

	c.SetQuantity(1, 4)
	assert.Equal(t, 5, c.Count())

	c.SetQuantity(1, 0)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Product.ID)

	c.SetQuantity(99, 3)
	assert.Equal(t, 1, c.Count(), "unknown ids are ignored")
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	c.Add(headphones)
	c.Add(speaker)

	c.Remove(1)
	assert.Equal(t, 1, c.Count())
	c.Remove(1)
	assert.Equal(t, 1, c.Count())

	c.Clear()
	assert.Empty(t, c.Lines())
	assert.Zero(t, c.Total())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New()
	c.Add(headphones)

	lines := c.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, c.Count())
}

func TestConcurrentAdds(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(headphones)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, c.Count())
}
