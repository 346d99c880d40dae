package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

func mockProduct(id, weight int) domain.Product {
	return domain.Product{
		ProductID: id,
		Name:      "product",
		Weight:    weight,
	}
}

func TestLRUCacheMultipleEvictions(t *testing.T) {
	c := NewCacheService(2)

	err := c.Set(1, mockProduct(1, 100))
	require.NoError(t, err)
	err = c.Set(2, mockProduct(2, 200))
	require.NoError(t, err)

	err = c.Set(3, mockProduct(3, 300))
	require.NoError(t, err)

	_, err = c.Get(1)
	assert.Error(t, err)

	err = c.Set(4, mockProduct(4, 400))
	require.NoError(t, err)

	_, err = c.Get(2)
	assert.Error(t, err)

	val, err := c.Get(3)
	require.NoError(t, err)
	assert.Equal(t, mockProduct(3, 300), val)

	val, err = c.Get(4)
	require.NoError(t, err)
	assert.Equal(t, mockProduct(4, 400), val)
}

func TestLRUCacheCapacity(t *testing.T) {
	c := NewCacheService(3)

	err := c.Set(1, mockProduct(1, 100))
	require.NoError(t, err)
	err = c.Set(2, mockProduct(2, 200))
	require.NoError(t, err)
	err = c.Set(3, mockProduct(3, 300))
	require.NoError(t, err)

	val, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, mockProduct(1, 100), val)

	err = c.Set(4, mockProduct(4, 400))
	require.NoError(t, err)

	_, err = c.Get(2)
	assert.Error(t, err)

	val, err = c.Get(4)
	require.NoError(t, err)
	assert.Equal(t, mockProduct(4, 400), val)
}

func TestLRUCacheUpdateMovesToMRU(t *testing.T) {
	c := NewCacheService(2)

	require.NoError(t, c.Set(1, mockProduct(1, 100)))
	require.NoError(t, c.Set(2, mockProduct(2, 200)))

	require.NoError(t, c.Set(1, mockProduct(1, 150)))

	require.NoError(t, c.Set(3, mockProduct(3, 300)))

	_, err := c.Get(2)
	assert.Error(t, err)

	val, err := c.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 150, val.Weight)
}

func TestLRUCacheDeleteAndClear(t *testing.T) {
	c := NewCacheService(3)

	require.NoError(t, c.Set(1, mockProduct(1, 100)))
	require.NoError(t, c.Set(2, mockProduct(2, 200)))

	require.NoError(t, c.Delete(1))
	_, err := c.Get(1)
	assert.Error(t, err)

	err = c.Delete(1)
	assert.Error(t, err)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, err = c.Get(2)
	assert.Error(t, err)
}
