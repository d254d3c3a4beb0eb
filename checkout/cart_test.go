package checkout

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, price int64, cur models.Currency) models.LineItem {
	return models.LineItem{
		ProductID: id,
		Name:      "part " + id,
		Brand:     "Toyota",
		UnitPrice: decimal.NewFromInt(price),
		Currency:  cur,
		Quantity:  1,
	}
}

func openCart(t *testing.T, storage *memCarts) *Cart {
	t.Helper()
	c, err := OpenCart(context.Background(), storage, models.UserCartKey("u1"))
	require.NoError(t, err)
	return c
}

func TestCartAddAppendsNewProduct(t *testing.T) {
	ctx := context.Background()
	storage := newMemCarts()
	c := openCart(t, storage)

	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))
	require.NoError(t, c.Add(ctx, item("p2", 50, models.CurrencyEUR), 2))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "p2", items[1].ProductID)
	assert.Equal(t, 2, items[1].Quantity)
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(200)))
}

func TestCartAddMergesExistingProduct(t *testing.T) {
	ctx := context.Background()
	c := openCart(t, newMemCarts())

	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))
	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 3))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestCartPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	storage := newMemCarts()
	c := openCart(t, storage)

	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyKES), 1))
	require.NoError(t, c.Add(ctx, item("p2", 10, models.CurrencyKES), 1))
	require.NoError(t, c.SetQuantity(ctx, 0, 5))
	require.NoError(t, c.Remove(ctx, 1))
	assert.Equal(t, 4, storage.saves)

	reopened := openCart(t, storage)
	require.Len(t, reopened.Items(), 1)
	assert.Equal(t, 5, reopened.Items()[0].Quantity)
}

func TestCartRemoveOutOfRangeIsNoop(t *testing.T) {
	ctx := context.Background()
	storage := newMemCarts()
	c := openCart(t, storage)
	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))
	saves := storage.saves

	assert.NoError(t, c.Remove(ctx, 5))
	assert.NoError(t, c.Remove(ctx, -1))
	assert.NoError(t, c.SetQuantity(ctx, 3, 2))

	assert.Equal(t, saves, storage.saves)
	assert.Len(t, c.Items(), 1)
}

func TestCartRejectsMixedCurrency(t *testing.T) {
	ctx := context.Background()
	c := openCart(t, newMemCarts())
	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))

	err := c.Add(ctx, item("p2", 100, models.CurrencyKES), 1)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	assert.Len(t, c.Items(), 1)
	assert.Equal(t, models.CurrencyEUR, c.Currency())
}

func TestCartRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	c := openCart(t, newMemCarts())

	assert.ErrorIs(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(ctx, item("p1", -1, models.CurrencyEUR), 1), ErrInvalidPrice)
	assert.ErrorIs(t, c.SetQuantity(ctx, 0, 0), ErrInvalidQuantity)
	assert.Equal(t, 0, c.Len())
}

func TestCartCapsLineQuantity(t *testing.T) {
	ctx := context.Background()
	c := openCart(t, newMemCarts())

	assert.ErrorIs(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), math.MaxInt), ErrInvalidQuantity)
	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), MaxQuantity-1))
	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))
	assert.ErrorIs(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1), ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity(ctx, 0, MaxQuantity+1), ErrInvalidQuantity)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, MaxQuantity, items[0].Quantity)
	assert.True(t, c.Subtotal().IsPositive())
}

func TestCartSaveFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	storage := newMemCarts()
	c := openCart(t, storage)
	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))

	storage.saveErr = errors.New("disk full")
	err := c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1)
	assert.Error(t, err)
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()
	storage := newMemCarts()
	c := openCart(t, storage)
	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, openCart(t, storage).Len())
}

func TestCartKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	storage := newMemCarts()

	a, err := OpenCart(ctx, storage, models.UserCartKey("alice"))
	require.NoError(t, err)
	b, err := OpenCart(ctx, storage, models.GuestCartKey("g1"))
	require.NoError(t, err)

	require.NoError(t, a.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))
	assert.Equal(t, 0, b.Len())
}

func TestCartMerge(t *testing.T) {
	ctx := context.Background()
	c := openCart(t, newMemCarts())
	require.NoError(t, c.Add(ctx, item("p1", 100, models.CurrencyEUR), 1))

	guest := []models.LineItem{
		{ProductID: "p1", UnitPrice: decimal.NewFromInt(100), Currency: models.CurrencyEUR, Quantity: 2},
		{ProductID: "p2", UnitPrice: decimal.NewFromInt(10), Currency: models.CurrencyEUR, Quantity: 1},
		{ProductID: "p3", UnitPrice: decimal.NewFromInt(10), Currency: models.CurrencyUSD, Quantity: 1},
	}
	skipped, err := c.Merge(ctx, guest)
	require.NoError(t, err)

	require.Len(t, skipped, 1)
	assert.Equal(t, "p3", skipped[0].ProductID)
	require.Len(t, c.Items(), 2)
	assert.Equal(t, 3, c.Items()[0].Quantity)
	assert.Equal(t, 0, c.IndexOf("p1"))
	assert.Equal(t, -1, c.IndexOf("p3"))
}
