package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItemMergesQuantities(t *testing.T) {
	f := newOrderFixture(t, nil)

	_, err := f.carts.AddItem(f.ctx, "u1", services.AddCartItemInput{ProductID: f.boots.ID, Quantity: 1, Size: "42"})
	require.NoError(t, err)
	item, err := f.carts.AddItem(f.ctx, "u1", services.AddCartItemInput{ProductID: f.boots.ID, Quantity: 2, Size: "42"})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	cart, err := f.carts.GetCart(f.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "60.00", cart.Total.StringFixed(2))
}

func TestCartService_AddItemUnknownProduct(t *testing.T) {
	f := newOrderFixture(t, nil)

	_, err := f.carts.AddItem(f.ctx, "u1", services.AddCartItemInput{ProductID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestCartService_UpdateRemoveAndClear(t *testing.T) {
	f := newOrderFixture(t, nil)
	f.fillCart(t, "u1")

	item, err := f.carts.UpdateItem(f.ctx, "u1", services.UpdateCartItemInput{ProductID: f.socks.ID, Quantity: 4, Color: "grey"})
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	cart, err := f.carts.GetCart(f.ctx, "u1")
	require.NoError(t, err)
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("102.00")))

	_, err = f.carts.UpdateItem(f.ctx, "u1", services.UpdateCartItemInput{ProductID: f.socks.ID, Quantity: 1, Color: "blue"})
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)

	err = f.carts.RemoveItem(f.ctx, models.CartKey{UserID: "u1", ProductID: f.boots.ID, Size: "42"})
	require.NoError(t, err)
	err = f.carts.RemoveItem(f.ctx, models.CartKey{UserID: "u1", ProductID: f.boots.ID, Size: "42"})
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)

	require.NoError(t, f.carts.Clear(f.ctx, "u1"))
	assert.Equal(t, 0, f.cartSize(t, "u1"))
}

func TestCartService_EmptyCartHasZeroTotal(t *testing.T) {
	f := newOrderFixture(t, nil)

	cart, err := f.carts.GetCart(f.ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}
