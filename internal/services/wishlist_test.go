package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appErrors "github.com/stylehub/storefront/internal/errors"
	"github.com/stylehub/storefront/internal/kvstore"
	"github.com/stylehub/storefront/internal/models"
	repository "github.com/stylehub/storefront/internal/repositories"
	service "github.com/stylehub/storefront/internal/services"
)

func newWishlistFixture(store kvstore.Store) (service.WishlistService, service.CartService) {
	cart := newCartService(store)

	return service.NewWishlistService(repository.NewWishlistRepo(store), cart), cart
}

func TestWishlistAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		wishlist, _ := newWishlistFixture(kvstore.NewMemoryStore())

		// Act
		resp, err := wishlist.AddItem(ctx, &models.AddWishlistRequest{Name: "Silk Scarf", Price: "₹1,299.00"})

		// Assert
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.NotEmpty(t, resp.Items[0].ID)
		assert.Equal(t, 1, resp.Total)
	})

	t.Run("Failure - Duplicate Name Rejected", func(t *testing.T) {
		wishlist, _ := newWishlistFixture(kvstore.NewMemoryStore())
		_, err := wishlist.AddItem(ctx, &models.AddWishlistRequest{Name: "Silk Scarf", Price: "₹1,299.00"})
		require.NoError(t, err)

		// Act
		resp, err := wishlist.AddItem(ctx, &models.AddWishlistRequest{Name: "Silk Scarf", Price: "₹1,299.00"})

		// Assert
		assert.Nil(t, resp)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)

		current, err := wishlist.GetWishlist(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, current.Total)
	})
}

func TestWishlistRemoveItem(t *testing.T) {
	ctx := context.Background()
	wishlist, _ := newWishlistFixture(kvstore.NewMemoryStore())

	added, err := wishlist.AddItem(ctx, &models.AddWishlistRequest{Name: "Silk Scarf", Price: "₹1,299.00"})
	require.NoError(t, err)

	// Act
	resp, err := wishlist.RemoveItem(ctx, added.Items[0].ID)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.Total)
}

func TestMoveToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Entry Moves With Quantity One", func(t *testing.T) {
		wishlist, cart := newWishlistFixture(kvstore.NewMemoryStore())
		added, err := wishlist.AddItem(ctx, &models.AddWishlistRequest{Name: "Silk Scarf", Price: "₹1,299.00"})
		require.NoError(t, err)

		// Act
		cartResp, err := wishlist.MoveToCart(ctx, added.Items[0].ID)

		// Assert
		require.NoError(t, err)
		require.Len(t, cartResp.Items, 1)
		assert.Equal(t, "Silk Scarf", cartResp.Items[0].Name)
		assert.Equal(t, 1, cartResp.Items[0].Quantity)

		remaining, err := wishlist.GetWishlist(ctx)
		require.NoError(t, err)
		assert.Empty(t, remaining.Items)

		current, err := cart.GetCart(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, current.TotalItems)
	})

	t.Run("Success - Merges Into Existing Cart Line", func(t *testing.T) {
		wishlist, cart := newWishlistFixture(kvstore.NewMemoryStore())
		mustAddItem(ctx, cart, "Silk Scarf", "₹1,299.00")

		added, err := wishlist.AddItem(ctx, &models.AddWishlistRequest{Name: "Silk Scarf", Price: "₹1,299.00"})
		require.NoError(t, err)

		// Act
		cartResp, err := wishlist.MoveToCart(ctx, added.Items[0].ID)

		// Assert
		require.NoError(t, err)
		require.Len(t, cartResp.Items, 1)
		assert.Equal(t, 2, cartResp.Items[0].Quantity)
	})

	t.Run("Success - Unknown ID Is No-Op", func(t *testing.T) {
		wishlist, _ := newWishlistFixture(kvstore.NewMemoryStore())
		_, err := wishlist.AddItem(ctx, &models.AddWishlistRequest{Name: "Silk Scarf", Price: "₹1,299.00"})
		require.NoError(t, err)

		// Act
		cartResp, err := wishlist.MoveToCart(ctx, "no-such-id")

		// Assert
		require.NoError(t, err)
		assert.Empty(t, cartResp.Items)

		remaining, err := wishlist.GetWishlist(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, remaining.Total)
	})

	t.Run("Failure - Wishlist Write Fails After Cart Write", func(t *testing.T) {
		// Cart writes succeed but the wishlist shrink fails. The item must
		// remain present somewhere: here it ends up in both, never lost.
		inner := kvstore.NewMemoryStore()
		wishlistOK, _ := newWishlistFixture(inner)

		added, err := wishlistOK.AddItem(context.Background(), &models.AddWishlistRequest{Name: "Silk Scarf", Price: "₹1,299.00"})
		require.NoError(t, err)

		store := newFailingStore(inner, repository.KeyWishlist)
		cart := newCartService(store)
		wishlist := service.NewWishlistService(repository.NewWishlistRepo(store), cart)

		// Act
		_, err = wishlist.MoveToCart(ctx, added.Items[0].ID)

		// Assert
		require.Error(t, err)

		cartResp, err := cart.GetCart(ctx)
		require.NoError(t, err)
		assert.Len(t, cartResp.Items, 1)

		remaining, err := wishlist.GetWishlist(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, remaining.Total)
	})
}
