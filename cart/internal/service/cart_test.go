package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/prasetyo/storefront/cart/pkg/cart"
	"github.com/prasetyo/storefront/cart/pkg/request"
	inErrors "github.com/prasetyo/storefront/internal/errors"
)

func TestAddItem(t *testing.T) {
	t.Run("given no owner should assign a fresh guest id and persist", func(t *testing.T) {
		product := newTestProduct(10)
		svc, store := newTestService(t, product)

		crt, err := svc.AddItem(context.Background(), request.AddItem{
			ProductId: product.ID,
			Size:      "M",
			Color:     "Red",
			Quantity:  2,
		})

		assert.NoError(t, err)
		assert.Equal(t, cart.OwnerKindGuest, crt.Owner.Kind)
		assert.True(t, strings.HasPrefix(crt.Owner.ID, "guest_"))
		assert.True(t, store.contains(crt.Owner))
		assert.Len(t, crt.Lines, 1)
		assert.Equal(t, int32(2), crt.Lines[0].Quantity)
		assert.Equal(t, product.Name, crt.Lines[0].Name)
		assert.True(t, crt.TotalPrice.Equal(decimal.NewFromInt(20)))
	})

	t.Run("given same selection twice should aggregate into one line", func(t *testing.T) {
		product := newTestProduct(10)
		svc, _ := newTestService(t, product)
		guestId := cart.NewGuestID()

		param := request.AddItem{
			GuestId:   guestId,
			ProductId: product.ID,
			Size:      "M",
			Color:     "Red",
			Quantity:  1,
		}
		_, err := svc.AddItem(context.Background(), param)
		assert.NoError(t, err)
		crt, err := svc.AddItem(context.Background(), param)
		assert.NoError(t, err)

		assert.Len(t, crt.Lines, 1)
		assert.Equal(t, int32(2), crt.Lines[0].Quantity)
		assert.True(t, crt.TotalPrice.Equal(decimal.NewFromInt(20)))
	})

	t.Run("given unknown product should fail with ProductNotFound", func(t *testing.T) {
		svc, store := newTestService(t)

		_, err := svc.AddItem(context.Background(), request.AddItem{
			ProductId: uuid.New(),
			Size:      "M",
			Color:     "Red",
		})

		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
		assert.Zero(t, store.size())
	})

	t.Run("given missing size should fail with InvalidSelection", func(t *testing.T) {
		product := newTestProduct(10)
		svc, store := newTestService(t, product)

		_, err := svc.AddItem(context.Background(), request.AddItem{
			ProductId: product.ID,
			Color:     "Red",
		})

		assert.ErrorIs(t, err, inErrors.ErrInvalidSelection)
		assert.Zero(t, store.size())
	})

	t.Run("given missing color should fail with InvalidSelection", func(t *testing.T) {
		product := newTestProduct(10)
		svc, store := newTestService(t, product)

		_, err := svc.AddItem(context.Background(), request.AddItem{
			ProductId: product.ID,
			Size:      "M",
		})

		assert.ErrorIs(t, err, inErrors.ErrInvalidSelection)
		assert.Zero(t, store.size())
	})

	t.Run("given non positive quantity should coerce to 1", func(t *testing.T) {
		tests := []struct {
			name     string
			quantity int32
		}{
			{name: "given missing quantity", quantity: 0},
			{name: "given negative quantity", quantity: -3},
		}
		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				product := newTestProduct(10)
				svc, _ := newTestService(t, product)

				crt, err := svc.AddItem(context.Background(), request.AddItem{
					ProductId: product.ID,
					Size:      "M",
					Color:     "Red",
					Quantity:  test.quantity,
				})

				assert.NoError(t, err)
				assert.Equal(t, int32(1), crt.Lines[0].Quantity)
			})
		}
	})

	t.Run("given concurrent adds on one owner should not lose updates", func(t *testing.T) {
		product := newTestProduct(10)
		svc, _ := newTestService(t, product)
		guestId := cart.NewGuestID()

		const workers = 50
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.AddItem(context.Background(), request.AddItem{
					GuestId:   guestId,
					ProductId: product.ID,
					Size:      "M",
					Color:     "Red",
					Quantity:  1,
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		crt, err := svc.FindCart(context.Background(), request.FindCart{GuestId: guestId})
		assert.NoError(t, err)
		assert.Len(t, crt.Lines, 1)
		assert.Equal(t, int32(workers), crt.Lines[0].Quantity)
		assert.True(t, crt.TotalPrice.Equal(decimal.NewFromInt(10*workers)))
	})
}

func TestUpdateItem(t *testing.T) {
	seed := func(t *testing.T) (*CartService, *memoryStore, string, uuid.UUID) {
		product := newTestProduct(10)
		svc, store := newTestService(t, product)
		guestId := cart.NewGuestID()
		_, err := svc.AddItem(context.Background(), request.AddItem{
			GuestId:   guestId,
			ProductId: product.ID,
			Size:      "M",
			Color:     "Red",
			Quantity:  5,
		})
		assert.NoError(t, err)
		return svc, store, guestId, product.ID
	}

	t.Run("given positive quantity should set it exactly", func(t *testing.T) {
		svc, _, guestId, productId := seed(t)

		crt, err := svc.UpdateItem(context.Background(), request.UpdateItem{
			GuestId:   guestId,
			ProductId: productId,
			Size:      "M",
			Color:     "Red",
			Quantity:  2,
		})

		assert.NoError(t, err)
		assert.Equal(t, int32(2), crt.Lines[0].Quantity)
		assert.True(t, crt.TotalPrice.Equal(decimal.NewFromInt(20)))
	})

	t.Run("given quantity zero should remove the line", func(t *testing.T) {
		svc, _, guestId, productId := seed(t)

		crt, err := svc.UpdateItem(context.Background(), request.UpdateItem{
			GuestId:   guestId,
			ProductId: productId,
			Size:      "M",
			Color:     "Red",
			Quantity:  0,
		})

		assert.NoError(t, err)
		assert.Empty(t, crt.Lines)
		assert.True(t, crt.TotalPrice.IsZero())
	})

	t.Run("given no cart should fail with CartNotFound", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.UpdateItem(context.Background(), request.UpdateItem{
			GuestId:   cart.NewGuestID(),
			ProductId: uuid.New(),
			Size:      "M",
			Color:     "Red",
			Quantity:  1,
		})

		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
	})

	t.Run("given no owner should fail with CartNotFound", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.UpdateItem(context.Background(), request.UpdateItem{
			ProductId: uuid.New(),
			Size:      "M",
			Color:     "Red",
			Quantity:  1,
		})

		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
	})

	t.Run("given unknown line should fail with LineNotFound", func(t *testing.T) {
		svc, _, guestId, productId := seed(t)

		_, err := svc.UpdateItem(context.Background(), request.UpdateItem{
			GuestId:   guestId,
			ProductId: productId,
			Size:      "XL",
			Color:     "Red",
			Quantity:  1,
		})

		assert.ErrorIs(t, err, inErrors.ErrLineNotFound)
	})
}

func TestRemoveItem(t *testing.T) {
	seed := func(t *testing.T) (*CartService, string, uuid.UUID) {
		product := newTestProduct(10)
		svc, _ := newTestService(t, product)
		guestId := cart.NewGuestID()
		_, err := svc.AddItem(context.Background(), request.AddItem{
			GuestId:   guestId,
			ProductId: product.ID,
			Size:      "M",
			Color:     "Red",
			Quantity:  2,
		})
		assert.NoError(t, err)
		return svc, guestId, product.ID
	}

	t.Run("given existing line should remove it", func(t *testing.T) {
		svc, guestId, productId := seed(t)

		crt, err := svc.RemoveItem(context.Background(), request.RemoveItem{
			GuestId:   guestId,
			ProductId: productId,
			Size:      "M",
			Color:     "Red",
		})

		assert.NoError(t, err)
		assert.Empty(t, crt.Lines)
		assert.True(t, crt.TotalPrice.IsZero())
	})

	t.Run("given absent line should be idempotent", func(t *testing.T) {
		svc, guestId, _ := seed(t)

		crt, err := svc.RemoveItem(context.Background(), request.RemoveItem{
			GuestId:   guestId,
			ProductId: uuid.New(),
			Size:      "M",
			Color:     "Red",
		})

		assert.NoError(t, err)
		assert.Len(t, crt.Lines, 1)
		assert.Equal(t, int32(2), crt.Lines[0].Quantity)
		assert.True(t, crt.TotalPrice.Equal(decimal.NewFromInt(20)))
	})

	t.Run("given no cart should fail with CartNotFound", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.RemoveItem(context.Background(), request.RemoveItem{
			GuestId:   cart.NewGuestID(),
			ProductId: uuid.New(),
			Size:      "M",
			Color:     "Red",
		})

		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
	})
}

func TestFindCart(t *testing.T) {
	t.Run("given no cart yet should return empty cart without persisting", func(t *testing.T) {
		svc, store := newTestService(t)

		crt, err := svc.FindCart(context.Background(), request.FindCart{
			GuestId: cart.NewGuestID(),
		})

		assert.NoError(t, err)
		assert.Empty(t, crt.Lines)
		assert.True(t, crt.TotalPrice.IsZero())
		assert.Zero(t, store.size())
	})

	t.Run("given no owner should return empty cart", func(t *testing.T) {
		svc, store := newTestService(t)

		crt, err := svc.FindCart(context.Background(), request.FindCart{})

		assert.NoError(t, err)
		assert.Empty(t, crt.Lines)
		assert.True(t, crt.TotalPrice.IsZero())
		assert.Zero(t, store.size())
	})

	t.Run("given existing cart should return it", func(t *testing.T) {
		product := newTestProduct(10)
		svc, _ := newTestService(t, product)
		guestId := cart.NewGuestID()
		_, err := svc.AddItem(context.Background(), request.AddItem{
			GuestId:   guestId,
			ProductId: product.ID,
			Size:      "M",
			Color:     "Red",
			Quantity:  3,
		})
		assert.NoError(t, err)

		crt, err := svc.FindCart(context.Background(), request.FindCart{GuestId: guestId})

		assert.NoError(t, err)
		assert.Len(t, crt.Lines, 1)
		assert.Equal(t, int32(3), crt.Lines[0].Quantity)
		assert.True(t, crt.TotalPrice.Equal(decimal.NewFromInt(30)))
	})
}
