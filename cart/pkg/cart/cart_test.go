package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(productId uuid.UUID, size, color string, price int64, quantity int32) Line {
	return Line{
		ProductID: productId,
		Name:      "tee",
		Image:     "https://cdn.example.com/tee.jpg",
		UnitPrice: decimal.NewFromInt(price),
		Size:      size,
		Color:     color,
		Quantity:  quantity,
	}
}

func assertInvariants(t *testing.T, c *Cart) {
	t.Helper()

	seen := map[LineKey]bool{}
	total := decimal.Zero
	for _, l := range c.Lines {
		assert.False(t, seen[l.Key()], "duplicate line key %v", l.Key())
		seen[l.Key()] = true
		assert.GreaterOrEqual(t, l.Quantity, int32(1))
		total = total.Add(l.Subtotal())
	}
	assert.True(
		t,
		c.TotalPrice.Equal(total),
		"totalPrice=%s is not the sum of line subtotals=%s",
		c.TotalPrice,
		total,
	)
}

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int32
		expected int32
	}{
		{name: "given missing quantity should default to 1", quantity: 0, expected: 1},
		{name: "given negative quantity should clamp to 1", quantity: -5, expected: 1},
		{name: "given quantity 1 should keep 1", quantity: 1, expected: 1},
		{name: "given quantity 7 should keep 7", quantity: 7, expected: 7},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, NormalizeQuantity(test.quantity))
		})
	}
}

func TestAddLine(t *testing.T) {
	productId := uuid.New()
	otherId := uuid.New()

	tests := []struct {
		name          string
		lines         []Line
		expectedLines int
		expectedQty   int32
		expectedTotal int64
	}{
		{
			name: "given same key twice should merge into one line",
			lines: []Line{
				line(productId, "M", "Red", 10, 1),
				line(productId, "M", "Red", 10, 2),
			},
			expectedLines: 1,
			expectedQty:   3,
			expectedTotal: 30,
		},
		{
			name: "given same product in different size should append a new line",
			lines: []Line{
				line(productId, "M", "Red", 10, 1),
				line(productId, "L", "Red", 10, 1),
			},
			expectedLines: 2,
			expectedQty:   1,
			expectedTotal: 20,
		},
		{
			name: "given same product in different color should append a new line",
			lines: []Line{
				line(productId, "M", "Red", 10, 1),
				line(productId, "M", "Blue", 10, 1),
			},
			expectedLines: 2,
			expectedQty:   1,
			expectedTotal: 20,
		},
		{
			name: "given different products should append new lines",
			lines: []Line{
				line(productId, "M", "Red", 10, 2),
				line(otherId, "M", "Red", 5, 1),
			},
			expectedLines: 2,
			expectedQty:   2,
			expectedTotal: 25,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			crt := New(GuestOwner(NewGuestID()))
			for _, l := range test.lines {
				crt.AddLine(l)
			}

			assert.Len(t, crt.Lines, test.expectedLines)
			assert.Equal(t, test.expectedQty, crt.Lines[0].Quantity)
			assert.True(t, crt.TotalPrice.Equal(decimal.NewFromInt(test.expectedTotal)))
			assertInvariants(t, crt)
		})
	}
}

func TestAddLineNormalizesQuantity(t *testing.T) {
	crt := New(GuestOwner(NewGuestID()))
	crt.AddLine(line(uuid.New(), "M", "Red", 10, 0))

	assert.Len(t, crt.Lines, 1)
	assert.Equal(t, int32(1), crt.Lines[0].Quantity)
	assertInvariants(t, crt)
}

func TestSetLineQuantity(t *testing.T) {
	productId := uuid.New()

	t.Run("given existing line should set exact quantity", func(t *testing.T) {
		crt := New(GuestOwner(NewGuestID()))
		crt.AddLine(line(productId, "M", "Red", 10, 5))

		ok := crt.SetLineQuantity(LineKey{ProductID: productId, Size: "M", Color: "Red"}, 2)

		assert.True(t, ok)
		assert.Equal(t, int32(2), crt.Lines[0].Quantity)
		assert.True(t, crt.TotalPrice.Equal(decimal.NewFromInt(20)))
		assertInvariants(t, crt)
	})

	t.Run("given quantity zero should remove the line", func(t *testing.T) {
		crt := New(GuestOwner(NewGuestID()))
		crt.AddLine(line(productId, "M", "Red", 10, 5))

		ok := crt.SetLineQuantity(LineKey{ProductID: productId, Size: "M", Color: "Red"}, 0)

		assert.True(t, ok)
		assert.Empty(t, crt.Lines)
		assert.True(t, crt.TotalPrice.IsZero())
		assertInvariants(t, crt)
	})

	t.Run("given unknown key should report no match", func(t *testing.T) {
		crt := New(GuestOwner(NewGuestID()))
		crt.AddLine(line(productId, "M", "Red", 10, 5))

		ok := crt.SetLineQuantity(LineKey{ProductID: uuid.New(), Size: "M", Color: "Red"}, 2)

		assert.False(t, ok)
		assert.Equal(t, int32(5), crt.Lines[0].Quantity)
		assertInvariants(t, crt)
	})
}

func TestRemoveLine(t *testing.T) {
	productId := uuid.New()

	t.Run("given existing line should remove it", func(t *testing.T) {
		crt := New(GuestOwner(NewGuestID()))
		crt.AddLine(line(productId, "M", "Red", 10, 2))

		removed := crt.RemoveLine(LineKey{ProductID: productId, Size: "M", Color: "Red"})

		assert.True(t, removed)
		assert.Empty(t, crt.Lines)
		assert.True(t, crt.TotalPrice.IsZero())
	})

	t.Run("given absent line should leave the cart unchanged", func(t *testing.T) {
		crt := New(GuestOwner(NewGuestID()))
		crt.AddLine(line(productId, "M", "Red", 10, 2))
		before := crt.TotalPrice

		removed := crt.RemoveLine(LineKey{ProductID: uuid.New(), Size: "M", Color: "Red"})

		assert.False(t, removed)
		assert.Len(t, crt.Lines, 1)
		assert.True(t, crt.TotalPrice.Equal(before))
	})
}

func TestMergeFrom(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	t.Run("given matching keys should sum quantities", func(t *testing.T) {
		guest := New(GuestOwner(NewGuestID()))
		guest.AddLine(line(productA, "M", "Red", 10, 2))
		guest.AddLine(line(productB, "S", "Blue", 5, 1))

		user := New(UserOwner(uuid.NewString()))
		user.AddLine(line(productA, "M", "Red", 10, 3))

		user.MergeFrom(guest)

		assert.Len(t, user.Lines, 2)
		merged, ok := user.FindLine(LineKey{ProductID: productA, Size: "M", Color: "Red"})
		assert.True(t, ok)
		assert.Equal(t, int32(5), merged.Quantity)
		appended, ok := user.FindLine(LineKey{ProductID: productB, Size: "S", Color: "Blue"})
		assert.True(t, ok)
		assert.Equal(t, int32(1), appended.Quantity)
		assert.True(t, user.TotalPrice.Equal(decimal.NewFromInt(55)))
		assertInvariants(t, user)
	})

	t.Run("given disjoint carts should append guest lines in order", func(t *testing.T) {
		guest := New(GuestOwner(NewGuestID()))
		guest.AddLine(line(productA, "M", "Red", 10, 2))
		guest.AddLine(line(productB, "S", "Blue", 5, 1))

		user := New(UserOwner(uuid.NewString()))
		user.MergeFrom(guest)

		assert.Len(t, user.Lines, 2)
		assert.Equal(t, productA, user.Lines[0].ProductID)
		assert.Equal(t, productB, user.Lines[1].ProductID)
		assertInvariants(t, user)
	})
}

func TestPromote(t *testing.T) {
	productId := uuid.New()
	userId := uuid.NewString()

	crt := New(GuestOwner(NewGuestID()))
	crt.AddLine(line(productId, "M", "Red", 10, 2))
	before := crt.TotalPrice

	crt.Promote(userId)

	assert.Equal(t, OwnerKindUser, crt.Owner.Kind)
	assert.Equal(t, userId, crt.Owner.ID)
	assert.Len(t, crt.Lines, 1)
	assert.True(t, crt.TotalPrice.Equal(before))
}

func TestNewGuestID(t *testing.T) {
	first := NewGuestID()
	second := NewGuestID()

	assert.Contains(t, first, "guest_")
	assert.NotEqual(t, first, second)
}
