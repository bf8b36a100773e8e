package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OwnerKind string

const (
	OwnerKindUser  OwnerKind = "user"
	OwnerKindGuest OwnerKind = "guest"
)

// Owner is the identity a cart is stored under, exactly one of a user id or
// a guest session id.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

func UserOwner(id string) Owner {
	return Owner{Kind: OwnerKindUser, ID: id}
}

func GuestOwner(id string) Owner {
	return Owner{Kind: OwnerKindGuest, ID: id}
}

func (o Owner) IsZero() bool {
	return o.Kind == "" && o.ID == ""
}

func (o Owner) IsGuest() bool {
	return o.Kind == OwnerKindGuest
}

const guestIDPrefix = "guest_"

// NewGuestID produces a fresh opaque guest session identifier. The prefix is
// kept for storefront clients that persist it locally.
func NewGuestID() string {
	return guestIDPrefix + uuid.NewString()
}

// LineKey is the identity of one purchasable configuration. Two lines with
// the same key must be merged, never duplicated.
type LineKey struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// Line snapshots catalog data at the time the product was added, so later
// catalog price changes do not alter the cart.
type Line struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int32           `json:"quantity"`
}

func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Cart is the aggregate root. TotalPrice is derived, never set directly.
type Cart struct {
	Owner      Owner           `json:"owner"`
	Lines      []Line          `json:"lines"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func New(owner Owner) *Cart {
	now := time.Now()
	return &Cart{
		Owner:      owner,
		Lines:      []Line{},
		TotalPrice: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NormalizeQuantity applies the add-path coercion policy: missing, zero or
// negative quantities become 1.
func NormalizeQuantity(quantity int32) int32 {
	if quantity < 1 {
		return 1
	}
	return quantity
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) FindLine(key LineKey) (Line, bool) {
	for _, line := range c.Lines {
		if line.Key() == key {
			return line, true
		}
	}
	return Line{}, false
}

// AddLine merges the given line into an existing one with the same key by
// summing quantities, or appends it, then recomputes the total.
func (c *Cart) AddLine(line Line) {
	line.Quantity = NormalizeQuantity(line.Quantity)
	for i := range c.Lines {
		if c.Lines[i].Key() == line.Key() {
			c.Lines[i].Quantity += line.Quantity
			c.touch()
			return
		}
	}
	c.Lines = append(c.Lines, line)
	c.touch()
}

// SetLineQuantity sets the quantity of the line with the given key to the
// exact value; a value of zero or less removes the line. It reports whether
// a line with that key existed.
func (c *Cart) SetLineQuantity(key LineKey, quantity int32) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() != key {
			continue
		}
		if quantity > 0 {
			c.Lines[i].Quantity = quantity
		} else {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}
		c.touch()
		return true
	}
	return false
}

// RemoveLine deletes the line with the given key if present. Removing an
// absent line leaves the cart unchanged.
func (c *Cart) RemoveLine(key LineKey) bool {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return true
		}
	}
	return false
}

// MergeFrom folds every line of the guest cart into this cart: quantities on
// matching keys are summed, unknown lines appended in the guest's order.
func (c *Cart) MergeFrom(guest *Cart) {
	for _, line := range guest.Lines {
		matched := false
		for i := range c.Lines {
			if c.Lines[i].Key() == line.Key() {
				c.Lines[i].Quantity += line.Quantity
				matched = true
				break
			}
		}
		if !matched {
			c.Lines = append(c.Lines, line)
		}
	}
	c.touch()
}

// Promote re-owns a guest cart as the given user's cart in place, keeping
// lines and insertion order.
func (c *Cart) Promote(userID string) {
	c.Owner = UserOwner(userID)
	c.touch()
}

func (c *Cart) touch() {
	c.TotalPrice = c.computeTotal()
	c.UpdatedAt = time.Now()
}

func (c *Cart) computeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
