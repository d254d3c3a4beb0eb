package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
)

// MaxQuantity bounds the quantity of a single cart line.
const MaxQuantity = 999

var (
	ErrInvalidQuantity  = errors.New("quantity must be between 1 and 999")
	ErrInvalidPrice     = errors.New("unit price must not be negative")
	ErrCurrencyMismatch = errors.New("cart items must share one currency")
	ErrEmptyCart        = errors.New("cart is empty")
)

// Cart is one identity's ordered list of line items. Every mutation writes
// the whole cart back to storage; the in-memory copy only changes once the
// write succeeded.
type Cart struct {
	key     string
	storage CartStorage
	items   []models.LineItem
}

func OpenCart(ctx context.Context, storage CartStorage, key string) (*Cart, error) {
	items, err := storage.LoadCart(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &Cart{key: key, storage: storage, items: items}, nil
}

func (c *Cart) Key() string { return c.key }

// Items returns a copy of the cart contents.
func (c *Cart) Items() []models.LineItem {
	out := make([]models.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int { return len(c.items) }

// Currency is the currency shared by all items, empty for an empty cart.
func (c *Cart) Currency() models.Currency {
	if len(c.items) == 0 {
		return ""
	}
	return c.items[0].Currency
}

func (c *Cart) Subtotal() decimal.Decimal { return Subtotal(c.items) }

// Add merges quantity into the line with the same product, or appends item
// as a new line.
func (c *Cart) Add(ctx context.Context, item models.LineItem, quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if item.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if cur := c.Currency(); cur != "" && item.Currency != cur {
		return fmt.Errorf("%w: cart is in %s, item is in %s", ErrCurrencyMismatch, cur, item.Currency)
	}

	next := c.Items()
	for i := range next {
		if next[i].ProductID == item.ProductID {
			if quantity > MaxQuantity-next[i].Quantity {
				return fmt.Errorf("%w: line already holds %d", ErrInvalidQuantity, next[i].Quantity)
			}
			next[i].Quantity += quantity
			return c.persist(ctx, next)
		}
	}
	item.Quantity = quantity
	return c.persist(ctx, append(next, item))
}

// SetQuantity replaces the quantity of the line at index. An index out of
// range is ignored.
func (c *Cart) SetQuantity(ctx context.Context, index, quantity int) error {
	if quantity < 1 || quantity > MaxQuantity {
		return ErrInvalidQuantity
	}
	if index < 0 || index >= len(c.items) {
		return nil
	}
	next := c.Items()
	next[index].Quantity = quantity
	return c.persist(ctx, next)
}

// Remove deletes the line at index. An index out of range is ignored.
func (c *Cart) Remove(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	next := make([]models.LineItem, 0, len(c.items)-1)
	next = append(next, c.items[:index]...)
	next = append(next, c.items[index+1:]...)
	return c.persist(ctx, next)
}

// IndexOf returns the position of productID or -1.
func (c *Cart) IndexOf(productID string) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Clear(ctx context.Context) error {
	if err := c.storage.DeleteCart(ctx, c.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	c.items = nil
	return nil
}

// Merge adds every item of other with Add semantics. Items that cannot be
// merged (other currency) are returned as skipped.
func (c *Cart) Merge(ctx context.Context, other []models.LineItem) (skipped []models.LineItem, err error) {
	for _, it := range other {
		if err := c.Add(ctx, it, it.Quantity); err != nil {
			if errors.Is(err, ErrCurrencyMismatch) || errors.Is(err, ErrInvalidQuantity) {
				skipped = append(skipped, it)
				continue
			}
			return skipped, err
		}
	}
	return skipped, nil
}

func (c *Cart) persist(ctx context.Context, next []models.LineItem) error {
	if err := c.storage.SaveCart(ctx, c.key, next); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = next
	return nil
}

// Subtotal is Σ unitPrice × quantity.
func Subtotal(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
