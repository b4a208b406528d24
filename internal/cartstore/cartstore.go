package cartstore

import (
	"context"
)

// ICartStore defines the operations available on cart storage.
type ICartStore interface {
	Initialize(ctx context.Context) error

	AddItem(ctx context.Context, userID string, item CartItem) error
	RemoveItem(ctx context.Context, userID, productID string) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	IncrementQuantity(ctx context.Context, userID, productID string) error
	DecrementQuantity(ctx context.Context, userID, productID string) error
	EmptyCart(ctx context.Context, userID string) error
	GetCart(ctx context.Context, userID string) (*Cart, error)

	Ping(ctx context.Context) bool
}

// CartItem is a single cart line aggregating all quantity of one product id.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Image     string  `json:"image,omitempty"`
	Category  string  `json:"category,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the line items of one user session, in insertion order.
type Cart struct {
	UserID string      `json:"userId"`
	Items  []*CartItem `json:"items"`
}

// Subtotal is the sum of price times quantity over all line items.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// TotalItems is the sum of quantities, not the number of lines.
func (c *Cart) TotalItems() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// clone returns a deep copy so callers cannot mutate store state.
func (c *Cart) clone() *Cart {
	out := &Cart{UserID: c.UserID, Items: make([]*CartItem, len(c.Items))}
	for i, item := range c.Items {
		copied := *item
		out.Items[i] = &copied
	}
	return out
}
