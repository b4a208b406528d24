package cartstore

import (
	"context"
	"sync"
)

// LocalCartStore keeps carts in memory, guarded by a sync.RWMutex. It is
// the default backend when no Redis address is configured.
type LocalCartStore struct {
	mu    sync.RWMutex
	store map[string]*Cart

	events    *Events
	emptyCart *Cart
}

// NewLocalCartStore constructor. events may be nil.
func NewLocalCartStore(events *Events) *LocalCartStore {
	return &LocalCartStore{
		store:     make(map[string]*Cart),
		events:    events,
		emptyCart: &Cart{},
	}
}

// Initialize does nothing for the in-memory store.
func (l *LocalCartStore) Initialize(ctx context.Context) error {
	return nil
}

// AddItem adds quantity to an existing line with the same product id, or
// appends a new line. The cart never holds two lines for one product.
func (l *LocalCartStore) AddItem(ctx context.Context, userID string, item CartItem) error {
	l.mu.Lock()
	cart, exists := l.store[userID]
	if !exists {
		cart = &Cart{UserID: userID, Items: []*CartItem{}}
		l.store[userID] = cart
	}

	found := false
	for _, existing := range cart.Items {
		if existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		line := item
		cart.Items = append(cart.Items, &line)
	}
	l.mu.Unlock()

	l.events.Publish(AddedEvent{UserID: userID, ProductID: item.ProductID, Quantity: item.Quantity})
	return nil
}

// RemoveItem deletes the line with that product id. Absent ids are a no-op.
func (l *LocalCartStore) RemoveItem(ctx context.Context, userID, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cart, exists := l.store[userID]
	if !exists {
		return nil
	}
	removeLine(cart, productID)
	return nil
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line, same as RemoveItem.
func (l *LocalCartStore) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cart, exists := l.store[userID]
	if !exists {
		return nil
	}
	if quantity <= 0 {
		removeLine(cart, productID)
		return nil
	}
	for _, item := range cart.Items {
		if item.ProductID == productID {
			item.Quantity = quantity
			break
		}
	}
	return nil
}

// IncrementQuantity adds one to the matching line. No-op on unknown ids.
func (l *LocalCartStore) IncrementQuantity(ctx context.Context, userID, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cart, exists := l.store[userID]
	if !exists {
		return nil
	}
	for _, item := range cart.Items {
		if item.ProductID == productID {
			item.Quantity++
			break
		}
	}
	return nil
}

// DecrementQuantity subtracts one from the matching line. A line that would
// drop to zero is removed entirely, never kept at quantity zero.
func (l *LocalCartStore) DecrementQuantity(ctx context.Context, userID, productID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cart, exists := l.store[userID]
	if !exists {
		return nil
	}
	for _, item := range cart.Items {
		if item.ProductID == productID {
			item.Quantity--
			if item.Quantity <= 0 {
				removeLine(cart, productID)
			}
			break
		}
	}
	return nil
}

// EmptyCart removes every line from the user's cart.
func (l *LocalCartStore) EmptyCart(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.store[userID] = &Cart{UserID: userID}
	return nil
}

// GetCart returns a snapshot of the user's cart, or an empty cart if none
// exists yet.
func (l *LocalCartStore) GetCart(ctx context.Context, userID string) (*Cart, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if cart, exists := l.store[userID]; exists {
		return cart.clone(), nil
	}
	return l.emptyCart.clone(), nil
}

// Ping always reports healthy for the in-memory store.
func (l *LocalCartStore) Ping(ctx context.Context) bool {
	return true
}

func removeLine(cart *Cart, productID string) {
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return
		}
	}
}
