package cartstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// cartField is the hash field under which a user's cart is stored. The
// hash key is the user id.
const cartField = "cart"

// RedisCartStore is a cart store backed by Redis. Carts are stored as
// JSON blobs in a per-user hash.
type RedisCartStore struct {
	client        *redis.Client
	log           *logrus.Logger
	events        *Events
	emptyCartData []byte
}

// NewRedisCartStore accepts a Redis connection string (either a
// "redis://" URL or a plain "hostname:port") and returns a store instance.
func NewRedisCartStore(redisAddr string, log *logrus.Logger, events *Events) (*RedisCartStore, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	opts, err := redis.ParseURL(redisAddr)
	if err != nil {
		// Not in "redis://..." format, use it as a plain Addr.
		opts = &redis.Options{
			Addr:         redisAddr,
			MinIdleConns: 1,
			MaxRetries:   30,
			DialTimeout:  30 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			PoolSize:     10,
			PoolTimeout:  4 * time.Second,
			IdleTimeout:  180 * time.Second,
		}
	}

	client := redis.NewClient(opts)
	client.AddHook(redisotel.NewTracingHook())

	emptyData, err := json.Marshal(&Cart{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize empty cart")
	}

	return &RedisCartStore{
		client:        client,
		log:           log,
		events:        events,
		emptyCartData: emptyData,
	}, nil
}

// Initialize verifies the Redis connection, retrying with exponential
// backoff before giving up.
func (r *RedisCartStore) Initialize(ctx context.Context) error {
	for i := 0; i < 30; i++ {
		if r.Ping(ctx) {
			r.log.Info("RedisCartStore initialized successfully")
			return nil
		}

		backoff := time.Duration(1000*(1<<uint(i))) * time.Millisecond
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
		r.log.Infof("RedisCartStore: ping failed (attempt %d/30), retrying in %v", i+1, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return errors.New("failed to connect to Redis after 30 attempts")
}

// AddItem adds quantity to an existing line with the same product id, or
// appends a new line.
func (r *RedisCartStore) AddItem(ctx context.Context, userID string, item CartItem) error {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return err
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

	if err := r.save(ctx, userID, cart); err != nil {
		return err
	}
	r.events.Publish(AddedEvent{UserID: userID, ProductID: item.ProductID, Quantity: item.Quantity})
	return nil
}

// RemoveItem deletes the line with that product id. Absent ids are a no-op.
func (r *RedisCartStore) RemoveItem(ctx context.Context, userID, productID string) error {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	removeLine(cart, productID)
	return r.save(ctx, userID, cart)
}

// SetQuantity sets the quantity of an existing line; zero or less removes it.
func (r *RedisCartStore) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		removeLine(cart, productID)
	} else {
		for _, item := range cart.Items {
			if item.ProductID == productID {
				item.Quantity = quantity
				break
			}
		}
	}
	return r.save(ctx, userID, cart)
}

// IncrementQuantity adds one to the matching line.
func (r *RedisCartStore) IncrementQuantity(ctx context.Context, userID, productID string) error {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	for _, item := range cart.Items {
		if item.ProductID == productID {
			item.Quantity++
			break
		}
	}
	return r.save(ctx, userID, cart)
}

// DecrementQuantity subtracts one from the matching line, removing it when
// the quantity would drop to zero.
func (r *RedisCartStore) DecrementQuantity(ctx context.Context, userID, productID string) error {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return err
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
	return r.save(ctx, userID, cart)
}

// EmptyCart resets the user's cart to empty.
func (r *RedisCartStore) EmptyCart(ctx context.Context, userID string) error {
	if err := r.client.HSet(ctx, userID, cartField, r.emptyCartData).Err(); err != nil {
		return errors.Wrap(err, "redis HSet error")
	}
	return nil
}

// GetCart fetches the cart from Redis, returning an empty cart when none
// is stored.
func (r *RedisCartStore) GetCart(ctx context.Context, userID string) (*Cart, error) {
	cart, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.UserID = userID
	return cart, nil
}

// Ping reports whether Redis responds within a short timeout.
func (r *RedisCartStore) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.client.Ping(pingCtx).Result(); err != nil {
		r.log.Warnf("RedisCartStore: ping failed: %v", err)
		return false
	}
	return true
}

func (r *RedisCartStore) load(ctx context.Context, userID string) (*Cart, error) {
	val, err := r.client.HGet(ctx, userID, cartField).Result()
	if err == redis.Nil {
		return &Cart{UserID: userID, Items: []*CartItem{}}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis HGet error")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, errors.Wrap(err, "failed to parse cart data")
	}
	return &cart, nil
}

func (r *RedisCartStore) save(ctx context.Context, userID string, cart *Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return errors.Wrap(err, "failed to serialize cart")
	}
	if err := r.client.HSet(ctx, userID, cartField, data).Err(); err != nil {
		return errors.Wrap(err, "redis HSet error")
	}
	return nil
}
