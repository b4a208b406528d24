package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/cartstore"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart.
var ErrEmptyCart = errors.New("cart is empty")

// Address is the shipping address supplied at checkout. It is carried on
// the order unvalidated.
type Address struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	ZipCode       string `json:"zipCode"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	Email   string   `json:"email"`
	Address Address  `json:"address"`
	Card    CardInfo `json:"card"`
}

// Order is the record returned by a successful checkout.
type Order struct {
	OrderID       string                `json:"orderId"`
	TransactionID string                `json:"transactionId"`
	Email         string                `json:"email"`
	Address       Address               `json:"address"`
	Items         []*cartstore.CartItem `json:"items"`
	Quote         Quote                 `json:"quote"`
	PlacedAt      time.Time             `json:"placedAt"`
}

// Service places orders against a cart store. Payment is simulated: the
// card is validated locally and a transaction id is generated.
type Service struct {
	store  cartstore.ICartStore
	log    *logrus.Logger
	tracer trace.Tracer
}

// NewService constructor. log may be nil.
func NewService(store cartstore.ICartStore, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		store:  store,
		log:    log,
		tracer: otel.Tracer("checkout"),
	}
}

// PlaceOrder validates the card, quotes the cart, empties it and returns
// the order. The cart is left untouched on any failure.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*Order, error) {
	ctx, span := s.tracer.Start(ctx, "PlaceOrder")
	defer span.End()
	span.SetAttributes(attribute.String("app.user_id", userID))

	cart, err := s.store.GetCart(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := ValidateCard(req.Card); err != nil {
		span.SetAttributes(attribute.String("error", err.Error()))
		return nil, err
	}

	quote := NewQuote(cart.Subtotal())
	order := &Order{
		OrderID:       uuid.New().String(),
		TransactionID: uuid.New().String(),
		Email:         req.Email,
		Address:       req.Address,
		Items:         cart.Items,
		Quote:         quote,
		PlacedAt:      time.Now().UTC(),
	}
	span.SetAttributes(
		attribute.String("app.order_id", order.OrderID),
		attribute.Float64("app.order_total", quote.Total),
	)

	if err := s.store.EmptyCart(ctx, userID); err != nil {
		return nil, errors.Wrap(err, "failed to empty cart after order")
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.OrderID,
		"card":     maskCard(req.Card.Number),
		"total":    quote.Total,
	}).Info("order placed")

	return order, nil
}
