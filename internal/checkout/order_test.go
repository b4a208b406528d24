package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/cartstore"
)

func validCard() CardInfo {
	exp := time.Now().AddDate(2, 0, 0)
	return CardInfo{
		Number:          "4432801561520454",
		CVV:             672,
		ExpirationMonth: int(exp.Month()),
		ExpirationYear:  exp.Year(),
	}
}

func TestValidateCard(t *testing.T) {
	future := time.Now().AddDate(2, 0, 0)
	tests := []struct {
		name    string
		card    CardInfo
		wantErr bool
	}{
		{name: "visa", card: CardInfo{Number: "4432801561520454", ExpirationMonth: 1, ExpirationYear: future.Year()}},
		{name: "mastercard", card: CardInfo{Number: "5425233430109903", ExpirationMonth: 1, ExpirationYear: future.Year()}},
		{name: "amex rejected", card: CardInfo{Number: "378282246310005", ExpirationMonth: 1, ExpirationYear: future.Year()}, wantErr: true},
		{name: "too short", card: CardInfo{Number: "4111", ExpirationMonth: 1, ExpirationYear: future.Year()}, wantErr: true},
		{name: "non numeric", card: CardInfo{Number: "4432-8015-6152-0454", ExpirationMonth: 1, ExpirationYear: future.Year()}, wantErr: true},
		{name: "expired", card: CardInfo{Number: "4432801561520454", ExpirationMonth: 1, ExpirationYear: 2020}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCard(tc.card)
			if tc.wantErr && err == nil {
				t.Error("want error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("want no error, got %v", err)
			}
		})
	}
}

func TestPlaceOrderEmptiesCart(t *testing.T) {
	ctx := context.Background()
	store := cartstore.NewLocalCartStore(nil)
	store.AddItem(ctx, "user1", cartstore.CartItem{ProductID: "p1", Price: 30, Quantity: 2})

	svc := NewService(store, nil)
	order, err := svc.PlaceOrder(ctx, "user1", PlaceOrderRequest{Email: "a@b.c", Card: validCard()})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	if order.OrderID == "" || order.TransactionID == "" {
		t.Error("order ids not generated")
	}
	if order.Quote.Subtotal != 60 {
		t.Errorf("subtotal = %v, want 60", order.Quote.Subtotal)
	}
	if order.Quote.Shipping != 0 {
		t.Errorf("shipping = %v, want 0 (free over threshold)", order.Quote.Shipping)
	}
	if len(order.Items) != 1 {
		t.Errorf("got %d order lines, want 1", len(order.Items))
	}

	cart, _ := store.GetCart(ctx, "user1")
	if len(cart.Items) != 0 {
		t.Errorf("cart not emptied after order: %d lines", len(cart.Items))
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := cartstore.NewLocalCartStore(nil)

	svc := NewService(store, nil)
	if _, err := svc.PlaceOrder(ctx, "user1", PlaceOrderRequest{Card: validCard()}); err != ErrEmptyCart {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}

func TestPlaceOrderInvalidCardKeepsCart(t *testing.T) {
	ctx := context.Background()
	store := cartstore.NewLocalCartStore(nil)
	store.AddItem(ctx, "user1", cartstore.CartItem{ProductID: "p1", Price: 5, Quantity: 1})

	svc := NewService(store, nil)
	if _, err := svc.PlaceOrder(ctx, "user1", PlaceOrderRequest{Card: CardInfo{Number: "bad"}}); err == nil {
		t.Fatal("want card validation error, got nil")
	}

	cart, _ := store.GetCart(ctx, "user1")
	if len(cart.Items) != 1 {
		t.Errorf("cart changed by failed checkout: %d lines", len(cart.Items))
	}
}
