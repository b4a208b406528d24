package checkout

import (
	"testing"
)

func TestNewQuoteBelowThreshold(t *testing.T) {
	q := NewQuote(49.99)

	if q.Shipping != 5.00 {
		t.Errorf("shipping = %v, want 5.00", q.Shipping)
	}
	if q.Tax != 49.99*0.10 {
		t.Errorf("tax = %v, want %v", q.Tax, 49.99*0.10)
	}
	if q.Total != 49.99+5.00+49.99*0.10 {
		t.Errorf("total = %v, want %v", q.Total, 49.99+5.00+49.99*0.10)
	}
}

func TestNewQuoteAtThreshold(t *testing.T) {
	q := NewQuote(50.00)

	if q.Shipping != 0 {
		t.Errorf("shipping = %v, want 0", q.Shipping)
	}
	if q.Tax != 5.00 {
		t.Errorf("tax = %v, want 5.00", q.Tax)
	}
	if q.Total != 55.00 {
		t.Errorf("total = %v, want 55.00", q.Total)
	}
}

func TestNewQuoteEmptyCart(t *testing.T) {
	q := NewQuote(0)

	if q.Subtotal != 0 {
		t.Errorf("subtotal = %v, want 0", q.Subtotal)
	}
	if q.Shipping != 5.00 {
		t.Errorf("shipping = %v, want 5.00 (threshold not met)", q.Shipping)
	}
	if q.Tax != 0 {
		t.Errorf("tax = %v, want 0", q.Tax)
	}
	if q.Total != 5.00 {
		t.Errorf("total = %v, want 5.00", q.Total)
	}
}

func TestNewQuoteFormulaIsUnrounded(t *testing.T) {
	// The quote layer must not round; display rounding happens elsewhere.
	subtotal := 10.0/3.0 + 1
	q := NewQuote(subtotal)
	if q.Tax != subtotal*TaxRate {
		t.Errorf("tax = %v, want exact product %v", q.Tax, subtotal*TaxRate)
	}
	if q.Total != subtotal+FlatShippingCost+subtotal*TaxRate {
		t.Errorf("total = %v, want exact sum", q.Total)
	}
}
