package checkout

// Pricing constants for the simulated storefront.
const (
	// FreeShippingThreshold is the subtotal at or above which shipping
	// is waived.
	FreeShippingThreshold = 50.00
	// FlatShippingCost applies below the threshold.
	FlatShippingCost = 5.00
	// TaxRate is a flat 10%.
	TaxRate = 0.10
)

// Quote is the monetary breakdown of a checkout. Values are unrounded;
// two-decimal rounding happens only at the presentation layer.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// NewQuote derives shipping, tax and total from a cart subtotal.
func NewQuote(subtotal float64) Quote {
	shipping := FlatShippingCost
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * TaxRate
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}
