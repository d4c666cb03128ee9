package cart

// ShippingRules prices delivery for an order.
type ShippingRules struct {
	// FreeAbove is the subtotal that must be exceeded for free delivery.
	FreeAbove int `json:"freeAbove"`
	// Fee is the flat delivery charge otherwise.
	Fee int `json:"fee"`
}

// DefaultShippingRules ships free above ₹50,000 and charges ₹500 otherwise.
func DefaultShippingRules() ShippingRules {
	return ShippingRules{FreeAbove: 50000, Fee: 500}
}

// Summary is the order-total block shown on the cart and checkout pages.
type Summary struct {
	Items    int `json:"items"`
	Subtotal int `json:"subtotal"`
	Shipping int `json:"shipping"`
	Total    int `json:"total"`
	// Savings is the markdown against original prices across all lines.
	Savings int `json:"savings"`
	// UntilFreeShipping is the smallest addition to the subtotal that makes
	// delivery free, zero once it is.
	UntilFreeShipping int `json:"untilFreeShipping"`
}

// Summarize computes the totals for items. An empty cart costs nothing.
func Summarize(items []LineItem, rules ShippingRules) Summary {
	sum := Summary{
		Items:    TotalItems(items),
		Subtotal: TotalPrice(items),
	}
	for _, item := range items {
		if op := item.Product.OriginalPrice; op != nil && *op > item.Product.Price {
			sum.Savings += (*op - item.Product.Price) * item.Quantity
		}
	}

	if len(items) > 0 && sum.Subtotal <= rules.FreeAbove {
		sum.Shipping = rules.Fee
		sum.UntilFreeShipping = rules.FreeAbove - sum.Subtotal + 1
	}
	sum.Total = sum.Subtotal + sum.Shipping
	return sum
}

// Summary computes the totals for the current cart.
func (s *Store) Summary(rules ShippingRules) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summarize(s.items, rules)
}
