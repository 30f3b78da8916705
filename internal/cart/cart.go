package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop/pkg/money"
)

// DefaultSessionKey identifies the shared storefront cart.
const DefaultSessionKey = "default"

// MaxLineQuantity caps the quantity of a single line item.
const MaxLineQuantity = 1_000_000

// LineItem is one product's quantity and the price captured on first add.
type LineItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Cart is a point-in-time copy of a session's cart.
type Cart struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Empty reports whether the cart has no line items.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// Find returns the line for productID, if present.
func (c Cart) Find(productID string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// Subtotal sums price × quantity over items.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(money.LineTotal(item.Price, item.Quantity))
	}
	return total
}

// CloneItems returns a copy of items that never aliases the input; nil
// becomes an empty slice so carts always encode as [].
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
