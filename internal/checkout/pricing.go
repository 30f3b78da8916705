package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop/internal/cart"
	"github.com/angelmondragon/minishop/pkg/money"
)

var taxMultiplier = decimal.NewFromInt(1).Add(money.TaxRate)

// Pricing captures the tax-inclusive amounts for a cart.
type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Quote prices a cart with the flat tax rate. The total is rounded half-up to
// cents and tax is whatever that adds over the subtotal.
func Quote(c cart.Cart) Pricing {
	subtotal := cart.Subtotal(c.Items)
	total := money.Round(subtotal.Mul(taxMultiplier))
	return Pricing{
		Subtotal: subtotal,
		Tax:      total.Sub(subtotal),
		Total:    total,
	}
}
