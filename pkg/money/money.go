// Package money holds the decimal helpers shared by the catalog, cart and
// checkout packages.
package money

import "github.com/shopspring/decimal"

// Places is the number of fractional digits kept for currency amounts.
const Places = 2

// TaxRate is the flat sales tax applied at checkout.
var TaxRate = decimal.RequireFromString("0.10")

func init() {
	// Amounts travel as JSON numbers (79.99), matching the storefront client.
	decimal.MarshalJSONWithoutQuotes = true
}

// MustParse converts a literal amount, panicking on malformed input. Use it
// for seed data only.
func MustParse(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Round rounds half away from zero to whole cents.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Places)
}

// LineTotal returns price × quantity.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// EqualCents reports whether both amounts are the same once rounded to cents.
func EqualCents(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}
