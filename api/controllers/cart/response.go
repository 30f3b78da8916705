package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop/internal/cart"
)

// CartItemResponse is one cart line on the wire.
type CartItemResponse struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CartResponse is the cart payload returned by every cart endpoint.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

func newCartResponse(c cart.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return CartResponse{Items: items, Total: c.Total}
}
