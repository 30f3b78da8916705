package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/minishop/api/middleware"
	"github.com/angelmondragon/minishop/api/responses"
	"github.com/angelmondragon/minishop/api/validators"
	"github.com/angelmondragon/minishop/internal/cart"
	checkoutsvc "github.com/angelmondragon/minishop/internal/checkout"
	pkgerrors "github.com/angelmondragon/minishop/pkg/errors"
	"github.com/angelmondragon/minishop/pkg/logger"
)

const checkoutSuccessMessage = "Checkout successful"

type checkoutItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	Price     decimal.Decimal `json:"price"`
}

type checkoutRequest struct {
	Name  string                `json:"name" validate:"required"`
	Email string                `json:"email" validate:"required,email"`
	Items []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	Total *decimal.Decimal      `json:"total" validate:"required"`
}

func (req checkoutRequest) toInput() checkoutsvc.Input {
	items := make([]cart.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, cart.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return checkoutsvc.Input{
		Name:  req.Name,
		Email: req.Email,
		Items: items,
		Total: req.Total,
	}
}

// Checkout turns the submitted cart into a receipt and clears the session cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionKey := middleware.SessionKeyFromContext(r.Context())
		if sessionKey == "" {
			sessionKey = cart.DefaultSessionKey
		}

		receipt, err := svc.Checkout(r.Context(), sessionKey, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessage(w, receipt, checkoutSuccessMessage)
	}
}
