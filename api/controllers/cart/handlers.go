package cart

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/minishop/api/middleware"
	"github.com/angelmondragon/minishop/api/responses"
	"github.com/angelmondragon/minishop/api/validators"
	cartsvc "github.com/angelmondragon/minishop/internal/cart"
	pkgerrors "github.com/angelmondragon/minishop/pkg/errors"
	"github.com/angelmondragon/minishop/pkg/logger"
)

// CartFetch returns the session cart, creating it on first access.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, newCartResponse(svc.Get(r.Context(), sessionKey(r))))
	}
}

// CartAddItem adds quantity of a catalog product, merging into an existing line.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID := strings.TrimSpace(payload.ProductID)
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"productId": "is required"}))
			return
		}

		updated, err := svc.AddItem(r.Context(), sessionKey(r), productID, *payload.Quantity)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "product_id", productID), "cart.unknown_product")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"product_id": productID,
				"quantity":   *payload.Quantity,
			})
			logg.Info(ctx, "cart.item_added")
		}
		responses.WriteSuccess(w, newCartResponse(updated))
	}
}

// CartClear empties the session cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, newCartResponse(svc.Clear(r.Context(), sessionKey(r))))
	}
}

// CartRemoveItem drops the line for {productId}; unknown ids are a no-op.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg)
			return
		}
		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		responses.WriteSuccess(w, newCartResponse(svc.RemoveItem(r.Context(), sessionKey(r), productID)))
	}
}

// CartUpdateQuantity overwrites the quantity for {productId}; zero removes it.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg)
			return
		}

		var payload UpdateQuantityRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		updated := svc.SetItemQuantity(r.Context(), sessionKey(r), productID, *payload.Quantity)
		responses.WriteSuccess(w, newCartResponse(updated))
	}
}

func sessionKey(r *http.Request) string {
	if key := middleware.SessionKeyFromContext(r.Context()); key != "" {
		return key
	}
	return cartsvc.DefaultSessionKey
}

func writeUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
}
