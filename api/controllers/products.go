package controllers

import (
	"net/http"

	"github.com/angelmondragon/minishop/api/responses"
	"github.com/angelmondragon/minishop/internal/catalog"
	pkgerrors "github.com/angelmondragon/minishop/pkg/errors"
	"github.com/angelmondragon/minishop/pkg/logger"
)

type productLister interface {
	List() []catalog.Product
}

// ProductsList returns the full catalog with its count.
func ProductsList(products productLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		list := products.List()
		responses.WriteList(w, list, len(list))
	}
}
