package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/minishop/api/controllers"
	cartcontrollers "github.com/angelmondragon/minishop/api/controllers/cart"
	"github.com/angelmondragon/minishop/api/middleware"
	"github.com/angelmondragon/minishop/api/responses"
	"github.com/angelmondragon/minishop/internal/cart"
	"github.com/angelmondragon/minishop/internal/catalog"
	checkoutsvc "github.com/angelmondragon/minishop/internal/checkout"
	"github.com/angelmondragon/minishop/pkg/config"
	pkgerrors "github.com/angelmondragon/minishop/pkg/errors"
	"github.com/angelmondragon/minishop/pkg/logger"
	"github.com/angelmondragon/minishop/pkg/redis"
)

// Params carry the dependencies the router wires into controllers. Idempotency,
// Redis and Metrics are optional.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	Catalog     *catalog.Catalog
	Carts       cart.Service
	Checkout    checkoutsvc.Service
	Idempotency redis.IdempotencyStore
	Redis       redis.Pinger
	Metrics     http.Handler
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSOrigins),
		middleware.Session(cfg.Cart.DefaultSession, logg),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.Redis, logg))
	})
	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(p.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(p.Carts, logg))
			r.Post("/", cartcontrollers.CartAddItem(p.Carts, logg))
			r.Delete("/", cartcontrollers.CartClear(p.Carts, logg))
			r.Delete("/{productId}", cartcontrollers.CartRemoveItem(p.Carts, logg))
			r.Patch("/{productId}", cartcontrollers.CartUpdateQuantity(p.Carts, logg))
		})

		r.With(middleware.Idempotency(p.Idempotency, logg)).
			Post("/checkout", controllers.Checkout(p.Checkout, logg))
	})

	return r
}
