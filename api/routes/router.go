package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medimart/medimart-backend/api/controllers"
	"github.com/medimart/medimart-backend/api/middleware"
	adminsvc "github.com/medimart/medimart-backend/internal/admin"
	cartsvc "github.com/medimart/medimart-backend/internal/cart"
	"github.com/medimart/medimart-backend/internal/catalog"
	checkoutsvc "github.com/medimart/medimart-backend/internal/checkout"
	ordersvc "github.com/medimart/medimart-backend/internal/orders"
	wishlistsvc "github.com/medimart/medimart-backend/internal/wishlist"
	"github.com/medimart/medimart-backend/pkg/logger"
	"github.com/medimart/medimart-backend/pkg/metrics"
	"github.com/medimart/medimart-backend/pkg/session"
)

// Deps bundles everything the router needs.
type Deps struct {
	Logger      *logger.Logger
	Sessions    *session.Manager
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	HealthChecks map[string]controllers.Pinger

	Catalog  catalog.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Wishlist wishlistsvc.Service
	Admin    adminsvc.Service

	ExtraCORSOrigins []string
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	logg := deps.Logger

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(deps.ExtraCORSOrigins...),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	r.Get("/health", controllers.Health(logg, deps.HealthChecks))
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(deps.Sessions, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/facets", controllers.GetFacets(deps.Catalog, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Post("/items/{productID}/increase", controllers.IncreaseCartItem(deps.Cart, logg))
			r.Post("/items/{productID}/decrease", controllers.DecreaseCartItem(deps.Cart, logg))
			r.Delete("/items/{productID}", controllers.RemoveCartItem(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			r.Post("/coupon", controllers.ApplyCoupon(deps.Cart, logg))
			r.Delete("/coupon", controllers.RemoveCoupon(deps.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.StartCheckout(deps.Checkout, logg))
			r.Get("/", controllers.GetCheckoutState(deps.Checkout, logg))
			r.Post("/address", controllers.SubmitAddress(deps.Checkout, logg))
			r.Post("/payment-method", controllers.SelectPaymentMethod(deps.Checkout, logg))
			r.Post("/back", controllers.CheckoutBack(deps.Checkout, logg))
			r.Post("/place-order", controllers.PlaceOrder(deps.Checkout, logg))
			r.Delete("/", controllers.AbandonCheckout(deps.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.ListWishlist(deps.Wishlist, logg))
			r.Post("/", controllers.AddWishlistItem(deps.Wishlist, logg))
			r.Delete("/{productID}", controllers.RemoveWishlistItem(deps.Wishlist, logg))
		})

		r.Get("/admin/overview", controllers.AdminOverview(deps.Admin, logg))
	})

	return r
}
