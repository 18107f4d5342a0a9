package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akinleyeOJ/culturer-backend/api/controllers"
	"github.com/akinleyeOJ/culturer-backend/api/middleware"
	"github.com/akinleyeOJ/culturer-backend/internal/appstate"
	"github.com/akinleyeOJ/culturer-backend/internal/cart"
	"github.com/akinleyeOJ/culturer-backend/internal/listings"
	"github.com/akinleyeOJ/culturer-backend/internal/orders"
	product "github.com/akinleyeOJ/culturer-backend/internal/products"
	"github.com/akinleyeOJ/culturer-backend/internal/recent"
	"github.com/akinleyeOJ/culturer-backend/internal/wishlist"
	"github.com/akinleyeOJ/culturer-backend/pkg/config"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Optional map[string]controllers.Pinger

	Products product.Service
	Cart     cart.Service
	Wishlist wishlist.Service
	Recent   recent.Service
	Listings listings.Service
	Orders   orders.Service
	AppState *appstate.Store
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(params.DB, params.Optional, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Browsing works signed out; favorites are marked when a token is
		// present.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/products", controllers.ProductList(params.Products, logg))
			r.Get("/products/{id}", controllers.ProductDetail(params.Products, logg))
			r.Get("/categories", controllers.ProductCategories(params.Products, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(params.Cart, logg))
				r.Post("/items", controllers.CartAddItem(params.Cart, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(params.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(params.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistGet(params.Wishlist, logg))
				r.Post("/toggle", controllers.WishlistToggle(params.Wishlist, logg))
				r.Post("/bulk/delete", controllers.WishlistBulkDelete(params.Wishlist, logg))
				r.Post("/bulk/add-to-cart", controllers.WishlistBulkAddToCart(params.Wishlist, logg))
			})

			r.Get("/recent", controllers.RecentList(params.Recent, logg))
			r.Get("/badges", controllers.Badges(params.AppState, logg))

			r.Route("/listings", func(r chi.Router) {
				r.Post("/", controllers.ListingCreate(params.Listings, logg))
				r.Get("/mine", controllers.ListingMine(params.Listings, logg))
				r.Patch("/{id}", controllers.ListingUpdate(params.Listings, logg))
				r.Post("/{id}/publish", controllers.ListingPublish(params.Listings, logg))
				r.Delete("/{id}", controllers.ListingDelete(params.Listings, logg))
				r.Post("/{id}/images", controllers.ListingUploadImage(params.Listings, logg))
			})

			r.Post("/checkout", controllers.Checkout(params.Orders, logg))
			r.Get("/orders", controllers.OrderList(params.Orders, logg))
			r.Get("/orders/{id}", controllers.OrderDetail(params.Orders, logg))
		})
	})

	return r
}
