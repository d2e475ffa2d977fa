// routes/routes.go
package routes

import (
	"net/http"

	"go-pharmacy/controllers"
	"go-pharmacy/middleware"
	"go-pharmacy/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controllers groups the handlers served by the API. Admin may be nil when
// administrator sign-in is handled by the identity provider.
type Controllers struct {
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Payment *controllers.PaymentController
	Order   *controllers.OrderController
	Symptom *controllers.SymptomController
	Admin   *controllers.AdminController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, verifier session.Verifier, logger *zap.Logger, c Controllers) {
	api := router.PathPrefix("/api").Subrouter()
	authed := middleware.Auth(verifier, logger)
	protect := func(h http.HandlerFunc) http.Handler { return authed(h) }
	admin := func(h http.HandlerFunc) http.Handler { return authed(middleware.AdminOnly(h)) }

	// Public routes
	api.HandleFunc("/products", c.Product.GetProducts).Methods("GET")
	api.HandleFunc("/symptoms/check", c.Symptom.Check).Methods("POST")
	api.HandleFunc("/medicine-suggestions", c.Symptom.MedicineSuggestions).Methods("POST")
	if c.Admin != nil {
		api.HandleFunc("/admin/login", c.Admin.Login).Methods("POST")
	}

	// Admin routes
	api.Handle("/products", admin(c.Product.CreateProduct)).Methods("POST")

	// Cart routes
	api.Handle("/cart/{userId}", protect(c.Cart.GetCart)).Methods("GET")
	api.Handle("/cart/{userId}/add-to-cart", protect(c.Cart.AddToCart)).Methods("POST")
	api.Handle("/cart/{userId}/remove-from-cart", protect(c.Cart.RemoveFromCart)).Methods("POST")
	api.Handle("/cart/{userId}/update-item", protect(c.Cart.UpdateItem)).Methods("PUT")

	// Payment and order routes
	api.Handle("/payments", protect(c.Payment.Charge)).Methods("POST")
	api.Handle("/orders/{userId}", protect(c.Order.GetOrders)).Methods("GET")
}
