// Package web serves the storefront: JSON views of the catalog, the cart,
// checkout and the symptom checker for signed-in shoppers.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-pharmacy/middleware"
	"go-pharmacy/models"
	"go-pharmacy/session"
	"go-pharmacy/storefront/apperr"
	"go-pharmacy/storefront/catalog"
	"go-pharmacy/storefront/checkout"
	"go-pharmacy/storefront/symptoms"
	"go-pharmacy/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// OrderHistory lists a user's past orders.
type OrderHistory interface {
	Orders(ctx context.Context, userID string) ([]models.Order, error)
}

// Options configures a Server.
type Options struct {
	Verifier  session.Verifier
	Catalog   *catalog.Catalog
	Symptoms  *symptoms.Checker
	Shoppers  *Registry
	Orders    OrderHistory
	Logger    *zap.Logger
	SignInURL string
	Timeout   time.Duration
}

// Server is the storefront HTTP handler.
type Server struct {
	verifier  session.Verifier
	catalog   *catalog.Catalog
	symptoms  *symptoms.Checker
	shoppers  *Registry
	orders    OrderHistory
	logger    *zap.Logger
	signInURL string
	timeout   time.Duration
	router    *mux.Router
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	s := &Server{
		verifier:  opts.Verifier,
		catalog:   opts.Catalog,
		symptoms:  opts.Symptoms,
		shoppers:  opts.Shoppers,
		orders:    opts.Orders,
		logger:    opts.Logger,
		signInURL: opts.SignInURL,
		timeout:   opts.Timeout,
		router:    mux.NewRouter(),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.signInURL == "" {
		s.signInURL = "/login"
	}
	if s.timeout <= 0 {
		s.timeout = 10 * time.Second
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.Logging(s.logger), s.attachSession)

	r.HandleFunc("/products", s.products).Methods("GET")
	r.HandleFunc("/categories", s.categories).Methods("GET")
	r.HandleFunc("/symptoms/check", s.checkSymptoms).Methods("POST")
	r.HandleFunc("/medicine-suggestions", s.medicineSuggestions).Methods("POST")

	r.HandleFunc("/cart", s.showCart).Methods("GET")
	r.HandleFunc("/cart/items", s.addItem).Methods("POST")
	r.HandleFunc("/cart/items/{productId}", s.setQuantity).Methods("PUT")
	r.HandleFunc("/cart/items/{productId}", s.removeItem).Methods("DELETE")

	r.HandleFunc("/checkout", s.startCheckout).Methods("POST")
	r.HandleFunc("/checkout", s.showCheckout).Methods("GET")
	r.HandleFunc("/checkout/pay", s.pay).Methods("POST")
	r.HandleFunc("/order-confirmation", s.orderConfirmation).Methods("GET")
	r.HandleFunc("/orders", s.orderHistory).Methods("GET")

	r.HandleFunc("/admin/products", s.createProduct).Methods("POST")
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// attachSession adds the verified session to the request context. Requests
// without a valid token continue anonymously; handlers that need a shopper
// send them to sign in.
func (s *Server) attachSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := session.TokenFromRequest(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			s.logger.Debug("session rejected", zap.String("path", r.URL.Path), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// withTimeout bounds the remote calls made for one request.
func (s *Server) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

// shopper returns the state of the signed-in user.
func (s *Server) shopper(r *http.Request) (*shopper, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return nil, apperr.ErrUnauthenticated
	}
	return s.shoppers.get(sess.UserID), nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("body", "invalid request payload")
	}
	return nil
}

// fail renders err for the shopper.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		switch appErr.Kind {
		case apperr.Unauthenticated:
			http.Redirect(w, r, s.signInURL, http.StatusSeeOther)
		case apperr.ValidationFailure:
			utils.RespondJSON(w, http.StatusBadRequest, map[string]string{"error": appErr.Message, "field": appErr.Field})
		default:
			utils.RespondError(w, http.StatusBadGateway, appErr.Message)
		}
	case errors.Is(err, checkout.ErrDeclined):
		utils.RespondError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, checkout.ErrPaymentInProgress), errors.Is(err, checkout.ErrCheckoutComplete):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		utils.RespondError(w, http.StatusGatewayTimeout, "the pharmacy took too long to answer")
	default:
		s.logger.Error("unhandled storefront error", zap.String("path", r.URL.Path), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "something went wrong")
	}
}
