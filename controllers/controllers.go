package controllers

import (
	"context"
	"net/http"
	"time"

	"go-pharmacy/models"
	"go-pharmacy/session"
	"go-pharmacy/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dbTimeout = 5 * time.Second

// ProductStore is the catalog storage used by the controllers.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// CartStore is the per-user cart storage.
type CartStore interface {
	Get(ctx context.Context, userID string) (models.Cart, error)
	SaveItems(ctx context.Context, userID string, items []models.CartItem) error
	Clear(ctx context.Context, userID string) error
}

// OrderStore records paid orders.
type OrderStore interface {
	Insert(ctx context.Context, order models.Order) (models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// Mailer sends order confirmations.
type Mailer interface {
	SendOrderConfirmation(toEmail string, order models.Order) error
}

// Advisor answers free-text prompts.
type Advisor interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// authorizeUser returns the {userId} path variable if the session may act on it.
func authorizeUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		userID = s.UserID
	}
	if userID != s.UserID && !s.IsAdmin() {
		utils.RespondError(w, http.StatusForbidden, "Forbidden")
		return "", false
	}
	return userID, true
}

func withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), dbTimeout)
}
