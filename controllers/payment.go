package controllers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go-pharmacy/models"
	"go-pharmacy/session"
	"go-pharmacy/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PaymentController is the mock payment gateway. Approved payments become orders.
type PaymentController struct {
	Carts     CartStore
	Products  ProductStore
	Orders    OrderStore
	Mailer    Mailer // nil disables confirmation emails
	MaxAmount float64
	Logger    *zap.Logger

	now func() time.Time
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(carts CartStore, products ProductStore, orders OrderStore, mailer Mailer, maxAmount float64, logger *zap.Logger) *PaymentController {
	return &PaymentController{
		Carts:     carts,
		Products:  products,
		Orders:    orders,
		Mailer:    mailer,
		MaxAmount: maxAmount,
		Logger:    logger,
		now:       time.Now,
	}
}

// Charge approves or declines a payment for the user's current cart
func (pc *PaymentController) Charge(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, ok := session.FromContext(r.Context())
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if req.UserID == "" {
		req.UserID = s.UserID
	}
	if req.UserID != s.UserID && !s.IsAdmin() {
		utils.RespondError(w, http.StatusForbidden, "Forbidden")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	cart, err := pc.Carts.Get(ctx, req.UserID)
	if err != nil {
		pc.Logger.Error("get cart for payment", zap.String("user_id", req.UserID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to read cart")
		return
	}

	if reason := pc.declineReason(req, cart); reason != "" {
		pc.Logger.Info("payment declined", zap.String("user_id", req.UserID), zap.Float64("amount", req.Amount), zap.String("reason", reason))
		utils.RespondJSON(w, http.StatusOK, models.PaymentResult{Status: models.PaymentDeclined, Amount: req.Amount, Reason: reason})
		return
	}

	lines, err := pc.orderLines(r, cart)
	if err != nil {
		pc.Logger.Error("load order products", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	order, err := pc.Orders.Insert(ctx, models.Order{
		OrderNumber: uuid.NewString(),
		UserID:      req.UserID,
		Items:       lines,
		TotalAmount: math.Round(req.Amount*100) / 100,
		Status:      "paid",
		CreatedAt:   pc.now().UTC(),
	})
	if err != nil {
		pc.Logger.Error("insert order", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	if err := pc.Carts.Clear(ctx, req.UserID); err != nil {
		pc.Logger.Error("clear cart", zap.String("user_id", req.UserID), zap.Error(err))
	}

	email := req.Email
	if email == "" {
		email = s.Email
	}
	if pc.Mailer != nil && email != "" {
		go func(email string, order models.Order) {
			if err := pc.Mailer.SendOrderConfirmation(email, order); err != nil {
				pc.Logger.Warn("order confirmation email failed", zap.String("order_id", order.OrderNumber), zap.Error(err))
			}
		}(email, order)
	}

	pc.Logger.Info("payment approved", zap.String("order_id", order.OrderNumber), zap.Float64("amount", order.TotalAmount))
	utils.RespondJSON(w, http.StatusOK, models.PaymentResult{
		Status:  models.PaymentApproved,
		OrderID: order.OrderNumber,
		Amount:  order.TotalAmount,
	})
}

func (pc *PaymentController) declineReason(req models.PaymentRequest, cart models.Cart) string {
	switch {
	case len(cart.Items) == 0:
		return "cart is empty"
	case req.Amount <= 0:
		return "amount must be positive"
	case pc.MaxAmount > 0 && req.Amount > pc.MaxAmount:
		return fmt.Sprintf("amount exceeds the limit of %.2f", pc.MaxAmount)
	}
	return ""
}

func (pc *PaymentController) orderLines(r *http.Request, cart models.Cart) ([]models.CartLine, error) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := pc.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := products[item.ProductID]
		lines = append(lines, models.CartLine{
			ProductID: item.ProductID.Hex(),
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  item.Quantity,
		})
	}
	return lines, nil
}
