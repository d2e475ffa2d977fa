package controllers

import (
	"net/http"

	"go-pharmacy/utils"

	"go.uber.org/zap"
)

// OrderController serves the order history
type OrderController struct {
	Orders OrderStore
	Logger *zap.Logger
}

// NewOrderController creates a new OrderController
func NewOrderController(orders OrderStore, logger *zap.Logger) *OrderController {
	return &OrderController{Orders: orders, Logger: logger}
}

// GetOrders retrieves all orders for the user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	orders, err := oc.Orders.ListByUser(ctx, userID)
	if err != nil {
		oc.Logger.Error("list orders", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, orders)
}
