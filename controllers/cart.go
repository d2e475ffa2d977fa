package controllers

import (
	"encoding/json"
	"net/http"

	"go-pharmacy/models"
	"go-pharmacy/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CartController handles cart-related requests
type CartController struct {
	Carts    CartStore
	Products ProductStore
	Logger   *zap.Logger
}

// NewCartController creates a new CartController
func NewCartController(carts CartStore, products ProductStore, logger *zap.Logger) *CartController {
	return &CartController{Carts: carts, Products: products, Logger: logger}
}

// GetCart retrieves the user's cart joined with product details
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	cart, err := cc.Carts.Get(ctx, userID)
	if err != nil {
		cc.Logger.Error("get cart", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error fetching cart")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := cc.Products.FindByIDs(ctx, ids)
	if err != nil {
		cc.Logger.Error("get cart products", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error fetching cart")
		return
	}

	view := models.CartView{Items: make([]models.CartLine, 0, len(cart.Items))}
	for _, item := range cart.Items {
		product, found := products[item.ProductID]
		if !found {
			cc.Logger.Warn("cart references missing product",
				zap.String("user_id", userID), zap.String("product_id", item.ProductID.Hex()))
			continue
		}
		view.Items = append(view.Items, models.CartLine{
			ProductID: product.ID.Hex(),
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  item.Quantity,
		})
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// AddToCart adds one unit of a product to the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, productID, _, ok := cc.decodeItem(w, r)
	if !ok {
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	exists, err := cc.Products.Exists(ctx, productID)
	if err != nil {
		cc.Logger.Error("check product", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error updating cart")
		return
	}
	if !exists {
		utils.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}

	cart, err := cc.Carts.Get(ctx, userID)
	if err != nil {
		cc.Logger.Error("get cart", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error updating cart")
		return
	}

	updated := false
	for i, existingItem := range cart.Items {
		if existingItem.ProductID == productID {
			cart.Items[i].Quantity++
			updated = true
			break
		}
	}
	if !updated {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: 1})
	}

	if !cc.save(w, r, userID, cart.Items) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item added to cart"})
}

// RemoveFromCart removes a product from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, productID, _, ok := cc.decodeItem(w, r)
	if !ok {
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	cart, err := cc.Carts.Get(ctx, userID)
	if err != nil {
		cc.Logger.Error("get cart", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error updating cart")
		return
	}

	updatedItems := []models.CartItem{}
	for _, item := range cart.Items {
		if item.ProductID != productID {
			updatedItems = append(updatedItems, item)
		}
	}

	if !cc.save(w, r, userID, updatedItems) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

// UpdateItem sets the quantity of a product already in the cart
func (cc *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, productID, req, ok := cc.decodeItem(w, r)
	if !ok {
		return
	}
	if req.Quantity < 1 {
		utils.RespondError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	cart, err := cc.Carts.Get(ctx, userID)
	if err != nil {
		cc.Logger.Error("get cart", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error updating cart")
		return
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		utils.RespondError(w, http.StatusNotFound, "Item not in cart")
		return
	}

	if !cc.save(w, r, userID, cart.Items) {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Cart item updated"})
}

func (cc *CartController) decodeItem(w http.ResponseWriter, r *http.Request) (string, primitive.ObjectID, models.CartItemRequest, bool) {
	var req models.CartItemRequest
	userID, ok := authorizeUser(w, r)
	if !ok {
		return "", primitive.NilObjectID, req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return "", primitive.NilObjectID, req, false
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid product ID")
		return "", primitive.NilObjectID, req, false
	}
	return userID, productID, req, true
}

func (cc *CartController) save(w http.ResponseWriter, r *http.Request, userID string, items []models.CartItem) bool {
	ctx, cancel := withTimeout(r)
	defer cancel()

	if err := cc.Carts.SaveItems(ctx, userID, items); err != nil {
		cc.Logger.Error("save cart", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error updating cart")
		return false
	}
	return true
}
