package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go-pharmacy/models"
)

// CartItem is a cart line as sent by the API. Price and quantity are kept raw
// so that a malformed line does not fail the whole cart.
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	Price     json.RawMessage `json:"price"`
	Quantity  json.RawMessage `json:"quantity"`
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct adds a product to the catalog. Requires an admin session.
func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", p, &created); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

// Cart fetches the user's cart.
func (c *Client) Cart(ctx context.Context, userID string) ([]CartItem, error) {
	var out struct {
		Items []CartItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, userPath("/api/cart/%s", userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// AddToCart adds one unit of productID to the user's cart.
func (c *Client) AddToCart(ctx context.Context, userID, productID string) error {
	return c.do(ctx, http.MethodPost, userPath("/api/cart/%s/add-to-cart", userID),
		models.CartItemRequest{ProductID: productID}, nil)
}

// RemoveFromCart removes productID from the user's cart.
func (c *Client) RemoveFromCart(ctx context.Context, userID, productID string) error {
	return c.do(ctx, http.MethodPost, userPath("/api/cart/%s/remove-from-cart", userID),
		models.CartItemRequest{ProductID: productID}, nil)
}

// UpdateItem sets the quantity of productID in the user's cart.
func (c *Client) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	return c.do(ctx, http.MethodPut, userPath("/api/cart/%s/update-item", userID),
		models.CartItemRequest{ProductID: productID, Quantity: quantity}, nil)
}

// MedicineSuggestions asks for medicine names matching the symptoms.
func (c *Client) MedicineSuggestions(ctx context.Context, symptoms, duration string) ([]string, error) {
	var out models.MedicineSuggestionResponse
	err := c.do(ctx, http.MethodPost, "/api/medicine-suggestions",
		models.MedicineSuggestionRequest{Symptoms: symptoms, Duration: duration}, &out)
	if err != nil {
		return nil, err
	}
	return out.Medicines, nil
}

// CheckSymptoms returns the advisor's suggestion text.
func (c *Client) CheckSymptoms(ctx context.Context, req models.SymptomCheckRequest) (string, error) {
	var out models.SymptomCheckResponse
	if err := c.do(ctx, http.MethodPost, "/api/symptoms/check", req, &out); err != nil {
		return "", err
	}
	return out.Suggestion, nil
}

// Charge submits a payment to the gateway.
func (c *Client) Charge(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
	var out models.PaymentResult
	if err := c.do(ctx, http.MethodPost, "/api/payments", req, &out); err != nil {
		return models.PaymentResult{}, err
	}
	return out, nil
}

// Orders lists the user's past orders.
func (c *Client) Orders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, userPath("/api/orders/%s", userID), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
