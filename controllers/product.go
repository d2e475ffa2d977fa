package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go-pharmacy/models"
	"go-pharmacy/utils"

	"go.uber.org/zap"
)

// ProductController handles product-related requests
type ProductController struct {
	Products ProductStore
	Logger   *zap.Logger
}

// NewProductController creates a new ProductController
func NewProductController(products ProductStore, logger *zap.Logger) *ProductController {
	return &ProductController{Products: products, Logger: logger}
}

// GetProducts retrieves all products
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	products, err := pc.Products.List(ctx)
	if err != nil {
		pc.Logger.Error("list products", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	utils.RespondJSON(w, http.StatusOK, products)
}

// CreateProduct handles adding a new product (Admin only)
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)

	switch {
	case product.Name == "":
		utils.RespondError(w, http.StatusBadRequest, "name is required")
		return
	case product.Price < 0:
		utils.RespondError(w, http.StatusBadRequest, "price must not be negative")
		return
	case product.Stock < 0:
		utils.RespondError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	created, err := pc.Products.Create(ctx, product)
	if err != nil {
		pc.Logger.Error("create product", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	pc.Logger.Info("product created", zap.String("id", created.ID.Hex()), zap.String("name", created.Name))
	utils.RespondJSON(w, http.StatusCreated, created)
}
