// Package catalog lists, searches and groups the pharmacy's products, and
// validates new products entered by administrators.
package catalog

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go-pharmacy/models"
	"go-pharmacy/storefront/apperr"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OtherCategory groups products without a category.
const OtherCategory = "Other"

// Source is the part of the pharmacy API the catalog reads and writes.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
}

// Catalog serves product listings.
type Catalog struct {
	source Source
	logger *zap.Logger
}

// New returns a Catalog over source.
func New(source Source, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{source: source, logger: logger}
}

// Category is a named group of products.
type Category struct {
	Name     string           `json:"name"`
	Products []models.Product `json:"products"`
}

// List returns the products whose name contains any word of query, ignoring
// case. An empty query returns every product.
func (c *Catalog) List(ctx context.Context, query string) ([]models.Product, error) {
	products, err := c.source.Products(ctx)
	if err != nil {
		c.logger.Warn("list products failed", zap.Error(err))
		return nil, err
	}
	return Filter(products, query), nil
}

// Filter keeps the products matching query, as List does.
func Filter(products []models.Product, query string) []models.Product {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		name := strings.ToLower(p.Name)
		for _, w := range words {
			if strings.Contains(name, w) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Categories groups the catalog by category, sorted by category name.
func (c *Catalog) Categories(ctx context.Context) ([]Category, error) {
	products, err := c.source.Products(ctx)
	if err != nil {
		c.logger.Warn("list products failed", zap.Error(err))
		return nil, err
	}
	return Group(products), nil
}

// Group buckets products by category. Products keep their relative order.
func Group(products []models.Product) []Category {
	index := map[string]int{}
	var groups []Category
	for _, p := range products {
		name := strings.TrimSpace(p.Category)
		if name == "" {
			name = OtherCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Category{Name: name})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// ProductForm is a new product as typed by an administrator.
type ProductForm struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl"`
	Stock    string `json:"stock"`
	Salt     string `json:"salt"`
	UsedFor  string `json:"usedFor"`
	Category string `json:"category"`
}

// Validate checks that every field is filled in and that price and stock
// are non-negative numbers.
func (f ProductForm) Validate() (models.Product, error) {
	fields := []struct{ name, value string }{
		{"name", f.Name},
		{"price", f.Price},
		{"imageUrl", f.ImageURL},
		{"stock", f.Stock},
		{"salt", f.Salt},
		{"usedFor", f.UsedFor},
		{"category", f.Category},
	}
	for _, fld := range fields {
		if strings.TrimSpace(fld.value) == "" {
			return models.Product{}, apperr.Invalid(fld.name, fld.name+" is required")
		}
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.IsNegative() {
		return models.Product{}, apperr.Invalid("price", "price must be a non-negative number")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil || stock < 0 {
		return models.Product{}, apperr.Invalid("stock", "stock must be a non-negative whole number")
	}

	return models.Product{
		Name:     strings.TrimSpace(f.Name),
		Price:    price.Round(2).InexactFloat64(),
		ImageURL: strings.TrimSpace(f.ImageURL),
		Stock:    stock,
		Salt:     strings.TrimSpace(f.Salt),
		UsedFor:  strings.TrimSpace(f.UsedFor),
		Category: strings.TrimSpace(f.Category),
	}, nil
}

// CreateProduct validates form and adds the product to the catalog.
func (c *Catalog) CreateProduct(ctx context.Context, form ProductForm) (models.Product, error) {
	p, err := form.Validate()
	if err != nil {
		return models.Product{}, err
	}
	created, err := c.source.CreateProduct(ctx, p)
	if err != nil {
		c.logger.Warn("create product failed", zap.String("name", p.Name), zap.Error(err))
		return models.Product{}, err
	}
	c.logger.Info("product created", zap.String("name", created.Name))
	return created, nil
}
