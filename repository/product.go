package repository

import (
	"context"
	"fmt"
	"go-pharmacy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Products is the MongoDB product catalog.
type Products struct {
	collection *mongo.Collection
}

// NewProducts returns the products repository of db.
func NewProducts(db *mongo.Database) *Products {
	return &Products{collection: db.Collection(productsCollection)}
}

// List returns every product sorted by name.
func (p *Products) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := p.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Create inserts product and returns it with its new identifier.
func (p *Products) Create(ctx context.Context, product models.Product) (models.Product, error) {
	product.ID = primitive.NewObjectID()
	if _, err := p.collection.InsertOne(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return product, nil
}

// FindByIDs returns the products with the given identifiers, keyed by identifier.
func (p *Products) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	found := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	cursor, err := p.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		found[product.ID] = product
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

// Exists reports whether a product with id exists.
func (p *Products) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := p.collection.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if notFound(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
