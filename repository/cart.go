package repository

import (
	"context"
	"fmt"
	"go-pharmacy/models"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Carts keeps one cart document per user.
type Carts struct {
	collection *mongo.Collection
}

// NewCarts returns the carts repository of db.
func NewCarts(db *mongo.Database) *Carts {
	return &Carts{collection: db.Collection(cartsCollection)}
}

// Get returns the user's cart. A user without a cart gets an empty one.
func (c *Carts) Get(ctx context.Context, userID string) (models.Cart, error) {
	var cart models.Cart
	err := c.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if notFound(err) == ErrNotFound {
			return models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return models.Cart{}, fmt.Errorf("find cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// SaveItems replaces the items of the user's cart, creating the cart if needed.
func (c *Carts) SaveItems(ctx context.Context, userID string, items []models.CartItem) error {
	_, err := c.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": items, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// Clear deletes the user's cart.
func (c *Carts) Clear(ctx context.Context, userID string) error {
	if _, err := c.collection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
