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

// Orders stores paid orders.
type Orders struct {
	collection *mongo.Collection
}

// NewOrders returns the orders repository of db.
func NewOrders(db *mongo.Database) *Orders {
	return &Orders{collection: db.Collection(ordersCollection)}
}

// Insert stores order and returns it with its document identifier.
func (o *Orders) Insert(ctx context.Context, order models.Order) (models.Order, error) {
	order.ID = primitive.NewObjectID()
	if _, err := o.collection.InsertOne(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

// ListByUser returns the user's orders, newest first.
func (o *Orders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	cursor, err := o.collection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}
