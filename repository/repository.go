// Package repository stores products, carts and orders in MongoDB.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

const (
	productsCollection = "products"
	cartsCollection    = "carts"
	ordersCollection   = "orders"
)

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
