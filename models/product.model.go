package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Salt is the active ingredient, UsedFor the indication.
type Product struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	ImageURL string             `bson:"image_url" json:"imageUrl"`
	Stock    int                `bson:"stock" json:"stock"`
	Category string             `bson:"category" json:"category"`
	Salt     string             `bson:"salt" json:"salt"`
	UsedFor  string             `bson:"used_for" json:"usedFor"`
}
