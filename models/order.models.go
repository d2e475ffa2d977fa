package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is written once a payment is approved.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderNumber string             `bson:"order_number" json:"orderId"`
	UserID      string             `bson:"user_id" json:"userId"`
	Items       []CartLine         `bson:"items" json:"items"`
	TotalAmount float64            `bson:"total_amount" json:"totalAmount"`
	Status      string             `bson:"status" json:"status"` // "paid"
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
