package models

const (
	PaymentApproved = "approved"
	PaymentDeclined = "declined"
)

// PaymentRequest asks the mock gateway to charge a user's cart.
type PaymentRequest struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	Email  string  `json:"email,omitempty"`
}

// PaymentResult is the gateway's decision.
type PaymentResult struct {
	Status  string  `json:"status"` // "approved" or "declined"
	OrderID string  `json:"orderId,omitempty"`
	Amount  float64 `json:"amount"`
	Reason  string  `json:"reason,omitempty"`
}
