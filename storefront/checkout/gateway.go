package checkout

import (
	"context"
	"time"

	"go-pharmacy/models"

	"github.com/google/uuid"
)

// Gateway authorizes payments. *api.Client is the production Gateway.
type Gateway interface {
	Charge(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error)
}

// DefaultSimulatedDelay is how long SimulatedGateway takes to approve.
const DefaultSimulatedDelay = 2 * time.Second

// SimulatedGateway approves every payment after a fixed delay. It stands in
// for a payment processor in demos and local runs.
type SimulatedGateway struct {
	Delay time.Duration
}

// Charge waits for the delay and approves req with a fresh order id.
func (g SimulatedGateway) Charge(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
	delay := g.Delay
	if delay <= 0 {
		delay = DefaultSimulatedDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return models.PaymentResult{}, ctx.Err()
	case <-timer.C:
	}

	return models.PaymentResult{
		Status:  models.PaymentApproved,
		OrderID: uuid.NewString(),
		Amount:  req.Amount,
	}, nil
}
