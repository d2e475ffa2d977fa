package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-pharmacy/models"
	"go-pharmacy/session"
	"go-pharmacy/storefront/apperr"
	"go-pharmacy/storefront/cart"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// State is the stage of a checkout.
type State int

const (
	Idle State = iota
	Processing
	Success
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Processing:
		return "processing"
	case Success:
		return "success"
	}
	return "unknown"
}

var (
	// ErrDeclined is returned when the gateway refuses the payment. The
	// returned error wraps it together with the gateway's reason.
	ErrDeclined = errors.New("payment declined")
	// ErrPaymentInProgress is returned by Pay while a payment is pending.
	ErrPaymentInProgress = errors.New("payment already in progress")
	// ErrCheckoutComplete is returned by Pay once the checkout succeeded.
	ErrCheckoutComplete = errors.New("checkout already completed")
)

// Cart is what a checkout reads from the shopper's cart.
type Cart interface {
	Owner() string
	Lines() []cart.Line
}

// Confirmation identifies a paid order.
type Confirmation struct {
	OrderID string          `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
}

// Flow is a single checkout: idle until the shopper pays, processing while
// the gateway decides, success once approved. A failed payment returns the
// flow to idle. A successful flow cannot be paid again; start a new one.
type Flow struct {
	cart    Cart
	gateway Gateway
	logger  *zap.Logger

	mu           sync.Mutex
	state        State
	snapshot     *Summary
	confirmation *Confirmation
}

// NewFlow starts an idle checkout of c.
func NewFlow(c Cart, gateway Gateway, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		cart:    c,
		gateway: gateway,
		logger:  logger.With(zap.String("user_id", c.Owner())),
	}
}

// State returns the current stage.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Summary prices the cart as it is now, or returns the frozen snapshot once
// payment has started.
func (f *Flow) Summary() Summary {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshot != nil {
		return *f.snapshot
	}
	return Summarize(f.cart.Lines())
}

// Snapshot returns the summary frozen when payment started.
func (f *Flow) Snapshot() (Summary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshot == nil {
		return Summary{}, false
	}
	return *f.snapshot, true
}

// Confirmation returns the order of a successful checkout.
func (f *Flow) Confirmation() (Confirmation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirmation == nil {
		return Confirmation{}, false
	}
	return *f.confirmation, true
}

// Pay freezes the summary and charges its total through the gateway.
func (f *Flow) Pay(ctx context.Context) (Confirmation, error) {
	sess, ok := session.FromContext(ctx)
	if !ok || sess.UserID != f.cart.Owner() {
		return Confirmation{}, apperr.ErrUnauthenticated
	}

	f.mu.Lock()
	switch f.state {
	case Processing:
		f.mu.Unlock()
		return Confirmation{}, ErrPaymentInProgress
	case Success:
		f.mu.Unlock()
		return Confirmation{}, ErrCheckoutComplete
	}
	lines := f.cart.Lines()
	if len(lines) == 0 {
		f.mu.Unlock()
		return Confirmation{}, apperr.Invalid("cart", "your cart is empty")
	}
	summary := Summarize(lines)
	f.snapshot = &summary
	f.state = Processing
	f.mu.Unlock()

	f.logger.Info("payment started", zap.String("total", summary.Total.StringFixed(2)))
	res, err := f.gateway.Charge(ctx, models.PaymentRequest{
		UserID: sess.UserID,
		Amount: summary.Total.InexactFloat64(),
		Email:  sess.Email,
	})

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.reset()
		f.logger.Warn("payment failed", zap.Error(err))
		if apperr.KindOf(err) != 0 {
			return Confirmation{}, err
		}
		return Confirmation{}, apperr.Wrap(apperr.NetworkFailure, "payment could not be completed", err)
	}

	switch res.Status {
	case models.PaymentApproved:
		conf := Confirmation{OrderID: res.OrderID, Amount: summary.Total}
		f.confirmation = &conf
		f.state = Success
		f.logger.Info("payment approved", zap.String("order_id", res.OrderID))
		return conf, nil
	case models.PaymentDeclined:
		f.reset()
		f.logger.Info("payment declined", zap.String("reason", res.Reason))
		return Confirmation{}, fmt.Errorf("%w: %s", ErrDeclined, res.Reason)
	default:
		f.reset()
		return Confirmation{}, apperr.New(apperr.MalformedResponse, fmt.Sprintf("unknown payment status %q", res.Status))
	}
}

// reset returns to idle. Callers hold f.mu.
func (f *Flow) reset() {
	f.state = Idle
	f.snapshot = nil
}
