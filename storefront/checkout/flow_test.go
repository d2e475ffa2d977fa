package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-pharmacy/models"
	"go-pharmacy/session"
	"go-pharmacy/storefront/apperr"
	"go-pharmacy/storefront/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCart struct {
	owner string
	lines []cart.Line
}

func (c *staticCart) Owner() string      { return c.owner }
func (c *staticCart) Lines() []cart.Line { return append([]cart.Line(nil), c.lines...) }

type gatewayFunc func(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error)

func (f gatewayFunc) Charge(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
	return f(ctx, req)
}

func approve(orderID string) gatewayFunc {
	return func(_ context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
		return models.PaymentResult{Status: models.PaymentApproved, OrderID: orderID, Amount: req.Amount}, nil
	}
}

func shopper(userID string) context.Context {
	return session.NewContext(context.Background(), session.Session{UserID: userID, Email: userID + "@example.com", Token: "t"})
}

func TestFlow_PayApproved(t *testing.T) {
	var got models.PaymentRequest
	gw := gatewayFunc(func(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
		got = req
		return approve("order-1")(ctx, req)
	})
	c := &staticCart{owner: "u1", lines: []cart.Line{line("a", "10.00", 2), line("b", "5.00", 1)}}
	f := NewFlow(c, gw, nil)
	assert.Equal(t, Idle, f.State())

	conf, err := f.Pay(shopper("u1"))
	require.NoError(t, err)

	assert.Equal(t, "order-1", conf.OrderID)
	assert.Equal(t, "31.99", conf.Amount.StringFixed(2))
	assert.Equal(t, Success, f.State())
	assert.Equal(t, models.PaymentRequest{UserID: "u1", Amount: 31.99, Email: "u1@example.com"}, got)

	stored, ok := f.Confirmation()
	require.True(t, ok)
	assert.Equal(t, conf, stored)

	_, err = f.Pay(shopper("u1"))
	assert.ErrorIs(t, err, ErrCheckoutComplete)
}

func TestFlow_SnapshotIsFrozen(t *testing.T) {
	c := &staticCart{owner: "u1", lines: []cart.Line{line("a", "60.00", 1)}}
	f := NewFlow(c, approve("o"), nil)

	_, ok := f.Snapshot()
	assert.False(t, ok)
	assert.Equal(t, "64.80", f.Summary().Display().Total)

	_, err := f.Pay(shopper("u1"))
	require.NoError(t, err)

	c.lines = append(c.lines, line("b", "100.00", 1))
	snap, ok := f.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "64.80", snap.Display().Total)
	assert.Equal(t, "64.80", f.Summary().Display().Total)
}

func TestFlow_DeclineReturnsToIdle(t *testing.T) {
	gw := gatewayFunc(func(context.Context, models.PaymentRequest) (models.PaymentResult, error) {
		return models.PaymentResult{Status: models.PaymentDeclined, Reason: "insufficient funds"}, nil
	})
	f := NewFlow(&staticCart{owner: "u1", lines: []cart.Line{line("a", "1", 1)}}, gw, nil)

	_, err := f.Pay(shopper("u1"))
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.Equal(t, Idle, f.State())
	_, ok := f.Snapshot()
	assert.False(t, ok)
	_, ok = f.Confirmation()
	assert.False(t, ok)
}

func TestFlow_GatewayErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{"plain error becomes network failure", errors.New("dial tcp: refused"), apperr.NetworkFailure},
		{"classified error is kept", apperr.ErrUnauthenticated, apperr.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := gatewayFunc(func(context.Context, models.PaymentRequest) (models.PaymentResult, error) {
				return models.PaymentResult{}, tt.err
			})
			f := NewFlow(&staticCart{owner: "u1", lines: []cart.Line{line("a", "1", 1)}}, gw, nil)

			_, err := f.Pay(shopper("u1"))
			assert.True(t, apperr.Is(err, tt.kind))
			assert.Equal(t, Idle, f.State())
		})
	}
}

func TestFlow_UnknownStatus(t *testing.T) {
	gw := gatewayFunc(func(context.Context, models.PaymentRequest) (models.PaymentResult, error) {
		return models.PaymentResult{Status: "pending"}, nil
	})
	f := NewFlow(&staticCart{owner: "u1", lines: []cart.Line{line("a", "1", 1)}}, gw, nil)

	_, err := f.Pay(shopper("u1"))
	assert.True(t, apperr.Is(err, apperr.MalformedResponse))
	assert.Equal(t, Idle, f.State())
}

func TestFlow_EmptyCart(t *testing.T) {
	called := false
	gw := gatewayFunc(func(context.Context, models.PaymentRequest) (models.PaymentResult, error) {
		called = true
		return models.PaymentResult{}, nil
	})
	f := NewFlow(&staticCart{owner: "u1"}, gw, nil)

	_, err := f.Pay(shopper("u1"))
	assert.True(t, apperr.Is(err, apperr.ValidationFailure))
	assert.False(t, called)
	assert.Equal(t, Idle, f.State())
}

func TestFlow_RequiresOwnerSession(t *testing.T) {
	f := NewFlow(&staticCart{owner: "u1", lines: []cart.Line{line("a", "1", 1)}}, approve("o"), nil)

	_, err := f.Pay(context.Background())
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
	_, err = f.Pay(shopper("u2"))
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
	assert.Equal(t, Idle, f.State())
}

func TestFlow_PayWhileProcessing(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gw := gatewayFunc(func(ctx context.Context, req models.PaymentRequest) (models.PaymentResult, error) {
		close(entered)
		<-release
		return approve("o")(ctx, req)
	})
	f := NewFlow(&staticCart{owner: "u1", lines: []cart.Line{line("a", "1", 1)}}, gw, nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.Pay(shopper("u1"))
		done <- err
	}()
	<-entered

	assert.Equal(t, Processing, f.State())
	_, err := f.Pay(shopper("u1"))
	assert.ErrorIs(t, err, ErrPaymentInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Success, f.State())
}

func TestSimulatedGateway(t *testing.T) {
	g := SimulatedGateway{Delay: time.Millisecond}
	res, err := g.Charge(context.Background(), models.PaymentRequest{UserID: "u1", Amount: 12.5})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentApproved, res.Status)
	assert.Equal(t, 12.5, res.Amount)
	assert.NotEmpty(t, res.OrderID)

	other, err := g.Charge(context.Background(), models.PaymentRequest{UserID: "u1", Amount: 1})
	require.NoError(t, err)
	assert.NotEqual(t, res.OrderID, other.OrderID)
}

func TestSimulatedGateway_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SimulatedGateway{Delay: time.Hour}.Charge(ctx, models.PaymentRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
