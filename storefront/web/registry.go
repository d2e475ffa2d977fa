package web

import (
	"sync"

	"go-pharmacy/storefront/cart"
	"go-pharmacy/storefront/checkout"

	"go.uber.org/zap"
)

// shopper is the storefront state of one signed-in user.
type shopper struct {
	store *cart.Store

	mu           sync.Mutex
	flow         *checkout.Flow
	confirmation *checkout.Confirmation
}

// Registry holds the shoppers seen by this storefront, keyed by user id.
type Registry struct {
	remote  cart.Remote
	gateway checkout.Gateway
	logger  *zap.Logger

	mu       sync.Mutex
	shoppers map[string]*shopper
}

// NewRegistry returns an empty registry whose carts persist to remote and
// whose checkouts pay through gateway.
func NewRegistry(remote cart.Remote, gateway checkout.Gateway, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		remote:   remote,
		gateway:  gateway,
		logger:   logger,
		shoppers: make(map[string]*shopper),
	}
}

func (r *Registry) get(userID string) *shopper {
	r.mu.Lock()
	defer r.mu.Unlock()
	sh, ok := r.shoppers[userID]
	if !ok {
		sh = &shopper{store: cart.NewStore(userID, r.remote, cart.WithLogger(r.logger))}
		r.shoppers[userID] = sh
	}
	return sh
}

// checkout returns the current checkout, starting one if there is none.
func (r *Registry) checkout(sh *shopper) *checkout.Flow {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.flow == nil {
		sh.flow = checkout.NewFlow(sh.store, r.gateway, r.logger)
	}
	return sh.flow
}

// restartCheckout replaces the current checkout with a fresh one, unless a
// payment is still being processed.
func (r *Registry) restartCheckout(sh *shopper) (*checkout.Flow, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.flow != nil && sh.flow.State() == checkout.Processing {
		return nil, checkout.ErrPaymentInProgress
	}
	sh.flow = checkout.NewFlow(sh.store, r.gateway, r.logger)
	return sh.flow, nil
}

func (sh *shopper) confirm(c checkout.Confirmation) {
	sh.mu.Lock()
	sh.confirmation = &c
	sh.mu.Unlock()
}

func (sh *shopper) lastConfirmation() (checkout.Confirmation, bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.confirmation == nil {
		return checkout.Confirmation{}, false
	}
	return *sh.confirmation, true
}
