// Package cart keeps a signed-in shopper's cart in memory and mirrors every
// change to the pharmacy API on a best-effort basis.
//
// Quantity changes are applied locally first and reverted when the API
// rejects them. Removals are applied locally and kept even when the API call
// fails. Every failed mutation marks the store stale; the next Load
// reconciles it with the server copy, which is the source of truth.
//
// Each operation takes a token from a monotonic sequence. A Load response is
// applied only when no newer operation changed the cart after it was issued,
// and a quantity revert only applies while its change is still the latest one
// for that line.
package cart

import (
	"context"
	"sync"
	"time"

	"go-pharmacy/session"
	"go-pharmacy/storefront/api"
	"go-pharmacy/storefront/apperr"

	"go.uber.org/zap"
)

// JustAddedFor is how long a product stays marked as just added.
const JustAddedFor = 3 * time.Second

// Remote is the part of the pharmacy API the store persists to.
type Remote interface {
	Cart(ctx context.Context, userID string) ([]api.CartItem, error)
	AddToCart(ctx context.Context, userID, productID string) error
	RemoveFromCart(ctx context.Context, userID, productID string) error
	UpdateItem(ctx context.Context, userID, productID string, quantity int) error
}

// Store is the cart of one user.
type Store struct {
	owner  string
	remote Remote
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	lines     []Line
	seq       uint64            // last issued token
	changed   uint64            // token of the last change applied to lines
	lineSeq   map[string]uint64 // token of the last quantity change per product
	justAdded map[string]time.Time
	stale     bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty cart for owner. It starts stale so that the
// first view loads it.
func NewStore(owner string, remote Remote, opts ...Option) *Store {
	s := &Store{
		owner:     owner,
		remote:    remote,
		logger:    zap.NewNop(),
		now:       time.Now,
		lineSeq:   make(map[string]uint64),
		justAdded: make(map[string]time.Time),
		stale:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("user_id", owner))
	return s
}

// Owner returns the user the cart belongs to.
func (s *Store) Owner() string { return s.owner }

// identify returns the owner if ctx carries the owner's session.
func (s *Store) identify(ctx context.Context) (string, error) {
	sess, ok := session.FromContext(ctx)
	if !ok || sess.UserID != s.owner {
		return "", apperr.ErrUnauthenticated
	}
	return sess.UserID, nil
}

// issue returns the next token. Callers hold s.mu.
func (s *Store) issue() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Load replaces the cart with the server copy. On failure the cart is left
// empty and the error is returned.
func (s *Store) Load(ctx context.Context) error {
	userID, err := s.identify(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	token := s.issue()
	s.mu.Unlock()

	items, err := s.remote.Cart(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.changed > token {
		s.logger.Debug("discarding superseded cart load", zap.Uint64("token", token), zap.Uint64("changed", s.changed))
		return err
	}
	s.changed = token
	s.lineSeq = make(map[string]uint64)

	if err != nil {
		s.lines = nil
		s.stale = true
		s.logger.Warn("cart load failed", zap.Error(err))
		return err
	}

	s.lines = linesFromItems(items)
	s.stale = false
	return nil
}

// Add asks the API to add one unit of productID. The product is marked as
// just added whatever the outcome; the local lines are refreshed by the next
// Load.
func (s *Store) Add(ctx context.Context, productID string) error {
	userID, err := s.identify(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.justAdded[productID] = s.now()
	s.mu.Unlock()

	if err := s.remote.AddToCart(ctx, userID, productID); err != nil {
		s.logger.Warn("add to cart failed", zap.String("product_id", productID), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
	return nil
}

// SetQuantity changes the quantity of a line. Quantities below one are
// ignored. The change is visible at once and reverted if the API rejects it.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	userID, err := s.identify(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return apperr.Invalid("productId", "product is not in the cart")
	}
	token := s.issue()
	previous := s.lines[i].Quantity
	s.lines[i].Quantity = quantity
	s.lineSeq[productID] = token
	s.changed = token
	s.mu.Unlock()

	err = s.remote.UpdateItem(ctx, userID, productID, quantity)
	if err == nil {
		return nil
	}

	s.mu.Lock()
	if s.lineSeq[productID] == token {
		if i := s.indexOf(productID); i >= 0 {
			s.lines[i].Quantity = previous
		}
		delete(s.lineSeq, productID)
	}
	s.stale = true
	s.mu.Unlock()

	s.logger.Warn("quantity update failed, reverted",
		zap.String("product_id", productID), zap.Int("quantity", quantity), zap.Int("restored", previous), zap.Error(err))
	return err
}

// Remove drops a line at once and asks the API to do the same. The local
// removal stands even if the API call fails.
func (s *Store) Remove(ctx context.Context, productID string) error {
	userID, err := s.identify(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	token := s.issue()
	if i := s.indexOf(productID); i >= 0 {
		s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
	}
	delete(s.lineSeq, productID)
	s.changed = token
	s.mu.Unlock()

	if err := s.remote.RemoveFromCart(ctx, userID, productID); err != nil {
		s.mu.Lock()
		s.stale = true
		s.mu.Unlock()
		s.logger.Warn("remove from cart failed", zap.String("product_id", productID), zap.Error(err))
		return err
	}
	return nil
}

// Invalidate marks the cart stale, for changes made on the server by other
// operations such as a completed payment.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// Stale reports whether the cart should be reloaded before it is shown.
func (s *Store) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// JustAdded reports whether productID was added less than JustAddedFor ago.
func (s *Store) JustAdded(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, at := range s.justAdded {
		if now.Sub(at) >= JustAddedFor {
			delete(s.justAdded, id)
		}
	}
	_, ok := s.justAdded[productID]
	return ok
}
