package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-pharmacy/session"
	"go-pharmacy/storefront/api"
	"go-pharmacy/storefront/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemote = apperr.Wrap(apperr.NetworkFailure, "remote down", errors.New("connection refused"))

type fakeRemote struct {
	mu      sync.Mutex
	items   []api.CartItem
	calls   []string
	loadErr error
	addErr  error
	rmErr   error
	updErr  error

	// beforeUpdate, when set, runs inside UpdateItem before it returns.
	beforeUpdate func()
	// loadGate, when set, is waited on by Cart before it answers.
	loadGate chan struct{}
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) Cart(ctx context.Context, userID string) ([]api.CartItem, error) {
	f.record("cart " + userID)
	if f.loadGate != nil {
		<-f.loadGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.CartItem(nil), f.items...), f.loadErr
}

func (f *fakeRemote) AddToCart(ctx context.Context, userID, productID string) error {
	f.record("add " + productID)
	return f.addErr
}

func (f *fakeRemote) RemoveFromCart(ctx context.Context, userID, productID string) error {
	f.record("remove " + productID)
	return f.rmErr
}

func (f *fakeRemote) UpdateItem(ctx context.Context, userID, productID string, quantity int) error {
	f.record("update " + productID)
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	return f.updErr
}

func item(id, price, qty string) api.CartItem {
	it := api.CartItem{ProductID: id, Name: "Product " + id}
	if price != "" {
		it.Price = json.RawMessage(price)
	}
	if qty != "" {
		it.Quantity = json.RawMessage(qty)
	}
	return it
}

func signedIn(userID string) context.Context {
	return session.NewContext(context.Background(), session.Session{UserID: userID, Token: "t"})
}

func loadedStore(t *testing.T, remote *fakeRemote) *Store {
	t.Helper()
	s := NewStore("u1", remote)
	require.NoError(t, s.Load(signedIn("u1")))
	return s
}

func quantities(lines []Line) map[string]int {
	out := map[string]int{}
	for _, l := range lines {
		out[l.ProductID] = l.Quantity
	}
	return out
}

func TestStore_Load(t *testing.T) {
	remote := &fakeRemote{items: []api.CartItem{
		item("a", "10.00", "2"),
		item("b", `"5"`, ""),
		item("c", "1.5", "0"),
		item("d", `"n/a"`, "1"),
		item("e", "3", `"lots"`),
	}}
	s := NewStore("u1", remote)
	assert.True(t, s.Stale())

	require.NoError(t, s.Load(signedIn("u1")))

	lines := s.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, []string{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID, lines[3].ProductID, lines[4].ProductID})
	assert.Equal(t, map[string]int{"a": 2, "b": 1, "c": 1, "d": 1, "e": 0}, quantities(lines))
	assert.True(t, lines[1].Price.Valid)
	assert.False(t, lines[3].Price.Valid)
	assert.True(t, lines[3].Malformed())
	assert.True(t, lines[4].Malformed())
	assert.False(t, s.Stale())
}

func TestStore_LoadFailureEmptiesCart(t *testing.T) {
	remote := &fakeRemote{items: []api.CartItem{item("a", "1", "1")}}
	s := loadedStore(t, remote)

	remote.loadErr = errRemote
	err := s.Load(signedIn("u1"))
	assert.True(t, apperr.Is(err, apperr.NetworkFailure))
	assert.Empty(t, s.Lines())
	assert.True(t, s.Stale())
}

func TestStore_UnauthenticatedMakesNoRemoteCall(t *testing.T) {
	remote := &fakeRemote{}
	s := NewStore("u1", remote)

	for name, ctx := range map[string]context.Context{
		"no session":    context.Background(),
		"other user":    signedIn("u2"),
		"empty user id": session.NewContext(context.Background(), session.Session{Token: "t"}),
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, apperr.Is(s.Load(ctx), apperr.Unauthenticated))
			assert.True(t, apperr.Is(s.Add(ctx, "a"), apperr.Unauthenticated))
			assert.True(t, apperr.Is(s.SetQuantity(ctx, "a", 2), apperr.Unauthenticated))
			assert.True(t, apperr.Is(s.Remove(ctx, "a"), apperr.Unauthenticated))
		})
	}
	assert.Empty(t, remote.Calls())
	assert.False(t, s.JustAdded("a"))
}

func TestStore_SetQuantityRejectsBelowOne(t *testing.T) {
	remote := &fakeRemote{items: []api.CartItem{item("a", "1", "2")}}
	s := loadedStore(t, remote)

	for _, q := range []int{0, -1, -100} {
		require.NoError(t, s.SetQuantity(signedIn("u1"), "a", q))
	}
	assert.Equal(t, 2, s.Lines()[0].Quantity)
	assert.Equal(t, []string{"cart u1"}, remote.Calls())
}

func TestStore_SetQuantityOptimistic(t *testing.T) {
	remote := &fakeRemote{items: []api.CartItem{item("a", "1", "1")}}
	s := loadedStore(t, remote)

	var during int
	remote.beforeUpdate = func() { during = s.Lines()[0].Quantity }

	require.NoError(t, s.SetQuantity(signedIn("u1"), "a", 3))
	assert.Equal(t, 3, during, "visible before the remote call settles")
	assert.Equal(t, 3, s.Lines()[0].Quantity)
	assert.False(t, s.Stale())
}

func TestStore_SetQuantityRevertsOnFailure(t *testing.T) {
	remote := &fakeRemote{items: []api.CartItem{item("a", "1", "1"), item("b", "2", "5")}, updErr: errRemote}
	s := loadedStore(t, remote)

	err := s.SetQuantity(signedIn("u1"), "a", 3)
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, map[string]int{"a": 1, "b": 5}, quantities(s.Lines()))
	assert.True(t, s.Stale())
}

func TestStore_SetQuantityUnknownLine(t *testing.T) {
	s := loadedStore(t, &fakeRemote{})
	err := s.SetQuantity(signedIn("u1"), "zzz", 2)
	assert.True(t, apperr.Is(err, apperr.ValidationFailure))
}

func TestStore_RevertSkipsWhenNewerChangeExists(t *testing.T) {
	remote := &fakeRemote{items: []api.CartItem{item("a", "1", "1")}}
	s := loadedStore(t, remote)
	ctx := signedIn("u1")

	// The first update fails only after a second update to the same line
	// has been applied; its revert must not undo the newer value.
	first := true
	remote.beforeUpdate = func() {
		if first {
			first = false
			remote.updErr = nil
			require.NoError(t, s.SetQuantity(ctx, "a", 4))
			remote.updErr = errRemote
		}
	}
	remote.updErr = errRemote

	err := s.SetQuantity(ctx, "a", 3)
	assert.Error(t, err)
	assert.Equal(t, 4, s.Lines()[0].Quantity)
}

func TestStore_RemoveIsNotReverted(t *testing.T) {
	remote := &fakeRemote{items: []api.CartItem{item("a", "1", "1"), item("b", "1", "1")}, rmErr: errRemote}
	s := loadedStore(t, remote)

	err := s.Remove(signedIn("u1"), "a")
	assert.ErrorIs(t, err, errRemote)
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "b", lines[0].ProductID)
	assert.True(t, s.Stale())

	remote.rmErr = nil
	require.NoError(t, s.Remove(signedIn("u1"), "b"))
	assert.Empty(t, s.Lines())
}

func TestStore_StaleLoadIsDiscarded(t *testing.T) {
	remote := &fakeRemote{items: []api.CartItem{item("a", "1", "1"), item("b", "1", "1")}}
	s := loadedStore(t, remote)
	ctx := signedIn("u1")

	remote.loadGate = make(chan struct{})
	done := make(chan error)
	go func() { done <- s.Load(ctx) }()

	// Wait for the load to be in flight, then remove a line.
	require.Eventually(t, func() bool { return len(remote.Calls()) == 2 }, time.Second, time.Millisecond)
	require.NoError(t, s.Remove(ctx, "a"))
	close(remote.loadGate)
	require.NoError(t, <-done)

	lines := s.Lines()
	require.Len(t, lines, 1, "the older load must not resurrect the removed line")
	assert.Equal(t, "b", lines[0].ProductID)
}

func TestStore_AddMarksJustAdded(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	remote := &fakeRemote{addErr: errRemote}
	s := NewStore("u1", remote, WithClock(func() time.Time { return now }))
	require.NoError(t, s.Load(signedIn("u1")))

	err := s.Add(signedIn("u1"), "a")
	assert.ErrorIs(t, err, errRemote)
	assert.True(t, s.JustAdded("a"), "marked regardless of the remote outcome")
	assert.False(t, s.Stale())

	now = now.Add(JustAddedFor - time.Millisecond)
	assert.True(t, s.JustAdded("a"))
	now = now.Add(time.Millisecond)
	assert.False(t, s.JustAdded("a"))

	remote.addErr = nil
	require.NoError(t, s.Add(signedIn("u1"), "b"))
	assert.True(t, s.Stale())
	assert.Empty(t, s.Lines(), "add does not touch local lines")
}
