package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go-pharmacy/controllers"
	"go-pharmacy/models"
	"go-pharmacy/routes"
	"go-pharmacy/session"
	"go-pharmacy/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var testKey = []byte("test-secret")

type memProducts struct {
	mu       sync.Mutex
	products []models.Product
	err      error
}

func (m *memProducts) List(context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Product{}, m.products...), nil
}

func (m *memProducts) Create(_ context.Context, p models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.products = append(m.products, p)
	return p, nil
}

func (m *memProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		for _, p := range m.products {
			if p.ID == id {
				out[id] = p
			}
		}
	}
	return out, nil
}

func (m *memProducts) Exists(_ context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type memCarts struct {
	mu    sync.Mutex
	items map[string][]models.CartItem
	err   error
}

func newMemCarts() *memCarts { return &memCarts{items: map[string][]models.CartItem{}} }

func (m *memCarts) Get(_ context.Context, userID string) (models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Cart{}, m.err
	}
	return models.Cart{UserID: userID, Items: append([]models.CartItem{}, m.items[userID]...)}, nil
}

func (m *memCarts) SaveItems(_ context.Context, userID string, items []models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[userID] = append([]models.CartItem{}, items...)
	return nil
}

func (m *memCarts) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (m *memOrders) Insert(_ context.Context, o models.Order) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.ID = primitive.NewObjectID()
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

type sentMail struct {
	to    string
	order models.Order
}

type chanMailer chan sentMail

func (c chanMailer) SendOrderConfirmation(to string, order models.Order) error {
	c <- sentMail{to: to, order: order}
	return nil
}

type stubAdvisor struct {
	text string
	err  error
}

func (s stubAdvisor) Ask(context.Context, string) (string, error) { return s.text, s.err }

var errBoom = errors.New("boom")

type testAPI struct {
	router   *mux.Router
	products *memProducts
	carts    *memCarts
	orders   *memOrders
	mailer   chanMailer
}

func newTestAPI(t *testing.T, advisor controllers.Advisor) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	a := &testAPI{
		router:   mux.NewRouter(),
		products: &memProducts{},
		carts:    newMemCarts(),
		orders:   &memOrders{},
		mailer:   make(chanMailer, 4),
	}
	if advisor == nil {
		advisor = stubAdvisor{}
	}
	hash, err := bcryptHash("s3cret")
	require.NoError(t, err)

	routes.RegisterRoutes(a.router, session.NewJWTVerifier(testKey), logger, routes.Controllers{
		Product: controllers.NewProductController(a.products, logger),
		Cart:    controllers.NewCartController(a.carts, a.products, logger),
		Payment: controllers.NewPaymentController(a.carts, a.products, a.orders, a.mailer, 500, logger),
		Order:   controllers.NewOrderController(a.orders, logger),
		Symptom: controllers.NewSymptomController(advisor, logger),
		Admin:   controllers.NewAdminController("admin@pharmacy.test", hash, testKey, logger),
	})
	return a
}

func (a *testAPI) addProduct(name string, price float64) models.Product {
	p, _ := a.products.Create(context.Background(), models.Product{Name: name, Price: price, Stock: 10})
	return p
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(testKey, userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(t *testing.T, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v), rec.Body.String())
}

