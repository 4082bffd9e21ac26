package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/event"
	"github.com/velaflam/storefront/internal/service"
	"github.com/velaflam/storefront/internal/session"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/httputil"
	pkgkafka "github.com/velaflam/storefront/pkg/kafka"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaCfg.Async = true
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func testCartHandler(repo *mockCartRepository) *CartHandler {
	svc := service.NewCartService(repo, testEventProducer(), testLogger(), 24*time.Hour)
	return NewCartHandler(svc, testLogger())
}

const testSessionID = "guest_abc123def456_1700000000000"

// setupCartRouter creates a chi router matching the production route layout,
// including the session and ContentTypeJSON middleware so cookie behavior is
// tested end-to-end.
func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(session.Middleware(24 * time.Hour))

		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)

		r.Post("/items", handler.AddItem)
		r.Put("/items/{productID}", handler.UpdateItemQuantity)
		r.Delete("/items/{productID}", handler.RemoveItem)
	})
	return r
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: testSessionID})
	return req
}

// decodeResponse reads the response body into the standard Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func storedCart() *domain.Cart {
	cart := domain.NewCart(testSessionID)
	cart.Add(domain.ProductRef{ProductID: "prod-1", Name: "Lavender Candle", Price: 1000})
	cart.Add(domain.ProductRef{ProductID: "prod-1", Name: "Lavender Candle", Price: 1000})
	cart.Add(domain.ProductRef{ProductID: "prod-2", Name: "Wick Trimmer", Price: 550})
	return cart
}

// ============================================================================
// GET /api/v1/cart - GetCart
// ============================================================================

func TestGetCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Get", mock.Anything, testSessionID).Return(storedCart(), nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestGetCart_MissingCartReturnsEmpty(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Get", mock.Anything, testSessionID).Return(nil, apperrors.NotFound("cart", testSessionID))

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestGetCart_NewVisitorGetsSessionCookie(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	// A fresh session has no stored cart.
	repo.On("Get", mock.Anything, mock.AnythingOfType("string")).
		Return(nil, apperrors.NotFound("cart", "new"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Contains(t, cookies[0].Value, "guest_")
}

func TestGetCart_ServiceError(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Get", mock.Anything, testSessionID).Return(nil, fmt.Errorf("redis connection refused"))

	req := withSession(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	repo.AssertExpectations(t)
}

// ============================================================================
// POST /api/v1/cart/items - AddItem
// ============================================================================

func validAddItemJSON() []byte {
	b, _ := json.Marshal(AddItemRequest{
		ProductID: "prod-9",
		Name:      "Rose Candle",
		Price:     1299,
		ImageURL:  "https://img.velaflam.com/rose.jpg",
	})
	return b
}

func TestAddItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Get", mock.Anything, testSessionID).Return(nil, apperrors.NotFound("cart", testSessionID))
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(validAddItemJSON())))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	repo.AssertExpectations(t)
}

func TestAddItem_InvalidJSON(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{invalid json`))))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddItem_ValidationError_MissingFields(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	b, _ := json.Marshal(map[string]any{
		"product_id": "",
		"name":       "",
		"price":      -1,
	})

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(b)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAddItem_RejectsNonJSONContentType(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(validAddItemJSON())))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// PUT /api/v1/cart/items/{productID} - UpdateItemQuantity
// ============================================================================

func updateQuantityJSON(qty int) []byte {
	b, _ := json.Marshal(UpdateQuantityRequest{Quantity: qty})
	return b
}

func TestUpdateItemQuantity_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Get", mock.Anything, testSessionID).Return(storedCart(), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	req := withSession(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/prod-1", bytes.NewReader(updateQuantityJSON(5))))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

func TestUpdateItemQuantity_ZeroRemovesItem(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Get", mock.Anything, testSessionID).Return(storedCart(), nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(c *domain.Cart) bool {
		for _, item := range c.Items {
			if item.ProductID == "prod-1" {
				return false
			}
		}
		return true
	})).Return(nil)

	req := withSession(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/prod-1", bytes.NewReader(updateQuantityJSON(0))))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

// ============================================================================
// DELETE /api/v1/cart/items/{productID} - RemoveItem
// ============================================================================

func TestRemoveItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Get", mock.Anything, testSessionID).Return(storedCart(), nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/prod-2", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

// ============================================================================
// DELETE /api/v1/cart - ClearCart
// ============================================================================

func TestClearCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Delete", mock.Anything, testSessionID).Return(nil)

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repo.AssertExpectations(t)
}

func TestClearCart_ServiceError(t *testing.T) {
	repo := new(mockCartRepository)
	router := setupCartRouter(testCartHandler(repo))

	repo.On("Delete", mock.Anything, testSessionID).Return(fmt.Errorf("redis connection lost"))

	req := withSession(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	repo.AssertExpectations(t)
}
