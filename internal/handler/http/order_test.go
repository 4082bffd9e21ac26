package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/velaflam/storefront/internal/domain"
	"github.com/velaflam/storefront/internal/service"
	"github.com/velaflam/storefront/internal/session"
	apperrors "github.com/velaflam/storefront/pkg/errors"
	"github.com/velaflam/storefront/pkg/pagination"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, params pagination.Params) ([]domain.Order, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOrderRepository) GroupByGuestEmail(ctx context.Context) ([]domain.CustomerSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerSummary), args.Error(1)
}

func testOrderHandler(orders *mockOrderRepository, carts *mockCartRepository) *OrderHandler {
	svc := service.NewOrderService(orders, carts, testEventProducer(), testLogger())
	return NewOrderHandler(svc, testLogger())
}

// setupOrderRouter mirrors the production layout: checkout behind the session
// middleware, admin order routes mounted plainly (auth is covered by the
// middleware package tests).
func setupOrderRouter(handler *OrderHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(session.Middleware(24 * time.Hour))
			r.Post("/checkout", handler.Checkout)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/orders", handler.ListOrders)
			r.Get("/orders/{orderID}", handler.GetOrder)
			r.Patch("/orders/{orderID}/status", handler.UpdateStatus)
			r.Get("/customers", handler.ListCustomers)
		})
	})
	return r
}

const testOrderID = "3f2c0f4e-9b1a-4c6d-8e7f-2a5b6c7d8e9f"

func validCheckoutJSON() []byte {
	b, _ := json.Marshal(CheckoutRequest{
		FullName:   "Amina Benali",
		Email:      "amina@example.com",
		Phone:      "+212600000000",
		Address:    "12 Rue des Fleurs",
		City:       "Casablanca",
		PostalCode: "20000",
	})
	return b
}

// ============================================================================
// POST /api/v1/checkout - Checkout
// ============================================================================

func TestCheckout_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	router := setupOrderRouter(testOrderHandler(orders, carts))

	carts.On("Get", mock.Anything, testSessionID).Return(storedCart(), nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.TotalAmount == 2550 && o.Status == domain.OrderStatusPending
	})).Return(nil)
	carts.On("Delete", mock.Anything, testSessionID).Return(nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(validCheckoutJSON())))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	orders.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestCheckout_ValidationError(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	router := setupOrderRouter(testOrderHandler(orders, carts))

	b, _ := json.Marshal(map[string]any{
		"full_name": "Amina Benali",
		"email":     "not-an-email",
	})

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(b)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckout_EmptyCart(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	router := setupOrderRouter(testOrderHandler(orders, carts))

	carts.On("Get", mock.Anything, testSessionID).Return(nil, apperrors.NotFound("cart", testSessionID))

	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(validCheckoutJSON())))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "cart is empty")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ============================================================================
// GET /api/v1/admin/orders - ListOrders
// ============================================================================

func TestListOrders_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(testOrderHandler(orders, new(mockCartRepository)))

	list := []domain.Order{{ID: "order-1", Status: domain.OrderStatusPending, TotalAmount: 2550}}
	orders.On("List", mock.Anything, pagination.Params{Page: 1, PerPage: 20}).Return(list, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	orders.AssertExpectations(t)
}

// ============================================================================
// GET /api/v1/admin/orders/{orderID} - GetOrder
// ============================================================================

func TestGetOrder_NotFound(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(testOrderHandler(orders, new(mockCartRepository)))

	orders.On("GetByID", mock.Anything, testOrderID).Return(nil, apperrors.NotFound("order", testOrderID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/"+testOrderID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	orders.AssertExpectations(t)
}

func TestGetOrder_MalformedIDRejected(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(testOrderHandler(orders, new(mockCartRepository)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// ============================================================================
// PATCH /api/v1/admin/orders/{orderID}/status - UpdateStatus
// ============================================================================

func TestUpdateStatus_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(testOrderHandler(orders, new(mockCartRepository)))

	pending := &domain.Order{ID: testOrderID, Status: domain.OrderStatusPending}
	orders.On("GetByID", mock.Anything, testOrderID).Return(pending, nil)
	orders.On("UpdateStatus", mock.Anything, testOrderID, domain.OrderStatusConfirmed).Return(nil)

	b, _ := json.Marshal(UpdateStatusRequest{Status: "confirmed"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+testOrderID+"/status", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	orders.AssertExpectations(t)
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(testOrderHandler(orders, new(mockCartRepository)))

	b, _ := json.Marshal(map[string]string{"status": "teleported"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+testOrderID+"/status", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(testOrderHandler(orders, new(mockCartRepository)))

	delivered := &domain.Order{ID: testOrderID, Status: domain.OrderStatusDelivered}
	orders.On("GetByID", mock.Anything, testOrderID).Return(delivered, nil)

	b, _ := json.Marshal(UpdateStatusRequest{Status: "cancelled"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/orders/"+testOrderID+"/status", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// ============================================================================
// GET /api/v1/admin/customers - ListCustomers
// ============================================================================

func TestListCustomers_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(testOrderHandler(orders, new(mockCartRepository)))

	orders.On("GroupByGuestEmail", mock.Anything).Return([]domain.CustomerSummary{
		{GuestEmail: "amina@example.com", OrderCount: 3, TotalSpent: 7650},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/customers", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
	orders.AssertExpectations(t)
}
