package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/velaflam/storefront/internal/domain"
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

func newTestOrderService(orders *mockOrderRepository, carts *mockCartRepository) *OrderService {
	return NewOrderService(orders, carts, newTestEventProducer(), newTestLogger())
}

func validCheckout() CheckoutInput {
	return CheckoutInput{
		FullName:   "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "+212600000000",
		Address:    "12 Rue des Fleurs",
		City:       "Casablanca",
		PostalCode: "20000",
		Notes:      "Ring the bell",
	}
}

// --- Checkout ---

func TestOrderService_Checkout_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)

	carts.On("Get", mock.Anything, testSession).Return(cartWithItems(), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	carts.On("Delete", mock.Anything, testSession).Return(nil)

	order, err := svc.Checkout(context.Background(), testSession, validCheckout())
	require.NoError(t, err)

	// 2 x 1000 + 1 x 550 from the cart snapshot.
	assert.Equal(t, int64(2550), order.TotalAmount)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentMethodCashOnDelivery, order.PaymentMethod)
	assert.Equal(t, "12 Rue des Fleurs, Casablanca, 20000", order.ShippingAddress)
	require.Len(t, order.Items, 2)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.NotEmpty(t, order.Items[0].ID)

	orders.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestOrderService_Checkout_MissingFieldsRejectedBeforeAnyWrite(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)

	base := validCheckout()
	mutations := []func(*CheckoutInput){
		func(in *CheckoutInput) { in.FullName = "" },
		func(in *CheckoutInput) { in.Email = "" },
		func(in *CheckoutInput) { in.Phone = "" },
		func(in *CheckoutInput) { in.Address = "" },
		func(in *CheckoutInput) { in.City = "" },
		func(in *CheckoutInput) { in.PostalCode = "" },
	}

	for _, mutate := range mutations {
		in := base
		mutate(&in)
		_, err := svc.Checkout(context.Background(), testSession, in)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_EmptyCartRejected(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)

	carts.On("Get", mock.Anything, testSession).Return(domain.NewCart(testSession), nil)

	_, err := svc.Checkout(context.Background(), testSession, validCheckout())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_MissingCartTreatedAsEmpty(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)

	carts.On("Get", mock.Anything, testSession).Return(nil, apperrors.NotFound("cart", testSession))

	_, err := svc.Checkout(context.Background(), testSession, validCheckout())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOrderService_Checkout_NotesOptional(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)

	carts.On("Get", mock.Anything, testSession).Return(cartWithItems(), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	carts.On("Delete", mock.Anything, testSession).Return(nil)

	in := validCheckout()
	in.Notes = ""

	order, err := svc.Checkout(context.Background(), testSession, in)
	require.NoError(t, err)
	assert.Empty(t, order.Notes)
}

func TestOrderService_Checkout_CartClearFailureDoesNotFailOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestOrderService(orders, carts)

	carts.On("Get", mock.Anything, testSession).Return(cartWithItems(), nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	carts.On("Delete", mock.Anything, testSession).Return(assert.AnError)

	order, err := svc.Checkout(context.Background(), testSession, validCheckout())
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
}

// --- UpdateStatus ---

func TestOrderService_UpdateStatus_ValidTransition(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestOrderService(orders, new(mockCartRepository))

	orders.On("GetByID", mock.Anything, "order-1").
		Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusPending}, nil)
	orders.On("UpdateStatus", mock.Anything, "order-1", domain.OrderStatusConfirmed).Return(nil)

	order, err := svc.UpdateStatus(context.Background(), "order-1", domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	orders.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_InvalidTransition(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestOrderService(orders, new(mockCartRepository))

	orders.On("GetByID", mock.Anything, "order-1").
		Return(&domain.Order{ID: "order-1", Status: domain.OrderStatusDelivered}, nil)

	_, err := svc.UpdateStatus(context.Background(), "order-1", domain.OrderStatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestOrderService(orders, new(mockCartRepository))

	_, err := svc.UpdateStatus(context.Background(), "order-1", "refunded")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- ListCustomers ---

func TestOrderService_ListCustomers(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestOrderService(orders, new(mockCartRepository))

	orders.On("GroupByGuestEmail", mock.Anything).Return([]domain.CustomerSummary{
		{GuestEmail: "jane@example.com", OrderCount: 3, TotalSpent: 9000},
	}, nil)

	customers, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "jane@example.com", customers[0].GuestEmail)
}
