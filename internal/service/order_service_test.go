package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robostore/internal/apperr"
	"robostore/internal/models"
)

var testAddress = models.ShippingAddress{
	Street:  "1 Robot Way",
	City:    "Springfield",
	State:   "IL",
	Zip:     "62701",
	Country: "US",
}

func newOrderFixture(t *testing.T) (*OrderService, *CartService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.addProduct(models.Product{ID: "p1", Name: "RoboVac Pro X1", Price: 10.00})
	store.addProduct(models.Product{ID: "p2", Name: "AI Companion Bot", Price: 25.00})
	carts := NewCartService(store, store)
	return NewOrderService(store, carts, nil), carts, store
}

func TestPlaceOrderComputesTotalsAndSnapshots(t *testing.T) {
	svc, carts, store := newOrderFixture(t)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "user-1", "p1", 2)
	require.NoError(t, err)

	order, err := svc.PlaceOrder(ctx, "user-1", []OrderItemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}, "credit_card", testAddress)
	require.NoError(t, err)

	assert.Equal(t, 45.00, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "credit_card", order.PaymentMethod)
	assert.Equal(t, testAddress, order.ShippingAddress)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "RoboVac Pro X1", order.Items[0].ProductName)
	assert.Equal(t, 10.00, order.Items[0].UnitPrice)
	assert.Equal(t, 20.00, order.Items[0].LineTotal)
	assert.Equal(t, "AI Companion Bot", order.Items[1].ProductName)
	assert.Equal(t, 25.00, order.Items[1].LineTotal)

	// the originating cart is gone after checkout
	_, err = store.GetCartByUserID(ctx, "user-1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestPlaceOrderUnknownProductCreatesNothing(t *testing.T) {
	svc, _, store := newOrderFixture(t)

	_, err := svc.PlaceOrder(context.Background(), "user-1", []OrderItemRequest{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "ghost", Quantity: 1},
	}, "credit_card", testAddress)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.Contains(t, err.Error(), "ghost")
	assert.Zero(t, store.orderCount())
}

func TestPlaceOrderEmptyItems(t *testing.T) {
	svc, _, store := newOrderFixture(t)

	_, err := svc.PlaceOrder(context.Background(), "user-1", nil, "credit_card", testAddress)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Zero(t, store.orderCount())
}

func TestPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, store := newOrderFixture(t)

	_, err := svc.PlaceOrder(context.Background(), "user-1", []OrderItemRequest{
		{ProductID: "p1", Quantity: 0},
	}, "credit_card", testAddress)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Zero(t, store.orderCount())
}

type failingCartClearer struct{}

func (failingCartClearer) ClearCart(ctx context.Context, userID string) error {
	return errors.New("store unavailable")
}

func TestPlaceOrderSurvivesCartClearFailure(t *testing.T) {
	store := newFakeStore()
	store.addProduct(models.Product{ID: "p1", Name: "RoboVac Pro X1", Price: 10.00})
	svc := NewOrderService(store, failingCartClearer{}, nil)

	order, err := svc.PlaceOrder(context.Background(), "user-1", []OrderItemRequest{
		{ProductID: "p1", Quantity: 1},
	}, "credit_card", testAddress)
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 1, store.orderCount())
}

func TestPlaceOrderStoreFailure(t *testing.T) {
	svc, _, store := newOrderFixture(t)
	store.createOrderErr = errors.New("connection reset")

	_, err := svc.PlaceOrder(context.Background(), "user-1", []OrderItemRequest{
		{ProductID: "p1", Quantity: 1},
	}, "credit_card", testAddress)
	require.Error(t, err)
	assert.Zero(t, store.orderCount())
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	ctx := context.Background()

	first, err := svc.PlaceOrder(ctx, "user-1", []OrderItemRequest{{ProductID: "p1", Quantity: 1}}, "cod", testAddress)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, "user-1", []OrderItemRequest{{ProductID: "p2", Quantity: 1}}, "cod", testAddress)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, "user-2", []OrderItemRequest{{ProductID: "p1", Quantity: 3}}, "cod", testAddress)
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}
