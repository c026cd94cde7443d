package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"robostore/internal/apperr"
	"robostore/internal/broker"
	"robostore/internal/models"
	"robostore/internal/util"
)

// OrderStore is the persistence surface the order service needs.
// CreateOrder must persist the order and its items atomically.
type OrderStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
}

// CartClearer empties a user's cart after a successful checkout.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

// OrderItemRequest is one requested line of an order.
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// OrderService converts requested line items into priced, immutable
// order records.
type OrderService struct {
	store     OrderStore
	carts     CartClearer
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store OrderStore, carts CartClearer, publisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:     store,
		carts:     carts,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// PlaceOrder validates every requested item against the catalog, prices
// the order from catalog state, persists it, then clears the cart.
// Validation is all-or-nothing and happens before any write. The cart
// clear is best-effort: once the order is durable it is authoritative,
// so a failed clear is logged, never surfaced.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []OrderItemRequest, paymentMethod string, shippingAddress models.ShippingAddress) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_order").Inc()
		return nil, apperr.Validationf("order must contain at least one item")
	}

	var totalAmount float64
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			util.OrdersFailedTotal.WithLabelValues("invalid_quantity").Inc()
			return nil, apperr.Validationf("quantity must be at least 1 for product %s", item.ProductID)
		}

		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				util.OrdersFailedTotal.WithLabelValues("product_not_found").Inc()
			}
			return nil, err
		}

		lineTotal := product.Price * float64(item.Quantity)
		totalAmount += lineTotal
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
		})
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           orderItems,
		TotalAmount:     totalAmount,
		PaymentMethod:   paymentMethod,
		Status:          models.OrderStatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("total_amount", totalAmount))

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart after order",
			zap.String("order_id", order.ID),
			zap.String("user_id", userID),
			zap.Error(err))
	}

	s.publishOrderCreated(ctx, order)
	return order, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	itemData := make([]models.OrderItemData, len(order.Items))
	for i, item := range order.Items {
		itemData[i] = models.OrderItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       itemData,
	}

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

// ListOrders retrieves the user's orders, newest first, capped at 50.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	return s.store.GetOrdersByUserID(ctx, userID)
}
