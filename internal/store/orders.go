package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"robostore/internal/models"
)

// listOrdersLimit bounds an order history page.
const listOrdersLimit = 50

// CreateOrder persists an order and its line items in one transaction.
// The order is either fully durable or not created at all.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, user_id, total_amount, payment_method, status, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err = tx.GetContext(ctx, &order.CreatedAt, query,
		order.ID, order.UserID, order.TotalAmount, order.PaymentMethod,
		order.Status, order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.OrderID, item.ProductID, item.ProductName, item.UnitPrice,
			item.Quantity, item.LineTotal)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrdersByUserID retrieves a user's orders newest first, capped at 50,
// with line items attached.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2",
		userID, listOrdersLimit)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	query, args, err := sqlx.In(
		"SELECT order_id, product_id, product_name, unit_price, quantity, line_total FROM order_items WHERE order_id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	items := []models.OrderItem{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}

	byOrder := make(map[string][]models.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
	}
	return orders, nil
}

// CountOrders returns the total number of orders.
func (s *Store) CountOrders(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM orders")
	return n, err
}
