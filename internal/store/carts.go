package store

import (
	"context"
	"database/sql"
	"fmt"

	"robostore/internal/apperr"
	"robostore/internal/models"
)

// GetOrCreateCart returns the user's cart, inserting an empty one if
// absent. The unique constraint on user_id makes concurrent first access
// converge on a single row; the no-op DO UPDATE lets RETURNING yield the
// surviving row either way.
func (s *Store) GetOrCreateCart(ctx context.Context, cartID, userID string) (*models.Cart, error) {
	query := `
		INSERT INTO carts (id, user_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, updated_at`

	var cart models.Cart
	if err := s.db.GetContext(ctx, &cart, query, cartID, userID); err != nil {
		return nil, fmt.Errorf("failed to upsert cart: %w", err)
	}
	if err := s.loadCartItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCartByUserID retrieves the user's cart with its items.
func (s *Store) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.GetContext(ctx, &cart, "SELECT * FROM carts WHERE user_id = $1", userID)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFoundf("cart not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadCartItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *Store) loadCartItems(ctx context.Context, cart *models.Cart) error {
	items := []models.CartItem{}
	err := s.db.SelectContext(ctx, &items,
		"SELECT product_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY added_at", cart.ID)
	if err != nil {
		return fmt.Errorf("failed to load cart items: %w", err)
	}
	cart.Items = items
	return nil
}

// AddCartItem adds quantity of a product to the cart as one atomic
// increment-or-insert keyed on (cart_id, product_id). Two concurrent adds
// for the same product both land; neither overwrites the other.
func (s *Store) AddCartItem(ctx context.Context, cartID, productID string, quantity int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE carts SET updated_at = NOW() WHERE id = $1", cartID)
	if err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}

	return tx.Commit()
}

// RemoveCartItem deletes a product line from the cart. Removing an absent
// product is a no-op, not an error.
func (s *Store) RemoveCartItem(ctx context.Context, cartID, productID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2", cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE carts SET updated_at = NOW() WHERE id = $1", cartID)
	if err != nil {
		return fmt.Errorf("failed to touch cart: %w", err)
	}

	return tx.Commit()
}

// DeleteCartByUserID removes the user's cart and, via cascade, its items.
// Deleting a missing cart succeeds.
func (s *Store) DeleteCartByUserID(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM carts WHERE user_id = $1", userID)
	return err
}
