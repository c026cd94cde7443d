package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"robostore/internal/apperr"
	"robostore/internal/models"
	"robostore/internal/util"
)

// CartStore is the persistence surface the cart service needs. AddCartItem
// must be atomic per (cart, product): concurrent adds accumulate, they
// never overwrite each other.
type CartStore interface {
	GetOrCreateCart(ctx context.Context, cartID, userID string) (*models.Cart, error)
	GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error)
	AddCartItem(ctx context.Context, cartID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, cartID, productID string) error
	DeleteCartByUserID(ctx context.Context, userID string) error
}

// ProductGetter resolves product ids; the cart owns no pricing logic.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// CartService maintains one active cart per user.
type CartService struct {
	store   CartStore
	catalog ProductGetter
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store CartStore, catalog ProductGetter) *CartService {
	return &CartService{
		store:   store,
		catalog: catalog,
		logger:  util.GetLogger(),
	}
}

// GetOrCreateCart returns the user's cart, creating and persisting an
// empty one on first access.
func (s *CartService) GetOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.store.GetOrCreateCart(ctx, uuid.New().String(), userID)
}

// AddItem validates the product, then adds quantity to the user's cart.
// Re-adding a product increments its line; the updated cart is returned.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, apperr.Validationf("quantity must be at least 1")
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.store.GetOrCreateCart(ctx, uuid.New().String(), userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddCartItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}

	util.CartItemsAddedTotal.Inc()
	return s.store.GetCartByUserID(ctx, userID)
}

// RemoveItem filters a product out of the cart. Removing a product that
// is not in the cart is a no-op; a missing cart is an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RemoveCartItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.store.GetCartByUserID(ctx, userID)
}

// ClearCart deletes the user's cart entirely. Clearing an absent cart
// succeeds; the order processor relies on that after checkout.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.store.DeleteCartByUserID(ctx, userID)
}
