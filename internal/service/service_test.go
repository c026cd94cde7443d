package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"robostore/internal/apperr"
	"robostore/internal/models"
)

// fakeStore is an in-memory stand-in for the Postgres store. Cart item
// adds are locked increments, mirroring the atomic upsert the real store
// performs.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	products map[string]*models.Product
	carts    map[string]*models.Cart
	orders   []models.Order

	createOrderErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*models.User),
		products: make(map[string]*models.Product),
		carts:    make(map[string]*models.Cart),
	}
}

func (f *fakeStore) addProduct(p models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = &p
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperr.Conflictf("email already registered")
		}
	}
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, apperr.NotFoundf("user not found")
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFoundf("user not found")
	}
	out := *u
	return &out, nil
}

func (f *fakeStore) deleteUser(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

func (f *fakeStore) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFoundf("product %s not found", id)
	}
	out := *p
	return &out, nil
}

// GetProduct lets the fake double as a ProductGetter for the cart service.
func (f *fakeStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return f.GetProductByID(ctx, id)
}

func (f *fakeStore) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && p.Featured != *filter.Featured {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetOrCreateCart(ctx context.Context, cartID, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cart, ok := f.carts[userID]; ok {
		return copyCart(cart), nil
	}
	cart := &models.Cart{ID: cartID, UserID: userID, Items: []models.CartItem{}}
	f.carts[userID] = cart
	return copyCart(cart), nil
}

func (f *fakeStore) GetCartByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[userID]
	if !ok {
		return nil, apperr.NotFoundf("cart not found")
	}
	return copyCart(cart), nil
}

func (f *fakeStore) AddCartItem(ctx context.Context, cartID, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity += quantity
				return nil
			}
		}
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
		return nil
	}
	return apperr.NotFoundf("cart not found")
}

func (f *fakeStore) RemoveCartItem(ctx context.Context, cartID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		if cart.ID != cartID {
			continue
		}
		kept := cart.Items[:0]
		for _, item := range cart.Items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		cart.Items = kept
		return nil
	}
	return apperr.NotFoundf("cart not found")
}

func (f *fakeStore) DeleteCartByUserID(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, userID)
	return nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createOrderErr != nil {
		return f.createOrderErr
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders = append(f.orders, stored)
	return nil
}

func (f *fakeStore) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > 50 {
		out = out[:50]
	}
	return out, nil
}

func (f *fakeStore) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func copyCart(cart *models.Cart) *models.Cart {
	out := *cart
	out.Items = append([]models.CartItem{}, cart.Items...)
	return &out
}
