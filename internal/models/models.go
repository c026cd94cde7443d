package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Product is a catalog entry. Stock quantity is advisory only; order
// placement does not decrement it.
type Product struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Description    string         `db:"description" json:"description"`
	Price          float64        `db:"price" json:"price"`
	ImageURL       string         `db:"image_url" json:"image_url"`
	Category       string         `db:"category" json:"category"`
	Specifications Specifications `db:"specifications" json:"specifications"`
	StockQuantity  int            `db:"stock_quantity" json:"stock_quantity"`
	Featured       bool           `db:"featured" json:"featured"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// ProductFilter narrows a catalog listing. Zero values mean "no filter";
// Featured is a pointer so false can be filtered on explicitly.
type ProductFilter struct {
	Category string
	Search   string
	Featured *bool
}

// Category is a static catalog grouping.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CartItem is one product line in a cart. Re-adding the same product
// increments the quantity, it never overwrites it.
type CartItem struct {
	ProductID string `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// Cart holds a user's in-progress selection. At most one cart exists per
// user, enforced by a unique constraint on user_id.
type Cart struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	Items     []CartItem `db:"-" json:"items"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// OrderItem snapshots a product at order-creation time. Name and price are
// never revalidated against later catalog changes.
type OrderItem struct {
	OrderID     string  `db:"order_id" json:"-"`
	ProductID   string  `db:"product_id" json:"product_id"`
	ProductName string  `db:"product_name" json:"product_name"`
	UnitPrice   float64 `db:"unit_price" json:"price"`
	Quantity    int     `db:"quantity" json:"quantity"`
	LineTotal   float64 `db:"line_total" json:"total"`
}

// ShippingAddress is the structured delivery destination on an order.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Value implements driver.Valuer, storing the address as JSONB.
func (a ShippingAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *ShippingAddress) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = ShippingAddress{}
		return nil
	default:
		return fmt.Errorf("unsupported shipping_address type %T", src)
	}
}

// Order is an immutable priced snapshot of a purchase. Only the status
// field changes after creation, and only through the fulfillment flow.
type Order struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"user_id"`
	Items           []OrderItem     `db:"-" json:"items"`
	TotalAmount     float64         `db:"total_amount" json:"total_amount"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	Status          string          `db:"status" json:"status"`
	ShippingAddress ShippingAddress `db:"shipping_address" json:"shipping_address"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// Order statuses. Creation only ever produces "pending"; the rest belong
// to the fulfillment workflow and bound the enum.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)
