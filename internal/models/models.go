package models

import (
	"time"
)

type User struct {
	ID                  uint   `gorm:"primaryKey;autoIncrement"   json:"id"`
	Email               string `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash        string `gorm:"not null"                   json:"-"`
	FirstName           string `gorm:"not null"                   json:"first_name"`
	LastName            string `gorm:"not null"                   json:"last_name"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	City                string `json:"city"`
	PostalCode          string `json:"postal_code"`
	Country             string `json:"country"`
	Role                string `gorm:"not null;default:user"      json:"role"`
	IsActive            bool   `gorm:"default:true"               json:"is_active"`
	EmailVerified       bool   `gorm:"default:false"              json:"email_verified"`
	VerificationToken   string `gorm:"index"                      json:"-"`
	VerificationExpires int64  `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null"     json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID               uint    `gorm:"primaryKey;autoIncrement"                    json:"id"`
	Name             string  `gorm:"not null;index"                              json:"name"`
	Description      string  `json:"description"`
	Price            float64 `gorm:"not null;check:price >= 0"                   json:"price"`
	StockQuantity    int     `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stock_quantity"`
	CategoryID       uint    `gorm:"index"                                       json:"category_id"`
	Brand            string  `json:"brand"`
	Model            string  `json:"model"`
	Specs            SpecMap `gorm:"type:text"                                   json:"specs,omitempty"`
	ImageData        []byte  `json:"-"`
	ImageFilename    string  `json:"-"`
	ImageContentType string  `json:"-"`
	IsActive         bool    `gorm:"default:true"                                json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                    json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product"    json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product"    json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity > 0"                  json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderStatus is the fixed enumeration of order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Actors recorded in the status history ledger. Admin transitions use
// an "admin:<id>" identifier instead.
const (
	ActorSystem = "system"
	ActorUser   = "user"
)

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint        `gorm:"index;not null"           json:"user_id"`
	OrderNumber     string      `gorm:"uniqueIndex;not null"     json:"order_number"`
	TotalAmount     float64     `gorm:"not null"                 json:"total_amount"`
	Status          OrderStatus `gorm:"not null;default:pending" json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentStatus   string      `gorm:"default:pending"          json:"payment_status"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address"`
	Notes           string      `json:"notes"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem snapshots the product price at order time; rows are never
// updated after creation.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                  json:"id"`
	OrderID   uint    `gorm:"index;not null"              json:"order_id"`
	ProductID uint    `gorm:"not null"                    json:"product_id"`
	Quantity  uint    `gorm:"check:quantity > 0"          json:"quantity"`
	UnitPrice float64 `gorm:"not null"                    json:"unit_price"`
	LineTotal float64 `gorm:"not null"                    json:"line_total"`
}

// OrderStatusRecord is the append-only status history: rows are only
// ever inserted, one per transition.
type OrderStatusRecord struct {
	ID      uint        `gorm:"primaryKey"     json:"id"`
	OrderID uint        `gorm:"index;not null" json:"order_id"`
	Status  OrderStatus `gorm:"not null"       json:"status"`
	Actor   string      `gorm:"not null"       json:"actor"`

	CreatedAt time.Time `json:"created_at"`
}

// SupportTicket stores contact form submissions. UserID is zero for
// guest submissions; those are matched to accounts by email.
type SupportTicket struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TicketNumber string `gorm:"uniqueIndex;not null"     json:"ticket_number"`
	UserID       uint   `gorm:"index"                    json:"user_id,omitempty"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"index;not null"           json:"email"`
	Subject      string `gorm:"not null"                 json:"subject"`
	Message      string `gorm:"not null"                 json:"message"`
	Status       string `gorm:"not null;default:open"    json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"uniqueIndex;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}
