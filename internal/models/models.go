package models

import (
	"time"
)

type User struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName       string     `gorm:"not null"                 json:"firstName"`
	LastName        string     `gorm:"not null"                 json:"lastName"`
	Email           string     `gorm:"unique;not null"          json:"email"`
	PasswordHash    string     `gorm:"not null"                 json:"-"`
	Phone           string     `json:"phone"`
	Address         string     `json:"address"`
	AvatarURL       string     `json:"avatarUrl"`
	ResetOTP        string     `gorm:"column:reset_otp"         json:"-"`
	ResetOTPExpires *time.Time `gorm:"column:reset_otp_expires" json:"-"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null"                 json:"name"`
}

type Product struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID      uint      `gorm:"index;not null"           json:"category_id"`
	Name            string    `gorm:"not null"                 json:"name"`
	Description     string    `json:"description"`
	FullDescription string    `json:"fullDescription"`
	Image           string    `json:"image"`
	Price           int64     `gorm:"not null"                 json:"price"`
	Rating          float64   `json:"rating"`
	ReviewsCount    uint      `json:"reviews_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProductSize carries a price modifier applied additively to the base price.
type ProductSize struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	ProductID     uint   `gorm:"index;not null"            json:"product_id"`
	Size          string `gorm:"not null"                  json:"size"`
	PriceModifier int64  `json:"price_modifier"`
}

// CartItem is unique per (user, product, size); adding the same combination
// again increments quantity instead of creating a second row.
type CartItem struct {
	ID        string    `gorm:"primaryKey"                                      json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_size" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_size" json:"product_id"`
	Size      string    `gorm:"not null;uniqueIndex:idx_cart_user_product_size" json:"size"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"                      json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID                      string     `gorm:"primaryKey"         json:"id"`
	UserID                  uint       `gorm:"index;not null"     json:"user_id"`
	TotalAmount             int64      `gorm:"not null"           json:"total_amount"`
	StatusID                int        `gorm:"not null;default:1" json:"status_id"`
	DeliveryAddress         string     `json:"delivery_address"`
	Notes                   string     `json:"notes"`
	PaymentMethodID         int        `gorm:"not null;default:3" json:"payment_method_id"`
	DeliveryMethod          string     `json:"delivery_method"`
	CustomerName            string     `json:"customer_name"`
	CustomerPhone           string     `json:"customer_phone"`
	UserConfirmedTransfer   bool       `gorm:"default:false"      json:"user_confirmed_transfer"`
	UserConfirmedTransferAt *time.Time `json:"user_confirmed_transfer_at"`
	CreatedAt               time.Time  `json:"created_at"`
}

// OrderItem captures quantity, size and the price at order time. The price is
// a snapshot, never recomputed from the product row.
type OrderItem struct {
	ID        string `gorm:"primaryKey"                 json:"id"`
	OrderID   string `gorm:"index;not null"             json:"order_id"`
	ProductID uint   `gorm:"not null"                   json:"product_id"`
	Quantity  uint   `gorm:"default:1;check:quantity>0" json:"quantity"`
	Size      string `json:"size"`
	Price     int64  `gorm:"not null"                   json:"price"`
}

// ProductView is the catalog read shape: a product row joined with its
// category name. It is not a table.
type ProductView struct {
	ID              uint      `json:"id"`
	CategoryID      uint      `json:"category_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	FullDescription string    `json:"fullDescription"`
	Image           string    `json:"image"`
	Price           int64     `json:"price"`
	Rating          float64   `json:"rating"`
	ReviewsCount    uint      `json:"reviews_count"`
	CreatedAt       time.Time `json:"created_at"`
	CategoryName    string    `json:"category_name"`
}
