package models

import "time"

// Shapes mirror the backend's JSON responses. The client never computes
// prices or totals itself, it just carries what the backend returned.

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Image    string  `json:"image,omitempty"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

type Cart struct {
	ID    int64      `json:"id"`
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	Items           []OrderItem `json:"items"`
	Status          string      `json:"status"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Payment struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
