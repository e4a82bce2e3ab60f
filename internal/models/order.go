package models

import "time"

// Order status values. An order starts as pending; any status may move to
// any other status.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusCompleted  = "completed"
)

// OrderItem is a single line within an order. The price is snapshotted at
// order-creation time and never re-read from the product catalog.
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Subtotal returns quantity times the snapshotted price.
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// Order represents a customer order.
type Order struct {
	ID        int         `json:"id" gorm:"primaryKey"`
	UserID    int         `json:"user_id"`
	Items     []OrderItem `json:"items" gorm:"serializer:json"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
