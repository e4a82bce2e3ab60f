package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"storeapi/internal/models"
	"storeapi/internal/repositories"
)

// EventPublisher publishes order lifecycle events to the message broker.
// A nil publisher disables messaging.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// OrderItemInput is one line of an order-creation payload.
type OrderItemInput struct {
	ProductID *int     `json:"product_id" validate:"required"`
	Quantity  *int     `json:"quantity" validate:"required,gt=0"`
	Price     *float64 `json:"price" validate:"required,gte=0"`
}

// OrderInput is the payload for creating an order. Product and user
// references are taken at face value; no cross-store lookup happens.
type OrderInput struct {
	UserID *int             `json:"user_id" validate:"required"`
	Items  []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

var validOrderStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
	models.OrderStatusCompleted:  true,
}

// OrderService handles business logic related to orders.
type OrderService struct {
	repo      repositories.OrderRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListOrders returns one page of orders. A non-nil userID narrows the
// collection to that user's orders before pagination.
func (s *OrderService) ListOrders(page, perPage int, userID *int) ([]models.Order, PageInfo, error) {
	orders, err := s.repo.GetAll()
	if err != nil {
		return nil, PageInfo{}, err
	}

	if userID != nil {
		filtered := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if o.UserID == *userID {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	pageItems, info := paginate(orders, page, perPage)
	return pageItems, info, nil
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id int) (*models.Order, error) {
	return s.repo.GetByID(id)
}

// CreateOrder creates a new order. The total is the sum of quantity times the
// snapshotted item price; the status always starts as pending and CreatedAt is
// the creation instant.
func (s *OrderService) CreateOrder(input OrderInput) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(input.Items))
	var total float64
	for _, in := range input.Items {
		item := models.OrderItem{
			ProductID: *in.ProductID,
			Quantity:  *in.Quantity,
			Price:     *in.Price,
		}
		items = append(items, item)
		total += item.Subtotal()
	}

	order := &models.Order{
		UserID:    *input.UserID,
		Items:     items,
		Total:     total,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishEvent("order.created", order)
	return order, nil
}

// UpdateOrderStatus replaces the status of an existing order. Any known
// status may follow any other; unknown values are rejected before the store
// is touched.
func (s *OrderService) UpdateOrderStatus(id int, status string) (*models.Order, error) {
	if !validOrderStatuses[status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.repo.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.status_updated", order)
	return order, nil
}

// DeleteOrder deletes an order by its ID.
func (s *OrderService) DeleteOrder(id int) error {
	return s.repo.Delete(id)
}

// publishEvent sends an order event to the broker, best-effort. Publishing
// failures are logged and never fail the request.
func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"event_id": uuid.NewString(),
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.Total,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %d: %v", eventType, order.ID, err)
		return
	}

	if err := s.publisher.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %d: %v", eventType, order.ID, err)
	}
}
