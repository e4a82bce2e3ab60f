package repositories

import (
	"fmt"
	"sync"

	"storeapi/internal/models"
)

// MemoryOrderRepository is the in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	orders map[int]models.Order
	order  []int
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[int]models.Order),
	}
}

// GetAll returns all orders in insertion order.
func (r *MemoryOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.order))
	for _, id := range r.order {
		orderList = append(orderList, r.orders[id])
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(id int) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
	}
	return &o, nil
}

// Create adds a new order, allocating max(existing ids)+1 when the ID is zero.
func (r *MemoryOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == 0 {
		order.ID = nextID(r.orders)
	}
	r.orders[order.ID] = *order
	r.order = append(r.order, order.ID)
	return nil
}

// UpdateStatus sets the status of an order and returns the updated order.
// CreatedAt and every other field are left untouched.
func (r *MemoryOrderRepository) UpdateStatus(id int, status string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
	}
	o.Status = status
	r.orders[id] = o
	return &o, nil
}

// Delete removes an order by its ID.
func (r *MemoryOrderRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
	}
	delete(r.orders, id)
	r.order = removeID(r.order, id)
	return nil
}
