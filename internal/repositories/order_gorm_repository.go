package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"storeapi/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository. Order
// items are serialized into a JSON column.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders ordered by id.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id int) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// Create inserts a new order, allocating max(id)+1 when the ID is zero.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == 0 {
		id, err := nextGORMID(r.db, &models.Order{})
		if err != nil {
			return fmt.Errorf("failed to allocate order ID: %w", err)
		}
		order.ID = id
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus sets the status column only and returns the updated order.
func (r *GORMOrderRepository) UpdateStatus(id int, status string) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
	}
	return r.GetByID(id)
}

// Delete removes an order by its ID.
func (r *GORMOrderRepository) Delete(id int) error {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
