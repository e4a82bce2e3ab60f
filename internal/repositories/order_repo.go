package repositories

import (
	"storeapi/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id int) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id int, status string) (*models.Order, error)
	Delete(id int) error
}
