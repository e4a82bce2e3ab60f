package services_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storeapi/internal/models"
	"storeapi/internal/services"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id int) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id int, status string) (*models.Order, error) {
	args := m.Called(id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEventPublisher records published order events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(eventType string, body []byte) error {
	args := m.Called(eventType, body)
	return args.Error(0)
}

func TestOrderService_CreateOrder_ComputesTotal(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil)

	mockRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()

	before := time.Now()
	order, err := service.CreateOrder(services.OrderInput{
		UserID: ptr(101),
		Items: []services.OrderItemInput{
			{ProductID: ptr(1), Quantity: ptr(2), Price: ptr(10.0)},
			{ProductID: ptr(3), Quantity: ptr(1), Price: ptr(5.0)},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 25.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 101, order.UserID)
	assert.Len(t, order.Items, 2)
	assert.False(t, order.CreatedAt.Before(before))
	mockRepo.AssertExpectations(t)
}

func TestOrderService_CreateOrder_PublishesEvent(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockEventPublisher)
	service := services.NewOrderService(mockRepo, mockPub)

	mockRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	mockPub.On("Publish", "order.created", mock.AnythingOfType("[]uint8")).Return(nil).Once()

	_, err := service.CreateOrder(services.OrderInput{
		UserID: ptr(101),
		Items:  []services.OrderItemInput{{ProductID: ptr(1), Quantity: ptr(1), Price: ptr(9.99)}},
	})
	assert.NoError(t, err)
	mockPub.AssertExpectations(t)

	// The event body is JSON carrying the order facts and a fresh event id.
	body := mockPub.Calls[0].Arguments.Get(1).([]byte)
	var event map[string]interface{}
	assert.NoError(t, json.Unmarshal(body, &event))
	assert.NotEmpty(t, event["event_id"])
	assert.Equal(t, models.OrderStatusPending, event["status"])
	assert.Equal(t, 9.99, event["total"])
}

func TestOrderService_ListOrders_FilterByUser(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil)

	all := []models.Order{
		{ID: 1, UserID: 101},
		{ID: 2, UserID: 102},
		{ID: 3, UserID: 101},
	}
	mockRepo.On("GetAll").Return(all, nil)

	orders, info, err := service.ListOrders(1, 10, ptr(101))
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 2, info.Total)
	assert.Equal(t, 1, orders[0].ID)
	assert.Equal(t, 3, orders[1].ID)

	// No filter returns everything.
	orders, info, err = service.ListOrders(1, 10, nil)
	assert.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.Equal(t, 3, info.Total)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockEventPublisher)
	service := services.NewOrderService(mockRepo, mockPub)

	updated := &models.Order{ID: 1, UserID: 101, Status: models.OrderStatusShipped}
	mockRepo.On("UpdateStatus", 1, models.OrderStatusShipped).Return(updated, nil).Once()
	mockPub.On("Publish", "order.status_updated", mock.AnythingOfType("[]uint8")).Return(nil).Once()

	order, err := service.UpdateOrderStatus(1, models.OrderStatusShipped)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_RejectsUnknownValue(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil)

	// The store is never touched for an unknown status.
	_, err := service.UpdateOrderStatus(1, "bogus")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}
