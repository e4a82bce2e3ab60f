package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storeapi/internal/handlers"
	"storeapi/internal/models"
	"storeapi/internal/repositories"
	"storeapi/internal/services"
)

// setupGORMApp builds the app on an in-memory SQLite database, the
// configuration the sqlite storage driver selects.
func setupGORMApp(t *testing.T) *fiber.App {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the
	// same in-memory store; the test name keeps tests isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}, &models.User{}))

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	seedForTest(productRepo, orderRepo, userRepo)

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewProductHandler(services.NewProductService(productRepo)).RegisterRoutes(api)
	handlers.NewOrderHandler(services.NewOrderService(orderRepo, nil)).RegisterRoutes(api)
	handlers.NewUserHandler(services.NewUserService(userRepo)).RegisterRoutes(api)
	return app
}

func TestGORMProductCRUD(t *testing.T) {
	app := setupGORMApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/products/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var list productListResponse
	decodeBody(t, resp, &list)
	assert.Equal(t, 5, list.Total)

	// The SQL store keeps the max(id)+1 contract.
	resp = doJSON(t, app, http.MethodPost, "/api/products/", map[string]interface{}{
		"name":        "Webcam",
		"description": "1080p camera",
		"price":       89.99,
		"stock":       40,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeBody(t, resp, &created)
	assert.Equal(t, 6, created.ID)

	resp = doJSON(t, app, http.MethodPut, "/api/products/6", map[string]interface{}{"stock": 35})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	decodeBody(t, resp, &updated)
	assert.Equal(t, 35, updated.Stock)
	assert.Equal(t, "Webcam", updated.Name)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/6", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodGet, "/api/products/6", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestGORMOrderRoundTrip(t *testing.T) {
	app := setupGORMApp(t)

	// Items survive the JSON column round trip.
	resp := doJSON(t, app, http.MethodGet, "/api/orders/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)

	resp = doJSON(t, app, http.MethodPost, "/api/orders/", map[string]interface{}{
		"user_id": 102,
		"items": []map[string]interface{}{
			{"product_id": 4, "quantity": 3, "price": 249.99},
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Order
	decodeBody(t, resp, &created)
	assert.Equal(t, 3, created.ID)
	assert.InDelta(t, 749.97, created.Total, 1e-9)

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", created.ID), map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled models.Order
	decodeBody(t, resp, &cancelled)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
}

func TestGORMUserUniqueness(t *testing.T) {
	app := setupGORMApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/users/", map[string]string{
		"email":      "john.doe@example.com",
		"first_name": "John",
		"last_name":  "Clone",
		"password":   "pw",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Email already registered", body["error"])

	resp = doJSON(t, app, http.MethodPost, "/api/users/login", map[string]string{
		"email":    "jane.smith@example.com",
		"password": "password456",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
