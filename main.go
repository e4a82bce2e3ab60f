package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storeapi/internal/handlers"
	"storeapi/internal/models"
	"storeapi/internal/repositories"
	"storeapi/internal/services"
	"storeapi/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_VERSION", "1.0.0")
	viper.SetDefault("STORAGE_DRIVER", "memory")
	viper.SetDefault("DATABASE_DSN", "file::memory:?cache=shared")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	appEnv := viper.GetString("APP_ENV")
	appVersion := viper.GetString("APP_VERSION")

	// --- Initialize Repositories ---
	productRepo, orderRepo, userRepo, err := buildRepositories(
		viper.GetString("STORAGE_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	seedStores(productRepo, orderRepo, userRepo)

	// --- Initialize RabbitMQ Client (optional) ---
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Initialize Services ---
	productService := services.NewProductService(productRepo)
	orderService := newOrderService(orderRepo, mqClient)
	userService := services.NewUserService(userRepo)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(userService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		// A handler error or recovered panic becomes a fixed body with no
		// detail leakage.
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Internal server error",
				"message": "An unexpected error occurred",
			})
		},
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// --- API Routes ---
	api := app.Group("/api")
	productHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"version":     appVersion,
			"environment": appEnv,
		})
	})

	// --- Root Endpoint ---
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to E-Commerce API",
			"endpoints": []string{
				"/api/products",
				"/api/orders",
				"/api/users",
				"/health",
			},
		})
	})

	// Fallback for unknown paths.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not found",
			"message": "The requested resource was not found",
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event %s (tag %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("RabbitMQ consumer stopped: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newOrderService wires the optional event publisher without handing the
// service a typed-nil interface.
func newOrderService(orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client) *services.OrderService {
	if mqClient == nil {
		return services.NewOrderService(orderRepo, nil)
	}
	return services.NewOrderService(orderRepo, mqClient)
}

// buildRepositories selects the store implementation. "memory" is the
// default; "sqlite" and "postgres" open a GORM-backed store from the DSN.
func buildRepositories(driver, dsn string) (repositories.ProductRepository, repositories.OrderRepository, repositories.UserRepository, error) {
	switch driver {
	case "memory":
		return repositories.NewMemoryProductRepository(),
			repositories.NewMemoryOrderRepository(),
			repositories.NewMemoryUserRepository(),
			nil
	case "sqlite", "postgres":
		var dial gorm.Dialector
		if driver == "sqlite" {
			dial = sqlite.Open(dsn)
		} else {
			dial = postgres.Open(dsn)
		}
		db, err := gorm.Open(dial, &gorm.Config{})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.User{}); err != nil {
			return nil, nil, nil, err
		}
		return repositories.NewGORMProductRepository(db),
			repositories.NewGORMOrderRepository(db),
			repositories.NewGORMUserRepository(db),
			nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// seedStores loads the fixed sample data into every empty store. Stores that
// already hold data (a reused database) are left alone.
func seedStores(productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository, userRepo repositories.UserRepository) {
	if existing, err := productRepo.GetAll(); err == nil && len(existing) == 0 {
		products := []models.Product{
			{ID: 1, Name: "Smartphone", Description: "Latest model with high-end features", Price: 999.99, Stock: 50},
			{ID: 2, Name: "Laptop", Description: "Powerful laptop for professionals", Price: 1499.99, Stock: 20},
			{ID: 3, Name: "Headphones", Description: "Noise-cancelling wireless headphones", Price: 299.99, Stock: 100},
			{ID: 4, Name: "Smartwatch", Description: "Fitness and health tracking", Price: 249.99, Stock: 75},
			{ID: 5, Name: "Tablet", Description: "Lightweight and portable", Price: 599.99, Stock: 30},
		}
		for i := range products {
			if err := productRepo.Create(&products[i]); err != nil {
				log.Printf("Error seeding product %s: %v", products[i].Name, err)
			}
		}
	}

	if existing, err := orderRepo.GetAll(); err == nil && len(existing) == 0 {
		orders := []models.Order{
			{
				ID:     1,
				UserID: 101,
				Items: []models.OrderItem{
					{ProductID: 1, Quantity: 2, Price: 999.99},
					{ProductID: 3, Quantity: 1, Price: 299.99},
				},
				Status:    models.OrderStatusProcessing,
				CreatedAt: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				ID:     2,
				UserID: 102,
				Items: []models.OrderItem{
					{ProductID: 2, Quantity: 1, Price: 1499.99},
					{ProductID: 5, Quantity: 3, Price: 599.99},
				},
				Status:    models.OrderStatusShipped,
				CreatedAt: time.Date(2023, 3, 28, 0, 0, 0, 0, time.UTC),
			},
		}
		for i := range orders {
			for _, item := range orders[i].Items {
				orders[i].Total += item.Subtotal()
			}
			if err := orderRepo.Create(&orders[i]); err != nil {
				log.Printf("Error seeding order %d: %v", orders[i].ID, err)
			}
		}
	}

	if existing, err := userRepo.GetAll(); err == nil && len(existing) == 0 {
		users := []models.User{
			{ID: 101, Email: "john.doe@example.com", FirstName: "John", LastName: "Doe", Password: "password123", Role: models.RoleCustomer},
			{ID: 102, Email: "jane.smith@example.com", FirstName: "Jane", LastName: "Smith", Password: "password456", Role: models.RoleCustomer},
			{ID: 103, Email: "admin@example.com", FirstName: "Admin", LastName: "User", Password: "adminpass", Role: models.RoleAdmin},
		}
		for i := range users {
			if err := userRepo.Create(&users[i]); err != nil {
				log.Printf("Error seeding user %s: %v", users[i].Email, err)
			}
		}
	}
}
