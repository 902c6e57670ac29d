package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sefazor/examstore-backend/internal/config"
	"github.com/sefazor/examstore-backend/internal/controller"
	"github.com/sefazor/examstore-backend/internal/handler"
	"github.com/sefazor/examstore-backend/internal/middleware"
	"github.com/sefazor/examstore-backend/internal/repository"
	"github.com/sefazor/examstore-backend/internal/service"
	"github.com/sefazor/examstore-backend/pkg/database"
	"github.com/sefazor/examstore-backend/pkg/email"
	"github.com/sefazor/examstore-backend/pkg/payment"
	"github.com/sefazor/examstore-backend/pkg/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Config'i yükle
	cfg := config.LoadConfig()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// Initialize database
	db := database.NewDatabase()

	// Örnek katalog (lokal geliştirme)
	if err := database.SeedCatalog(db); err != nil {
		log.Fatal("Failed to seed catalog:", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	userPackageRepo := repository.NewUserPackageRepository(db)

	// Midtrans service
	midtransService := payment.NewMidtransService(cfg.Midtrans.ServerKey, cfg.Midtrans.IsProduction)

	// Email service
	emailService := email.NewEmailService()

	// Services
	promoService := service.NewPromoService(promoRepo)
	orderService := service.NewOrderService(
		db,
		productRepo,
		orderRepo,
		promoRepo,
		userPackageRepo,
		promoService,
		cfg.Orders.ExpireMinutes,
	)
	paymentService := service.NewPaymentService(
		midtransService,
		orderService,
		orderRepo,
		userRepo,
		emailService,
		zapLogger,
	)
	catalogService := service.NewCatalogService(productRepo, userPackageRepo)

	// Expiry sweeper
	sweeper := service.NewSweeperService(
		orderService,
		time.Duration(cfg.Orders.SweepIntervalSeconds)*time.Second,
		zapLogger,
	)
	sweeper.Start(context.Background())

	// Validator'ı önce tanımla
	validator := utils.NewValidator()

	// Controllers
	orderController := controller.NewOrderController(orderService)
	paymentController := controller.NewPaymentController(paymentService)
	promoController := controller.NewPromoController(orderService)
	catalogController := controller.NewCatalogController(catalogService)

	// Handlers
	orderHandler := handler.NewOrderHandler(orderController, paymentController, validator)
	paymentHandler := handler.NewPaymentHandler(paymentController, zapLogger)
	promoHandler := handler.NewPromoHandler(promoController, validator)
	catalogHandler := handler.NewCatalogHandler(catalogController)

	// Router
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "https://examstore.co, https://www.examstore.co, http://localhost:5173",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Midtrans webhook (public)
	api.Post("/payments/midtrans/callback", paymentHandler.HandleMidtransCallback)

	// Public catalog routes
	api.Get("/products", catalogHandler.GetProducts)
	api.Get("/products/:id", catalogHandler.GetProduct)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		orders := api.Group("/orders")
		orders.Post("/", orderHandler.CreateOrder)
		orders.Get("/", orderHandler.GetMyOrders)
		orders.Get("/:id", orderHandler.GetOrder)
		orders.Post("/:id/pay", orderHandler.PayOrder)

		api.Post("/promos/validate", promoHandler.ValidatePromo)

		api.Get("/user/packages", catalogHandler.GetMyPackages)

		admin := api.Group("/admin", middleware.AdminMiddleware())
		admin.Get("/orders", orderHandler.AdminListOrders)
		admin.Post("/orders/:id/mark-paid", orderHandler.AdminMarkPaid)
		admin.Post("/orders/:id/cancel", orderHandler.AdminCancelOrder)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Fatal(app.Listen(":" + port))
}
