package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/growcart/growcart_backend/config"
	"github.com/growcart/growcart_backend/controllers"
	"github.com/growcart/growcart_backend/middleware"
	"github.com/growcart/growcart_backend/repositories"
	"github.com/growcart/growcart_backend/routes"
	"github.com/growcart/growcart_backend/services"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional, used for the rate-table cache)
	redisClient := config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "GrowCart Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserRepository(client)
	orderRepo := repositories.NewOrderRepository(client)
	earningRepo := repositories.NewEarningRepository(client)
	franchiseRepo := repositories.NewFranchiseRepository(client)
	rankRepo := repositories.NewRankRepository(client)
	userRankRepo := repositories.NewUserRankRepository(client)
	lockRepo := repositories.NewDistributionLockRepository(client)
	settingsRepo := repositories.NewSettingsRepository(client, redisClient)

	// Initialize services
	commissionService := services.NewCommissionService(userRepo, orderRepo, earningRepo, franchiseRepo, lockRepo, settingsRepo)
	rankService := services.NewRankService(userRepo, orderRepo, earningRepo, rankRepo, userRankRepo)
	networkService := services.NewNetworkService(userRepo)
	walletService := services.NewWalletService(earningRepo, lockRepo)

	// Initialize controllers
	authController := controllers.NewAuthController(userRepo)
	orderController := controllers.NewOrderController(orderRepo, commissionService)
	earningController := controllers.NewEarningController(earningRepo, walletService)
	networkController := controllers.NewNetworkController(userRepo, networkService, rankService)
	adminController := controllers.NewAdminController(settingsRepo, rankRepo, franchiseRepo, networkService)

	// Register routes
	routes.SetupRoutes(e, authController, orderController, earningController, networkController)
	routes.RegisterAdminRoutes(e, adminController, orderController, earningController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
