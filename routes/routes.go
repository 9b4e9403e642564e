package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/growcart/growcart_backend/controllers"
	"github.com/growcart/growcart_backend/middleware"
)

// SetupRoutes registers the public auth routes and the protected user-facing
// API: orders, earnings and the referral network.
func SetupRoutes(e *echo.Echo, authController *controllers.AuthController, orderController *controllers.OrderController, earningController *controllers.EarningController, networkController *controllers.NetworkController) {
	// Public routes
	auth := e.Group("/api/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)

	// Protected routes group
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	// Order routes
	r.POST("/orders", orderController.CreateOrder)
	r.GET("/orders", orderController.ListMyOrders)
	r.GET("/orders/:id", orderController.GetOrder)

	// Earning routes
	r.GET("/earnings", earningController.ListMyEarnings)
	r.GET("/earnings/balance", earningController.GetBalance)
	r.POST("/earnings/withdrawals", earningController.RequestWithdrawal)

	// Network routes
	r.GET("/network/upline", networkController.GetUplineChain)
	r.GET("/network/tree", networkController.GetNetworkTree)
	r.GET("/network/team-stats", networkController.GetTeamStats)
	r.POST("/network/rank/recompute", networkController.RecomputeRank)
	r.GET("/network/referral-data", networkController.GetReferralData)
	r.GET("/network/referral-qr", networkController.GetReferralQR)
}
