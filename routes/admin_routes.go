package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/growcart/growcart_backend/controllers"
	"github.com/growcart/growcart_backend/middleware"
)

// RegisterAdminRoutes sets up the admin configuration surface: the rate
// table, the rank ladder, franchises, order fulfillment and user removal.
func RegisterAdminRoutes(e *echo.Echo, adminController *controllers.AdminController, orderController *controllers.OrderController, earningController *controllers.EarningController) {
	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireAdmin())

	// Commission rate table
	admin.GET("/commission-rates", adminController.GetCommissionRates)
	admin.PUT("/commission-rates", adminController.UpdateCommissionRates)

	// Rank ladder
	admin.POST("/ranks", adminController.CreateRank)
	admin.GET("/ranks", adminController.ListRanks)

	// Franchises
	admin.POST("/franchises", adminController.CreateFranchise)
	admin.GET("/franchises/:id", adminController.GetFranchise)

	// Order fulfillment drives commission distribution
	admin.PUT("/orders/:id/status", orderController.UpdateOrderStatus)

	// Withdrawal settlement
	admin.PUT("/withdrawals/:id/complete", earningController.CompleteWithdrawal)

	// Tree maintenance
	admin.DELETE("/users/:id", adminController.RemoveUser)
}
