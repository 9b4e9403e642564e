package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/growcart/growcart_backend/middleware"
	"github.com/growcart/growcart_backend/models"
	"github.com/growcart/growcart_backend/repositories"
	"github.com/growcart/growcart_backend/services"
)

type OrderController struct {
	orders      *repositories.OrderRepository
	commissions *services.CommissionService
}

func NewOrderController(orders *repositories.OrderRepository, commissions *services.CommissionService) *OrderController {
	return &OrderController{orders: orders, commissions: commissions}
}

// CreateOrder records a checkout for the authenticated user.
func (oc *OrderController) CreateOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.GetUserIDFromToken(c)
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	var totalAmount, totalPV float64
	for _, item := range req.Items {
		if item.ProductPrice < 0 || item.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Item price must be non-negative and quantity positive",
			})
		}
		totalAmount += item.ProductPrice * float64(item.Quantity)
		totalPV += item.PV * float64(item.Quantity)
	}

	order := &models.Order{
		OrderNumber: uuid.NewString(),
		UserID:      objID,
		Items:       req.Items,
		TotalAmount: totalAmount,
		TotalPV:     totalPV,
		Status:      models.OrderStatusPending,
		OrderType:   req.OrderType,
	}

	if req.FranchiseID != "" {
		franchiseID, err := primitive.ObjectIDFromHex(req.FranchiseID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid franchise ID format",
			})
		}
		order.FranchiseID = &franchiseID
	}

	if err := oc.orders.Insert(ctx, order); err != nil {
		log.Printf("Failed to insert order for user %s: %v", userID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create order",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Order created successfully",
		Data:    order,
	})
}

// UpdateOrderStatus moves an order through its state machine. The first
// transition into delivered triggers commission distribution synchronously;
// the distribution itself is idempotent, so a retried transition cannot pay
// an order twice.
func (oc *OrderController) UpdateOrderStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid order ID format",
		})
	}

	var req models.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	order, err := oc.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	if !order.CanTransition(req.Status) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid status transition from " + order.Status + " to " + req.Status,
		})
	}

	var deliveredAt *time.Time
	if req.Status == models.OrderStatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	if err := oc.orders.UpdateStatus(ctx, order.ID, req.Status, deliveredAt); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update order status",
			Data:    err.Error(),
		})
	}
	order.Status = req.Status
	order.DeliveredAt = deliveredAt

	if req.Status == models.OrderStatusDelivered {
		if err := oc.commissions.DistributeOrderCommissions(ctx, order); err != nil {
			log.Printf("MLM distribution for order %s failed: %v", order.ID.Hex(), err)
		}
		if err := oc.commissions.DistributeSelfCommission(ctx, order); err != nil {
			log.Printf("Self rebate for order %s failed: %v", order.ID.Hex(), err)
		}
		if err := oc.commissions.DistributeFranchiseCommission(ctx, order); err != nil {
			log.Printf("Franchise distribution for order %s failed: %v", order.ID.Hex(), err)
		}

		// Return the order with its freshly mirrored commission caches.
		if updated, err := oc.orders.FindByID(ctx, order.ID); err == nil {
			order = updated
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order status updated successfully",
		Data:    order,
	})
}

// GetOrder returns one order.
func (oc *OrderController) GetOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid order ID format",
		})
	}

	order, err := oc.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order fetched successfully",
		Data:    order,
	})
}

// ListMyOrders returns the authenticated user's orders, newest first.
func (oc *OrderController) ListMyOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := middleware.GetUserIDFromToken(c)
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	orders, err := oc.orders.FindByUser(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Orders fetched successfully",
		Data:    orders,
	})
}
