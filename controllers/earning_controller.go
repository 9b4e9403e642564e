package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/growcart/growcart_backend/middleware"
	"github.com/growcart/growcart_backend/models"
	"github.com/growcart/growcart_backend/repositories"
	"github.com/growcart/growcart_backend/services"
)

type EarningController struct {
	earnings *repositories.EarningRepository
	wallet   *services.WalletService
}

func NewEarningController(earnings *repositories.EarningRepository, wallet *services.WalletService) *EarningController {
	return &EarningController{earnings: earnings, wallet: wallet}
}

// ListMyEarnings returns the authenticated user's ledger entries, newest first.
func (ec *EarningController) ListMyEarnings(c echo.Context) error {
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

	earnings, err := ec.earnings.ListByUser(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Earnings fetched successfully",
		Data:    earnings,
	})
}

// GetBalance returns the signed sum of the user's ledger.
func (ec *EarningController) GetBalance(c echo.Context) error {
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

	balance, err := ec.earnings.Balance(ctx, objID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Balance fetched successfully",
		Data:    map[string]float64{"balance": balance},
	})
}

// RequestWithdrawal appends a pending negative ledger entry. The amount must
// not exceed the current balance; concurrent requests for the same user are
// serialized so they cannot both pass the balance check.
func (ec *EarningController) RequestWithdrawal(c echo.Context) error {
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

	var req models.WithdrawalRequest
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

	earning, err := ec.wallet.RequestWithdrawal(ctx, objID, req.Amount)
	if err != nil {
		switch err {
		case services.ErrInsufficientBalance:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Withdrawal amount exceeds balance",
			})
		case services.ErrWithdrawalInProgress:
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Another withdrawal request is being processed",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record withdrawal",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Withdrawal requested successfully",
		Data:    earning,
	})
}

// CompleteWithdrawal marks a pending withdrawal as settled. Admin only.
func (ec *EarningController) CompleteWithdrawal(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	earningID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid earning ID format",
		})
	}

	if err := ec.earnings.UpdateStatus(ctx, earningID, models.EarningStatusCompleted); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to complete withdrawal",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Withdrawal completed successfully",
	})
}
