package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/growcart/growcart_backend/middleware"
	"github.com/growcart/growcart_backend/models"
	"github.com/growcart/growcart_backend/repositories"
	"github.com/growcart/growcart_backend/services"
)

// AdminController is the configuration surface: the level rate table, the
// rank ladder, franchises, and removal of users from the referral tree.
type AdminController struct {
	settings   *repositories.SettingsRepository
	ranks      *repositories.RankRepository
	franchises *repositories.FranchiseRepository
	network    *services.NetworkService
}

func NewAdminController(settings *repositories.SettingsRepository, ranks *repositories.RankRepository, franchises *repositories.FranchiseRepository, network *services.NetworkService) *AdminController {
	return &AdminController{
		settings:   settings,
		ranks:      ranks,
		franchises: franchises,
		network:    network,
	}
}

// GetCommissionRates returns the current rate-table snapshot.
func (ac *AdminController) GetCommissionRates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := ac.settings.Snapshot(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission rates fetched successfully",
		Data:    settings,
	})
}

// UpdateCommissionRates replaces the level rate table. Exactly 5 non-negative
// decimal fractions are required; sum and monotonicity are deliberately not
// checked.
func (ac *AdminController) UpdateCommissionRates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.UpdateCommissionRatesRequest
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
			Message: "Rate table must contain exactly 5 non-negative fractions",
			Data:    err.Error(),
		})
	}

	adminID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	settings, err := ac.settings.Replace(ctx, req.LevelRates, req.SelfRate, adminID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update commission rates",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission rates updated successfully",
		Data:    settings,
	})
}

// CreateRank adds a tier to the rank ladder.
func (ac *AdminController) CreateRank(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateRankRequest
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

	rank := &models.Rank{
		Name:         req.Name,
		Level:        req.Level,
		Requirements: req.Requirements,
		RewardBonus:  req.RewardBonus,
	}
	if err := ac.ranks.Insert(ctx, rank); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "A rank with this level already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create rank",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Rank created successfully",
		Data:    rank,
	})
}

// ListRanks returns the rank ladder ordered by level.
func (ac *AdminController) ListRanks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ranks, err := ac.ranks.ListOrdered(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Ranks fetched successfully",
		Data:    ranks,
	})
}

// CreateFranchise registers a franchise and its owner's commission cut.
func (ac *AdminController) CreateFranchise(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateFranchiseRequest
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

	ownerID, err := primitive.ObjectIDFromHex(req.OwnerID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid owner ID format",
		})
	}

	franchise := &models.Franchise{
		OwnerID:              ownerID,
		Name:                 req.Name,
		CommissionPercentage: req.CommissionPercentage,
	}
	if err := ac.franchises.Insert(ctx, franchise); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create franchise",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Franchise created successfully",
		Data:    franchise,
	})
}

// GetFranchise returns one franchise with its running totals.
func (ac *AdminController) GetFranchise(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	franchiseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid franchise ID format",
		})
	}

	franchise, err := ac.franchises.FindByID(ctx, franchiseID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Franchise not found",
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
		Message: "Franchise fetched successfully",
		Data:    franchise,
	})
}

// RemoveUser deletes a user from the referral tree after promoting its
// children to their grandparent.
func (ac *AdminController) RemoveUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	if err := ac.network.RemoveUser(ctx, userID); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to remove user",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User removed successfully",
	})
}
