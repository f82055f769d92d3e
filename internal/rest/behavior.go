package rest

import (
	"context"
	"net/http"
	"smartMarket/domain"
	"smartMarket/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	BehaviorHandler struct {
		validate        *validator.Validate
		behaviorService BehaviorService
		timeout         time.Duration
	}

	BehaviorService interface {
		Track(ctx context.Context, event *domain.BehaviorEvent) error
		BehaviorForUser(ctx context.Context, userID string) (domain.UserBehavior, error)
	}

	TrackEventRequest struct {
		ProductID string            `json:"product_id" validate:"required"`
		EventType string            `json:"event_type" validate:"required"`
		Value     float64           `json:"value"`
		Context   datatypes.JSONMap `json:"context"`
	}
)

func NewBehaviorHandler(svc BehaviorService) *BehaviorHandler {
	return &BehaviorHandler{
		validate:        validator.New(),
		behaviorService: svc,
		timeout:         10 * time.Second,
	}
}

// POST /api/v1/behavior/events
func (h *BehaviorHandler) TrackEvent(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req TrackEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	event := domain.BehaviorEvent{
		UserID:    userID,
		ProductID: req.ProductID,
		EventType: req.EventType,
		Value:     req.Value,
		Context:   req.Context,
	}

	if err := h.behaviorService.Track(ctx, &event); err != nil {
		logger.Error("Failed to track behavior event", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("event recorded"))
}

// GET /api/v1/behavior/me
func (h *BehaviorHandler) MyBehavior(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	behavior, err := h.behaviorService.BehaviorForUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to load behavior", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(behavior))
}
