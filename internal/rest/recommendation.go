package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"smartMarket/business/recommend"
	"smartMarket/domain"
	"smartMarket/pkg/logger"
	"smartMarket/pkg/metrics"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type (
	RecommendationHandler struct {
		validate    *validator.Validate
		recoService RecommendationService
		timeout     time.Duration
	}

	RecommendationService interface {
		RecommendForUser(ctx context.Context, userID string, topN int) ([]domain.RecommendationItem, error)
		RecommendFromInput(ctx context.Context, req recommend.FreeTextRequest) (*recommend.FreeTextResult, error)
		DetectUsers(ctx context.Context, productsInput, behaviorInput string) (*recommend.DetectedUsers, error)
	}

	// RecommendRequest carries pasted catalog and behavior data. Each field
	// accepts raw JSON or free text, forwarded to the parser as-is.
	RecommendRequest struct {
		Products         json.RawMessage `json:"products" validate:"required"`
		UserBehavior     json.RawMessage `json:"userBehavior" validate:"required"`
		AllUserBehaviors json.RawMessage `json:"allUserBehaviors"`
		TargetUserID     string          `json:"targetUserId"`
		TopN             int             `json:"topN"`
	}

	DetectUsersRequest struct {
		Products     json.RawMessage `json:"products" validate:"required"`
		UserBehavior json.RawMessage `json:"userBehavior" validate:"required"`
	}

	RecommendForUserQuery struct {
		N int `query:"n"`
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate:    validator.New(),
		recoService: svc,
		timeout:     30 * time.Second,
	}
}

// rawInput unwraps a JSON string literal so pasted free text arrives at the
// parser without surrounding quotes. Structured JSON passes through as-is.
func rawInput(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (h *RecommendationHandler) traceContext(c echo.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithValue(c.Request().Context(), recommend.TraceIDKey, uuid.NewString())
	return context.WithTimeout(ctx, h.timeout)
}

// POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.RecommendLatency)
	defer timer.ObserveDuration()
	metrics.RecommendRequests.Inc()

	var req RecommendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := h.traceContext(c)
	defer cancel()

	result, err := h.recoService.RecommendFromInput(ctx, recommend.FreeTextRequest{
		ProductsInput:         rawInput(req.Products),
		UserBehaviorInput:     rawInput(req.UserBehavior),
		AllUserBehaviorsInput: rawInput(req.AllUserBehaviors),
		TargetUserID:          req.TargetUserID,
		TopN:                  req.TopN,
	})
	if err != nil {
		logger.Error("Failed to generate recommendations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// POST /api/v1/recommendations/detect-users
func (h *RecommendationHandler) DetectUsers(c echo.Context) error {
	var req DetectUsersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := h.traceContext(c)
	defer cancel()

	detected, err := h.recoService.DetectUsers(ctx, rawInput(req.Products), rawInput(req.UserBehavior))
	if err != nil {
		logger.Error("Failed to detect users", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(detected))
}

// GET /api/v1/recommendations?n=10
func (h *RecommendationHandler) RecommendForUser(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.RecommendLatency)
	defer timer.ObserveDuration()
	metrics.RecommendRequests.Inc()

	uidVal := c.Get("user_id")
	userID, ok := uidVal.(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q RecommendForUserQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := h.traceContext(c)
	defer cancel()

	items, err := h.recoService.RecommendForUser(ctx, userID, q.N)
	if err != nil {
		logger.Error("Failed to recommend for user", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}
