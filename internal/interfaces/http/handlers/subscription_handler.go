package handlers

import (
	"net/http"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"bitwill.backend/internal/interfaces/http/middleware"
	"bitwill.backend/internal/interfaces/http/response"
	"bitwill.backend/internal/usecases"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles subscription endpoints
type SubscriptionHandler struct {
	subUsecase *usecases.SubscriptionUsecase
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subUsecase *usecases.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{
		subUsecase: subUsecase,
	}
}

// Plans returns the plan catalog
// GET /api/v1/subscriptions/plans
func (h *SubscriptionHandler) Plans(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"plans": h.subUsecase.Plans()})
}

// Status returns the user's subscription status
// GET /api/v1/subscriptions/status
func (h *SubscriptionHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Not authenticated"))
		return
	}

	status, err := h.subUsecase.Status(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

// Checkout activates a plan for the user
// POST /api/v1/subscriptions/checkout
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Not authenticated"))
		return
	}

	var input entities.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	sub, err := h.subUsecase.Checkout(c.Request.Context(), userID, &input)
	if err != nil {
		if err == domainerrors.ErrInvalidInput {
			response.Error(c, domainerrors.BadRequest("Unknown plan"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, sub)
}

// Cancel cancels the user's active subscription
// POST /api/v1/subscriptions/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Not authenticated"))
		return
	}

	if err := h.subUsecase.Cancel(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Subscription canceled"})
}
