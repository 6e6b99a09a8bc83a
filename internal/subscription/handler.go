package subscription

import (
	"net/http"

	"github.com/Abduqodir7007/fitness-crm/internal/api"
	"github.com/Abduqodir7007/fitness-crm/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Assign a subscription plan to a client
// @Description  Records the subscription and its payment in one transaction
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.AssignRequest true "Assignment payload"
// @Success      201 {object} subscription.Assignment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscription/assign [post]
func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if !api.BindJSON(c, &req) {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	a, err := h.service.AssignSubscription(c.Request.Context(), tenantID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// @Summary      Sell a day pass
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.DailyPassRequest true "Day pass payload"
// @Success      201 {object} subscription.Assignment
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /subscriptions/assign/daily [post]
func (h *Handler) AssignDaily(c *gin.Context) {
	var req DailyPassRequest
	if !api.BindJSON(c, &req) {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	a, err := h.service.AssignDailyPass(c.Request.Context(), tenantID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// @Summary      Subscription history of a user
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {array} subscription.SubscriptionDetail
// @Router       /users/{id}/subscriptions [get]
func (h *Handler) ListForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid user ID")
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	subs, err := h.service.ListForUser(c.Request.Context(), tenantID, userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary      Whether a user holds an active subscription or a day pass for today
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} subscription.ActiveStatusResponse
// @Router       /users/{id}/active [get]
func (h *Handler) ActiveStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid user ID")
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	active, err := h.service.IsActiveSubscriber(c.Request.Context(), tenantID, userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, ActiveStatusResponse{UserID: userID, IsActive: active})
}
