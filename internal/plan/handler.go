package plan

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

// @Summary      Create a subscription plan
// @Tags         admin,plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body plan.CreatePlanRequest true "Plan payload"
// @Success      201 {object} plan.Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/subscription_plans [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if !api.BindJSON(c, &req) {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	p, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      List active subscription plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} plan.Plan
// @Router       /admin/subscription_plans [get]
func (h *Handler) List(c *gin.Context) {
	tenantID, _ := auth.GetTenantID(c)
	plans, err := h.service.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// @Summary      Deactivate a subscription plan
// @Tags         admin,plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Plan ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/subscription_plans/deactivate/{id} [put]
func (h *Handler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid plan ID")
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	if err := h.service.Deactivate(c.Request.Context(), tenantID, id); err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Subscription plan deactivated"})
}

// @Summary      Delete an unreferenced subscription plan
// @Tags         admin,plans
// @Security     BearerAuth
// @Param        id path string true "Plan ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/subscription_plans/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid plan ID")
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		api.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
