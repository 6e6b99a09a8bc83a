package tenant

import (
	"errors"
	"net/http"

	"github.com/Abduqodir7007/fitness-crm/internal/api"

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

type AdminCountResponse struct {
	ActiveAdmins int `json:"active_admins"`
}

// @Summary      Bootstrap the first super admin
// @Description  Only available while ALLOW_BOOTSTRAP is enabled
// @Tags         superadmin
// @Accept       json
// @Produce      json
// @Param        request body tenant.AdminInput true "Super admin payload"
// @Success      201 {object} api.IDResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /superadmin/create-super-admin [post]
func (h *Handler) BootstrapSuperAdmin(c *gin.Context) {
	var req AdminInput
	if !api.BindJSON(c, &req) {
		return
	}

	id, err := h.service.BootstrapSuperAdmin(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrBootstrapDisabled) {
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Bootstrap is disabled"})
			return
		}
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.IDResponse{ID: id.String()})
}

// @Summary      Create a gym together with its admin account
// @Tags         superadmin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body tenant.CreateGymRequest true "Gym payload"
// @Success      201 {object} tenant.CreateGymResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /superadmin/create-gym [post]
func (h *Handler) CreateGym(c *gin.Context) {
	var req CreateGymRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateWithAdmin(c.Request.Context(), req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary      List gyms with their admins
// @Tags         superadmin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} tenant.TenantWithAdmin
// @Router       /superadmin/gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.service.List(c.Request.Context())
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gyms)
}

// @Summary      Toggle a gym's active flag
// @Tags         superadmin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Gym ID"
// @Success      200 {object} tenant.Tenant
// @Failure      404 {object} api.ErrorResponse
// @Router       /superadmin/gym/{id} [patch]
func (h *Handler) ToggleActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	t, err := h.service.ToggleActive(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Enable or disable the marketplace for a gym
// @Tags         superadmin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Gym ID"
// @Param        request body tenant.MarketplaceRequest true "Marketplace flag"
// @Success      200 {object} tenant.Tenant
// @Failure      404 {object} api.ErrorResponse
// @Router       /superadmin/gym/{id}/marketplace [patch]
func (h *Handler) SetMarketplace(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req MarketplaceRequest
	if !api.BindJSON(c, &req) {
		return
	}

	t, err := h.service.SetMarketplace(c.Request.Context(), id, *req.Enabled)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Delete a gym and its admin
// @Tags         superadmin
// @Security     BearerAuth
// @Param        id path string true "Gym ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Router       /superadmin/gyms/{id} [delete]
func (h *Handler) DeleteGym(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		api.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Count active gym admins
// @Tags         superadmin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} tenant.AdminCountResponse
// @Router       /superadmin/admin-users [get]
func (h *Handler) CountAdmins(c *gin.Context) {
	n, err := h.service.CountActiveAdmins(c.Request.Context())
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, AdminCountResponse{ActiveAdmins: n})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid gym ID")
		return uuid.Nil, false
	}
	return id, true
}
