package account

import (
	"errors"
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

// Login godoc
// @Summary      Log in with phone number and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body account.LoginRequest true "Credentials"
// @Success      200 {object} account.LoginResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !api.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid phone number or password"})
			return
		}
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Exchange a refresh token for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body account.RefreshRequest true "Refresh token"
// @Success      200 {object} account.RefreshResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !api.BindJSON(c, &req) {
		return
	}

	token, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: token, TokenType: "bearer"})
}

// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} account.Account
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	a, err := h.service.GetSelf(c.Request.Context(), userID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// @Summary      Create a client or trainer in the caller's gym
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body account.CreateAccountRequest true "User payload"
// @Success      201 {object} account.Account
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /users [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if !api.BindJSON(c, &req) {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	a, err := h.service.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// @Summary      Get a user of the caller's gym
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} account.Account
// @Failure      404 {object} api.ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	a, err := h.service.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

// @Summary      Delete a user without an active subscription
// @Tags         users
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      204
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /users/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	if err := h.service.Delete(c.Request.Context(), tenantID, id); err != nil {
		api.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Set a user's password
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body account.ChangePasswordRequest true "New password"
// @Success      200 {object} api.MessageResponse
// @Router       /users/{id}/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !api.BindJSON(c, &req) {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	if err := h.service.ChangePassword(c.Request.Context(), tenantID, id, req.Password); err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password updated"})
}

// @Summary      List trainers of the caller's gym
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} account.Account
// @Router       /trainers [get]
func (h *Handler) ListTrainers(c *gin.Context) {
	tenantID, _ := auth.GetTenantID(c)
	trainers, err := h.service.ListTrainers(c.Request.Context(), tenantID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, trainers)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
