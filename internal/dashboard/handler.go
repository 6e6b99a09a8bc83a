package dashboard

import (
	"net/http"
	"strconv"

	"github.com/Abduqodir7007/fitness-crm/internal/api"
	"github.com/Abduqodir7007/fitness-crm/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Active clients, trainers and today's attendance
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} analytics.UserStats
// @Router       /dashboard/user-stats [get]
func (h *Handler) UserStats(c *gin.Context) {
	tenantID, _ := auth.GetTenantID(c)
	stats, err := h.service.UserStats(c.Request.Context(), tenantID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary      Active subscriptions by plan type
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} analytics.SubscriptionStats
// @Router       /dashboard/subscription/stats [get]
func (h *Handler) SubscriptionStats(c *gin.Context) {
	tenantID, _ := auth.GetTenantID(c)
	stats, err := h.service.SubscriptionStats(c.Request.Context(), tenantID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary      Day pass visits for the seven days ending yesterday
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} analytics.DayCount
// @Router       /dashboard/subscription/payment [get]
func (h *Handler) WeeklyClients(c *gin.Context) {
	tenantID, _ := auth.GetTenantID(c)
	series, err := h.service.WeeklyClients(c.Request.Context(), tenantID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// @Summary      Profit per month for the last five full months
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} analytics.MonthProfit
// @Router       /dashboard/monthly/payment [get]
func (h *Handler) MonthlyProfit(c *gin.Context) {
	tenantID, _ := auth.GetTenantID(c)
	series, err := h.service.MonthlyProfit(c.Request.Context(), tenantID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// @Summary      Daily, weekly and month-to-date profit
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} analytics.ProfitSummary
// @Router       /dashboard/profit [get]
func (h *Handler) Profit(c *gin.Context) {
	tenantID, _ := auth.GetTenantID(c)
	sum, err := h.service.Profit(c.Request.Context(), tenantID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, sum)
}

// @Summary      Subscriptions ending in the next three days
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} analytics.Expiring
// @Router       /dashboard/notifications [get]
func (h *Handler) Notifications(c *gin.Context) {
	tenantID, _ := auth.GetTenantID(c)
	rows, err := h.service.Notifications(c.Request.Context(), tenantID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// @Summary      Recent payments
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size, default 20"
// @Param        offset query int false "Offset"
// @Success      200 {array} subscription.PaymentRecord
// @Router       /dashboard/payments/history [get]
func (h *Handler) PaymentHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		api.BadRequest(c, "limit must be a number")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		api.BadRequest(c, "offset must be a number")
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	rows, err := h.service.PaymentHistory(c.Request.Context(), tenantID, limit, offset)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
