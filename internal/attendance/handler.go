package attendance

import (
	"net/http"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/api"
	"github.com/Abduqodir7007/fitness-crm/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Mark a client as present today
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body attendance.CheckInRequest true "Check-in payload"
// @Success      201 {object} attendance.Attendance
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /users/attendance [post]
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if !api.BindJSON(c, &req) {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	a, err := h.service.CheckIn(c.Request.Context(), tenantID, req.UserID)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// @Summary      Attendance of one day
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "YYYY-MM-DD, defaults to today"
// @Success      200 {array} attendance.AttendanceWithUser
// @Failure      400 {object} api.ErrorResponse
// @Router       /users/attendance/list [get]
func (h *Handler) List(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	rows, err := h.service.ListByDate(c.Request.Context(), tenantID, date)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// @Summary      Attendance history of a user
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string true  "User ID"
// @Param        from query string false "YYYY-MM-DD"
// @Param        to   query string false "YYYY-MM-DD"
// @Success      200 {array} attendance.Attendance
// @Router       /users/{id}/attendance [get]
func (h *Handler) ListForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequest(c, "Invalid user ID")
		return
	}
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}

	tenantID, _ := auth.GetTenantID(c)
	rows, err := h.service.ListForUser(c.Request.Context(), tenantID, userID, from, to)
	if err != nil {
		api.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		api.BadRequest(c, name+" must be YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}
