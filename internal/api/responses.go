package api

import (
	"net/http"

	"github.com/Abduqodir7007/fitness-crm/internal/apperr"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type IDResponse struct {
	ID string `json:"id" example:"6f1c2a52-7d8e-4b7a-9a8e-1c2d3e4f5a6b"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as {"error": reason}. Dependency and unclassified
// failures are logged and their cause is not exposed.
func WriteError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error("request failed", "path", c.FullPath(), "method", c.Request.Method)
		msg := "Internal server error"
		if status == http.StatusServiceUnavailable {
			msg = "Service temporarily unavailable"
		}
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	c.JSON(status, ErrorResponse{Error: apperr.Reason(err)})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
