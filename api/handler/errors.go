package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/solvr/models"
)

func respondError(c *gin.Context, status int, code, message string) {
	success := false
	c.JSON(status, models.ProcessResponse{
		Success: &success,
		Error:   &models.ErrorDetail{Code: code, Message: message},
	})
}

// toPipelineError returns err's PipelineError, wrapping foreign errors as
// INTERNAL_ERROR.
func toPipelineError(err error) *models.PipelineError {
	var pe *models.PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return models.NewPipelineError(models.ErrCodeInternal, err.Error(), err)
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.PipelineError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeParse:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeTransport:
		return http.StatusBadGateway // 502
	default:
		return http.StatusInternalServerError // 500
	}
}
