package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/solvr/api/middleware"
	"github.com/use-agent/solvr/models"
)

// JobStarter starts a background job for a URL. *pipeline.Pipeline
// satisfies it.
type JobStarter interface {
	Handle(url string)
}

// EstimatedTime is the fixed duration advertised to callers.
const EstimatedTime = "5 minutes"

// Process returns a handler for POST /api/process.
//
// The job is started detached and the response never reflects its outcome;
// only request validation errors reach the caller.
func Process(jobs JobStarter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProcessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, models.ErrCodeInvalidInput, "URL is required")
			return
		}
		if !validURL(req.URL) {
			respondError(c, http.StatusBadRequest, models.ErrCodeInvalidInput, "URL must be an absolute http(s) URL")
			return
		}

		slog.Info("processing started", "url", req.URL, "requestId", c.GetString(middleware.RequestIDKey))
		jobs.Handle(req.URL)

		c.JSON(http.StatusOK, models.ProcessResponse{
			Message:       "Processing started",
			EstimatedTime: EstimatedTime,
		})
	}
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
