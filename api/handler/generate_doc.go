package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/solvr/models"
)

// DocRenderer renders a solution to a PDF. render.Renderer satisfies it.
type DocRenderer interface {
	Render(ctx context.Context, sol *models.Solution) (*models.Artifact, error)
}

// GenerateDoc returns a handler for POST /api/generate-doc.
//
// The body is a solution document; the PDF is written to the output
// directory and its location is returned. Rendering is synchronous.
func GenerateDoc(r DocRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sol models.Solution
		if err := c.ShouldBindJSON(&sol); err != nil {
			c.JSON(http.StatusBadRequest, models.GenerateDocResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		start := time.Now()
		a, err := r.Render(c.Request.Context(), &sol)
		if err != nil {
			pe := toPipelineError(err)
			slog.Error("document generation failed", "code", pe.Code, "error", err)
			c.JSON(mapErrorToStatus(pe), models.GenerateDocResponse{
				Success: false,
				Error:   pe.ToDetail(),
			})
			return
		}
		slog.Info("document generated", "file", a.Filename, "size", a.Size, "duration", time.Since(start))

		c.JSON(http.StatusOK, models.GenerateDocResponse{
			Success:  true,
			Filename: a.Filename,
			Filepath: a.Path,
			Size:     a.Size,
		})
	}
}
