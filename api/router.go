package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/use-agent/solvr/api/handler"
	"github.com/use-agent/solvr/api/middleware"
	"github.com/use-agent/solvr/config"
)

// Deps are the collaborators the routes call into.
type Deps struct {
	Jobs      handler.JobStarter
	Renderer  handler.DocRenderer // nil disables /api/generate-doc
	StartTime time.Time
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger
//	Process: RateLimit (if enabled)
//
// ctx bounds background middleware goroutines.
func NewRouter(ctx context.Context, deps Deps, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())

	health := handler.Health(cfg.Server.Service, cfg.Server.Version, deps.StartTime)
	r.GET("/", health)
	r.GET("/health", health)

	apiGroup := r.Group("/api")

	process := apiGroup.Group("")
	if cfg.RateLimit.Enabled {
		process.Use(middleware.RateLimit(ctx, cfg.RateLimit))
	}
	process.POST("/process", handler.Process(deps.Jobs))

	if cfg.Server.DocAPI && deps.Renderer != nil {
		apiGroup.POST("/generate-doc", handler.GenerateDoc(deps.Renderer))
	}

	return r
}

// WithCORS wraps h so the browser extension can call it cross-origin.
// An empty origin list, or one containing "*", allows every origin.
func WithCORS(h http.Handler, origins []string) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowedOrigins = origins
	}
	return cors.New(opts).Handler(h)
}
