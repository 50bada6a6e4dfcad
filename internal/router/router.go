package router

import (
	"github.com/gin-gonic/gin"

	"lexmerge/internal/handler"
	"lexmerge/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health     *handler.HealthHandler
	Session    *handler.SessionHandler
	Extraction *handler.ExtractionHandler
	Merge      *handler.MergeHandler
	Export     *handler.ExportHandler
	Template   *handler.TemplateHandler
	Review     *handler.ReviewHandler
}

// Setup configures the Gin engine with all routes and middleware. limiter guards
// the endpoints that call an extraction provider.
func Setup(h Handlers, corsOrigins []string, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")
	limited := limiter.Middleware()

	// Review sessions
	sessions := v1.Group("/sessions")
	sessions.POST("", h.Session.Create)
	sessions.GET("/:id", h.Session.Get)
	sessions.DELETE("/:id", h.Session.Reset)
	sessions.POST("/:id/files", h.Session.UploadFiles)
	sessions.DELETE("/:id/files/:fileId", h.Session.RemoveFile)
	sessions.POST("/:id/extract", limited, h.Extraction.ExtractSession)
	sessions.PUT("/:id/record", h.Session.ReplaceRecord)
	sessions.PATCH("/:id/record/fields/:fieldId", h.Session.UpdateField)
	sessions.PATCH("/:id/record/sections", h.Session.UpdateSections)
	sessions.GET("/:id/export/:format", h.Export.ExportSession)
	sessions.POST("/:id/merge", h.Merge.MergeSession)
	sessions.GET("/:id/checks", h.Review.CheckSession)

	// Stateless operations
	v1.POST("/extract", limited, h.Extraction.Extract)
	v1.POST("/merge", h.Merge.Merge)
	v1.POST("/export/:format", h.Export.Export)
	v1.POST("/checks", h.Review.Check)

	// Template library
	templates := v1.Group("/templates")
	templates.POST("", h.Template.Upload)
	templates.GET("", h.Template.List)
	templates.GET("/:id/download", h.Template.Download)
	templates.DELETE("/:id", h.Template.Delete)

	return r
}
