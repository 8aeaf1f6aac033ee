package app

import (
	"assessment_builder/internal/config"
	"assessment_builder/internal/middleware"
	"assessment_builder/internal/model"
	"assessment_builder/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))

	drafts := teacher.Group("/drafts")
	{
		drafts.POST("", c.draft.Create)
		drafts.GET("/:id", c.draft.Get)
		drafts.PUT("/:id", c.draft.Save)
		drafts.DELETE("/:id/session", c.draft.Close)
		drafts.POST("/:id/actions", c.draft.Dispatch)

		drafts.POST("/:id/editor", c.draft.BeginEditor)
		drafts.GET("/:id/editor", c.draft.GetEditor)
		drafts.DELETE("/:id/editor", c.draft.CancelEditor)
		drafts.POST("/:id/editor/actions", c.draft.DispatchEditor)
		drafts.POST("/:id/editor/commit", c.draft.CommitEditor)

		drafts.POST("/:id/pages/:pageId/images", c.draft.UploadImage)
		drafts.PUT("/:id/pages/:pageId/images/:contentId", c.draft.ReplaceImage)
		drafts.DELETE("/:id/pages/:pageId/contents/:contentId", c.draft.RemoveContent)
	}
}
