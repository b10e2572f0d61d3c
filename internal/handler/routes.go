package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-processing-api/internal/middleware"
	"github.com/noah-isme/result-processing-api/internal/models"
)

// Handlers bundles every API handler mounted by RegisterRoutes.
type Handlers struct {
	Results  *ResultHandler
	GPA      *GPAHandler
	Grading  *GradingScaleHandler
	Sessions *SessionHandler
	Settings *SettingsHandler
	Reports  *ReportHandler
	Audit    *AuditHandler
}

// RegisterRoutes mounts the authenticated API on api.
func RegisterRoutes(api *gin.RouterGroup, auth middleware.TokenValidator, h Handlers) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleHOD, models.RoleLecturer)
	scoring := middleware.RequireRoles(models.RoleAdmin, models.RoleLecturer)
	reviewers := middleware.RequireRoles(models.RoleAdmin, models.RoleHOD)
	students := middleware.RequireRoles(models.RoleStudent)

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	results := protected.Group("/results")
	{
		results.GET("", h.Results.List)
		results.GET("/me", students, h.Results.Mine)
		results.GET("/:id", h.Results.Get)
		results.POST("", scoring, h.Results.Record)
		results.POST("/bulk", scoring, h.Results.BulkRecord)
		results.POST("/import", scoring, h.Results.Import)
		results.POST("/submit", scoring, h.Results.Submit)
		results.POST("/approve", reviewers, h.Results.Approve)
		results.POST("/reject", reviewers, h.Results.Reject)
		results.POST("/publish", admin, h.Results.Publish)
		results.PUT("/:id/override", admin, h.Results.Override)
	}

	protected.GET("/courses/:id/results", staff, h.Results.ByCourse)
	protected.GET("/courses/:id/results/template", scoring, h.Results.Template)

	studentRoutes := protected.Group("/students/:id", staff)
	{
		studentRoutes.GET("/results", h.Results.ForStudent)
		studentRoutes.GET("/gpa", h.GPA.Student)
		studentRoutes.GET("/gpa/history", h.GPA.History)
		studentRoutes.POST("/gpa/recompute", admin, h.GPA.Recompute)
	}
	protected.GET("/gpa/me", students, h.GPA.Mine)
	protected.POST("/gpa/reconcile", admin, h.GPA.Reconcile)

	grading := protected.Group("/grading-scales")
	{
		grading.GET("", h.Grading.List)
		grading.POST("", admin, h.Grading.Create)
		grading.POST("/defaults", admin, h.Grading.InitializeDefaults)
		grading.PUT("/:id", admin, h.Grading.Update)
		grading.DELETE("/:id", admin, h.Grading.Delete)
	}

	sessions := protected.Group("/sessions")
	{
		sessions.GET("", h.Sessions.List)
		sessions.GET("/active", h.Sessions.Active)
		sessions.POST("", admin, h.Sessions.Create)
		sessions.POST("/:id/activate", admin, h.Sessions.Activate)
		sessions.POST("/:id/semesters/:semester/lock", admin, h.Sessions.Lock)
		sessions.DELETE("/:id/semesters/:semester/lock", admin, h.Sessions.Unlock)
	}

	settings := protected.Group("/settings")
	{
		settings.GET("", h.Settings.List)
		settings.GET("/:key", h.Settings.Get)
		settings.PUT("/:key", admin, h.Settings.Update)
	}

	protected.GET("/reports/department", reviewers, h.Reports.Department)
	protected.GET("/audit-logs", admin, h.Audit.List)
}
