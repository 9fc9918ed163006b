package routes

import (
	"civicreporter-be/controllers"

	"github.com/gin-gonic/gin"
)

// ReportRoutes sets up the report routes. limiter guards submissions only.
func ReportRoutes(r *gin.Engine, rc *controllers.ReportController, limiter gin.HandlerFunc) {
	report := r.Group("/api/reports")
	{
		report.POST("", limiter, rc.CreateReport)
		report.GET("", rc.ListReports)
		report.GET("/map", rc.MapMarkers)
		report.GET("/nearby", rc.Nearby)
		report.GET("/slug/:slug", rc.GetReportBySlug)
		report.PUT("/:id/status", rc.UpdateStatus)
		report.GET("/:id/comments", rc.ListComments)
		report.POST("/:id/comments", rc.AddComment)
	}
}
