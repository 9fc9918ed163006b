package routes

import (
	"civicreporter-be/controllers"

	"github.com/gin-gonic/gin"
)

// ReferenceRoutes sets up the read-only reference data and analytics routes
func ReferenceRoutes(r *gin.Engine, rc *controllers.ReferenceController, ac *controllers.AnalyticsController) {
	api := r.Group("/api")
	{
		api.GET("/departments", rc.ListDepartments)
		api.GET("/staff", rc.ListStaff)
		api.GET("/categories", rc.ListCategories)
		api.GET("/categories/:category/department", rc.DepartmentForCategory)
		api.GET("/analytics", ac.GetAnalytics)
	}
}
