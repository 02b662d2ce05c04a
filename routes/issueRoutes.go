package routes

import (
	"civiceye-be/controllers"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. gate guards government-only
// operations; createGuards run in order before issue creation.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, gate gin.HandlerFunc, createGuards ...gin.HandlerFunc) {
	issue := r.Group("/api/issues")
	{
		create := append(append([]gin.HandlerFunc{}, createGuards...), ic.CreateIssue)
		issue.POST("", create...)
		issue.GET("", gate, ic.GetAllIssues)
		issue.GET("/heatmap", ic.IssueHeatmap)
		issue.GET("/stats", gate, ic.GetIssueStats)
		issue.GET("/:id", ic.GetIssue)
		issue.PATCH("/:id", gate, ic.UpdateIssue)
	}
}
