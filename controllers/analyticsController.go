package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civicreporter-be/analytics"
	"civicreporter-be/models"
)

// ReportLister is the read side analytics is computed from.
type ReportLister interface {
	ListReports(ctx context.Context) ([]models.IssueReport, error)
}

type AnalyticsController struct {
	reports ReportLister
	nowFn   func() time.Time
}

func NewAnalyticsController(svc ReportLister) *AnalyticsController {
	return &AnalyticsController{reports: svc, nowFn: time.Now}
}

type analyticsResponse struct {
	analytics.Snapshot
	MonthlyGrowth float64 `json:"monthlyGrowth"`
	ActiveReports int     `json:"activeReports"`
}

// GetAnalytics summarises the live report collection
func (ac *AnalyticsController) GetAnalytics(c *gin.Context) {
	all, err := ac.reports.ListReports(c.Request.Context())
	if err != nil {
		respondError(c, err, "Reports not found", "Failed to get analytics data")
		return
	}

	snapshot := analytics.Aggregate(all, ac.nowFn())
	c.JSON(http.StatusOK, analyticsResponse{
		Snapshot:      snapshot,
		MonthlyGrowth: analytics.MonthlyGrowth(snapshot),
		ActiveReports: analytics.ActiveReports(snapshot),
	})
}
