// Package analytics derives summary statistics from a report collection.
package analytics

import (
	"math"
	"time"

	"civicreporter-be/models"
)

// Snapshot is a point-in-time summary. It is never persisted.
type Snapshot struct {
	TotalReports          int                          `json:"totalReports" yaml:"total_reports"`
	ReportsByStatus       map[models.IssueStatus]int   `json:"reportsByStatus" yaml:"reports_by_status"`
	ReportsByCategory     map[models.IssueCategory]int `json:"reportsByCategory" yaml:"reports_by_category"`
	ReportsByPriority     map[models.IssuePriority]int `json:"reportsByPriority" yaml:"reports_by_priority"`
	AverageResolutionTime int                          `json:"averageResolutionTime" yaml:"average_resolution_days"`
	ReportsThisMonth      int                          `json:"reportsThisMonth" yaml:"reports_this_month"`
	ReportsLastMonth      int                          `json:"reportsLastMonth" yaml:"reports_last_month"`
}

// Aggregate summarises reports as of now. Month boundaries are taken in
// now's location.
func Aggregate(reports []models.IssueReport, now time.Time) Snapshot {
	s := Snapshot{
		TotalReports:      len(reports),
		ReportsByStatus:   make(map[models.IssueStatus]int),
		ReportsByCategory: make(map[models.IssueCategory]int),
		ReportsByPriority: make(map[models.IssuePriority]int),
	}

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth := startOfMonth.AddDate(0, -1, 0)

	var resolved int
	var resolutionTotal time.Duration

	for _, r := range reports {
		s.ReportsByStatus[r.StatusOrDefault()]++
		s.ReportsByCategory[r.CategoryOrDefault()]++
		s.ReportsByPriority[r.PriorityOrDefault()]++

		created := r.Created()
		switch {
		case !created.Before(startOfMonth):
			s.ReportsThisMonth++
		case !created.Before(startOfLastMonth):
			s.ReportsLastMonth++
		}

		if r.Metadata.Status == models.Resolved && r.Metadata.ActualResolutionDate != nil && !r.Metadata.ActualResolutionDate.IsZero() {
			resolved++
			resolutionTotal += r.Metadata.ActualResolutionDate.Sub(created)
		}
	}

	if resolved > 0 {
		days := resolutionTotal.Hours() / 24 / float64(resolved)
		s.AverageResolutionTime = int(math.Round(days))
	}
	return s
}

// MonthlyGrowth is the percentage change from last month to this month.
func MonthlyGrowth(s Snapshot) float64 {
	if s.ReportsLastMonth == 0 {
		if s.ReportsThisMonth == 0 {
			return 0
		}
		return 100
	}
	return float64(s.ReportsThisMonth-s.ReportsLastMonth) / float64(s.ReportsLastMonth) * 100
}

// ActiveReports counts reports still awaiting resolution.
func ActiveReports(s Snapshot) int {
	active := 0
	for status, n := range s.ReportsByStatus {
		if status.IsActive() {
			active += n
		}
	}
	return active
}
