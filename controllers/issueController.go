package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"civicreporter-be/models"
	"civicreporter-be/reports"
	"civicreporter-be/utils"
)

// ReportService is the report lifecycle the HTTP layer drives.
type ReportService interface {
	CreateReport(ctx context.Context, in models.NewReport) (models.IssueReport, error)
	ListReports(ctx context.Context) ([]models.IssueReport, error)
	GetReportBySlug(ctx context.Context, slug string) (models.IssueReport, error)
	UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (models.IssueReport, error)
	ListComments(ctx context.Context, reportID string, includeInternal bool) ([]models.Comment, error)
	AddComment(ctx context.Context, reportID string, in models.NewComment) (models.Comment, error)
}

type ReportController struct {
	reports ReportService
	nowFn   func() time.Time
}

func NewReportController(svc ReportService) *ReportController {
	return &ReportController{reports: svc, nowFn: time.Now}
}

const (
	defaultNearbyRadiusKm = 5.0
	maxPageLimit          = 100
)

// CreateReport handles a resident's multipart report submission
func (rc *ReportController) CreateReport(c *gin.Context) {
	var input struct {
		Title           string   `form:"title" binding:"max=200"`
		Description     string   `form:"description" binding:"required,max=5000"`
		Category        string   `form:"category" binding:"required"`
		ReporterEmail   string   `form:"reporter_email" binding:"required"`
		ReporterName    string   `form:"reporter_name" binding:"max=200"`
		ReporterPhone   string   `form:"reporter_phone"`
		LocationAddress string   `form:"location_address" binding:"max=500"`
		LocationLat     *float64 `form:"location_lat" binding:"required"`
		LocationLng     *float64 `form:"location_lng" binding:"required"`
	}

	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	in := models.NewReport{
		Title:           input.Title,
		Description:     input.Description,
		Category:        models.IssueCategory(input.Category),
		Latitude:        *input.LocationLat,
		Longitude:       *input.LocationLng,
		LocationAddress: input.LocationAddress,
		ReporterEmail:   input.ReporterEmail,
		ReporterName:    input.ReporterName,
		ReporterPhone:   input.ReporterPhone,
	}

	if fh, err := c.FormFile("photo"); err == nil && fh.Size > 0 {
		in.Photo = &models.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		}
	} else if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo upload"})
		return
	}

	report, err := rc.reports.CreateReport(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Report not found", "Failed to create report")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"report":  report,
		"slug":    report.Slug,
	})
}

// ListReports returns reports newest first, with optional filtering and paging
func (rc *ReportController) ListReports(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	all, err := rc.reports.ListReports(c.Request.Context())
	if err != nil {
		respondError(c, err, "Reports not found", "Failed to fetch issue reports")
		return
	}

	c.JSON(http.StatusOK, reports.Apply(all, filter, rc.nowFn()))
}

func parseFilter(c *gin.Context) (reports.Filter, error) {
	f := reports.Filter{
		Search: c.Query("search"),
		Range:  c.DefaultQuery("range", reports.RangeAll),
		Sort:   c.DefaultQuery("sort", reports.SortNewest),
	}
	if !reports.ValidRange(f.Range) {
		return f, errors.New("invalid range")
	}
	if !reports.ValidSort(f.Sort) {
		return f, errors.New("invalid sort")
	}

	for _, s := range splitQuery(c.Query("status")) {
		status := models.IssueStatus(s)
		if !status.IsValid() {
			return f, errors.New("invalid status")
		}
		f.Statuses = append(f.Statuses, status)
	}
	for _, s := range splitQuery(c.Query("category")) {
		category := models.IssueCategory(s)
		if !category.IsValid() {
			return f, errors.New("invalid category")
		}
		f.Categories = append(f.Categories, category)
	}
	for _, s := range splitQuery(c.Query("priority")) {
		priority := models.IssuePriority(s)
		if !priority.IsValid() {
			return f, errors.New("invalid priority")
		}
		f.Priorities = append(f.Priorities, priority)
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if f.Page < 1 {
		f.Page = 1
	}
	if raw := c.Query("limit"); raw != "" {
		f.Limit, _ = strconv.Atoi(raw)
		if f.Limit < 1 || f.Limit > maxPageLimit {
			f.Limit = 10
		}
	}
	return f, nil
}

// splitQuery splits a comma list, treating "all" as no constraint.
func splitQuery(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "all" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// MapMarkers returns the map projection of every located report
func (rc *ReportController) MapMarkers(c *gin.Context) {
	all, err := rc.reports.ListReports(c.Request.Context())
	if err != nil {
		respondError(c, err, "Reports not found", "Failed to fetch issue reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"markers": reports.MapMarkers(all, rc.nowFn())})
}

// Nearby returns reports within radius_km of a point, nearest first
func (rc *ReportController) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil || !utils.IsValidCoordinates(lat, lng) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
		return
	}

	radius := defaultNearbyRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid radius"})
			return
		}
		radius = r
	}

	all, err := rc.reports.ListReports(c.Request.Context())
	if err != nil {
		respondError(c, err, "Reports not found", "Failed to fetch issue reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports.Nearby(all, lat, lng, radius)})
}

// GetReportBySlug retrieves a single report for its public page
func (rc *ReportController) GetReportBySlug(c *gin.Context) {
	report, err := rc.reports.GetReportBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Report not found", "Failed to fetch issue report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// UpdateStatus applies a staff status change
func (rc *ReportController) UpdateStatus(c *gin.Context) {
	var input struct {
		Status                  string `json:"status"`
		AssignedTo              string `json:"assigned_to"`
		ResolutionNotes         string `json:"resolution_notes"`
		EstimatedResolutionDate string `json:"estimated_resolution_date"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.IssueStatus(input.Status)
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	update := models.StatusUpdate{
		Status:          status,
		AssignedTo:      input.AssignedTo,
		ResolutionNotes: input.ResolutionNotes,
	}
	if input.EstimatedResolutionDate != "" {
		eta, err := models.ParseDate(input.EstimatedResolutionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimated_resolution_date"})
			return
		}
		update.EstimatedResolutionDate = &eta
	}

	report, err := rc.reports.UpdateStatus(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err, "Report not found", "Failed to update report status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// ListComments returns a report's comments oldest first
func (rc *ReportController) ListComments(c *gin.Context) {
	includeInternal, _ := strconv.ParseBool(c.DefaultQuery("include_internal", "false"))

	comments, err := rc.reports.ListComments(c.Request.Context(), c.Param("id"), includeInternal)
	if err != nil {
		respondError(c, err, "Report not found", "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment appends a comment to a report
func (rc *ReportController) AddComment(c *gin.Context) {
	var input struct {
		Content     string `json:"content" binding:"required,max=5000"`
		AuthorName  string `json:"author_name" binding:"max=200"`
		AuthorEmail string `json:"author_email"`
		IsInternal  bool   `json:"is_internal"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := rc.reports.AddComment(c.Request.Context(), c.Param("id"), models.NewComment{
		Content:     input.Content,
		AuthorName:  input.AuthorName,
		AuthorEmail: input.AuthorEmail,
		IsInternal:  input.IsInternal,
	})
	if err != nil {
		respondError(c, err, "Report not found", "Failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}
