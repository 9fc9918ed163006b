// Package reports owns the issue report lifecycle: submission, staff status
// updates, reference data and comments. All state lives in the content store.
package reports

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"civicreporter-be/metrics"
	"civicreporter-be/models"
	"civicreporter-be/store"
	"civicreporter-be/utils"
)

const storeTimeout = 10 * time.Second

var reportProps = []string{"id", "title", "slug", "type", "metadata", "created_at", "modified_at"}

// Notifier emails reporters. Implementations must not fail the caller.
type Notifier interface {
	SendConfirmation(ctx context.Context, report models.IssueReport)
	SendStatusUpdate(ctx context.Context, report models.IssueReport, update models.StatusUpdate)
}

type Repository struct {
	store    store.ContentStore
	uploader store.MediaUploader
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	nowFn    func() time.Time
}

// NewRepository wires a repository. uploader and notifier may be nil, in
// which case photos are dropped and no mail is sent.
func NewRepository(cs store.ContentStore, uploader store.MediaUploader, notifier Notifier, logger *slog.Logger, m *metrics.Metrics) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		store:    cs,
		uploader: uploader,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		nowFn:    time.Now,
	}
}

// reportFields is the metadata written when a report is created.
type reportFields struct {
	Description         string               `json:"description" bson:"description"`
	Category            models.IssueCategory `json:"category" bson:"category"`
	Priority            models.IssuePriority `json:"priority" bson:"priority"`
	Status              models.IssueStatus   `json:"status" bson:"status"`
	LocationCoordinates models.Coordinates   `json:"location_coordinates" bson:"location_coordinates"`
	LocationAddress     string               `json:"location_address" bson:"location_address"`
	ReporterEmail       string               `json:"reporter_email" bson:"reporter_email"`
	ReporterName        string               `json:"reporter_name" bson:"reporter_name"`
	ReporterPhone       string               `json:"reporter_phone" bson:"reporter_phone"`
	Department          string               `json:"department" bson:"department"`
	Photo               *models.Media        `json:"photo,omitempty" bson:"photo,omitempty"`
	CreatedDate         time.Time            `json:"created_date" bson:"created_date"`
	LastUpdated         time.Time            `json:"last_updated" bson:"last_updated"`
}

// statusFields is the partial metadata written by a status update.
type statusFields struct {
	Status                  models.IssueStatus `json:"status" bson:"status"`
	LastUpdated             time.Time          `json:"last_updated" bson:"last_updated"`
	AssignedTo              string             `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	ResolutionNotes         string             `json:"resolution_notes,omitempty" bson:"resolution_notes,omitempty"`
	EstimatedResolutionDate *time.Time         `json:"estimated_resolution_date,omitempty" bson:"estimated_resolution_date,omitempty"`
	ActualResolutionDate    *time.Time         `json:"actual_resolution_date,omitempty" bson:"actual_resolution_date,omitempty"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storeError classifies a store error for the caller.
func storeError(op string, err error) error {
	if store.IsNotFound(err) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreFailure, err)
}

func validateNewReport(in models.NewReport) error {
	if strings.TrimSpace(in.Description) == "" {
		return invalid("description is required")
	}
	if !in.Category.IsValid() {
		return invalid("unknown category %q", in.Category)
	}
	if !utils.IsValidEmail(in.ReporterEmail) {
		return invalid("invalid reporter email")
	}
	if in.ReporterPhone != "" && !utils.IsValidPhone(in.ReporterPhone) {
		return invalid("invalid reporter phone")
	}
	if !utils.IsValidCoordinates(in.Latitude, in.Longitude) {
		return invalid("invalid coordinates")
	}
	return nil
}

// CreateReport validates and stores a new report, then sends the reporter a
// confirmation.
func (r *Repository) CreateReport(ctx context.Context, in models.NewReport) (models.IssueReport, error) {
	if err := validateNewReport(in); err != nil {
		return models.IssueReport{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = utils.CategoryLabel(in.Category) + " Issue"
	}
	priority := utils.ComputePriority(in.Category, in.Description)
	departmentName := utils.DepartmentForCategory(in.Category)
	department := r.resolveDepartment(ctx, in.Category, departmentName)

	now := r.nowFn().UTC()
	fields := reportFields{
		Description:         in.Description,
		Category:            in.Category,
		Priority:            priority,
		Status:              models.Reported,
		LocationCoordinates: models.Coordinates{in.Latitude, in.Longitude},
		LocationAddress:     in.LocationAddress,
		ReporterEmail:       in.ReporterEmail,
		ReporterName:        in.ReporterName,
		ReporterPhone:       in.ReporterPhone,
		Department:          department.ID,
		Photo:               r.uploadPhoto(ctx, in.Photo),
		CreatedDate:         now,
		LastUpdated:         now,
	}

	var created models.IssueReport
	err := r.withTimeout(ctx, func(ctx context.Context) error {
		return r.store.InsertOne(ctx, store.NewObject{Type: models.KindIssueReport, Title: title, Metadata: fields}, &created)
	})
	if err != nil {
		return models.IssueReport{}, storeError("create report", err)
	}
	if created.Metadata.Department.Title == "" {
		created.Metadata.Department.Title = department.Title
	}

	r.logger.Info("report created",
		"report_id", created.ID,
		"category", in.Category,
		"priority", priority,
		"department", department.Name())
	r.metrics.RecordReportCreated(string(in.Category), string(priority))

	if r.notifier != nil {
		r.notifier.SendConfirmation(ctx, created)
	}
	return created, nil
}

// uploadPhoto returns nil when there is nothing to upload or the upload
// fails; a failed upload never blocks submission.
func (r *Repository) uploadPhoto(ctx context.Context, photo *models.Upload) *models.Media {
	if photo == nil || photo.Size == 0 || photo.Open == nil {
		return nil
	}
	if r.uploader == nil {
		r.logger.Warn("photo dropped, no media uploader configured", "filename", photo.Filename)
		return nil
	}

	f, err := photo.Open()
	if err != nil {
		r.logger.Warn("open photo", "filename", photo.Filename, "error", err)
		return nil
	}
	defer f.Close()

	var media models.Media
	err = r.withTimeout(ctx, func(ctx context.Context) error {
		var uploadErr error
		media, uploadErr = r.uploader.UploadMedia(ctx, photo.Filename, f)
		return uploadErr
	})
	if err != nil {
		r.logger.Warn("photo upload failed, continuing without photo", "filename", photo.Filename, "error", err)
		return nil
	}
	return &media
}

// ListReports returns every valid report, newest first.
func (r *Repository) ListReports(ctx context.Context) ([]models.IssueReport, error) {
	var found []models.IssueReport
	err := r.withTimeout(ctx, func(ctx context.Context) error {
		return r.store.Find(ctx, store.Query{
			Type:          models.KindIssueReport,
			Props:         reportProps,
			Depth:         1,
			OnDecodeError: r.skipUndecodable(models.KindIssueReport),
		}, &found)
	})
	if store.IsNotFound(err) {
		return []models.IssueReport{}, nil
	}
	if err != nil {
		return nil, storeError("list reports", err)
	}

	reports := make([]models.IssueReport, 0, len(found))
	for _, report := range found {
		if err := models.Validate(report); err != nil {
			r.logger.Warn("skipping invalid report", "report_id", report.ID, "error", err)
			continue
		}
		reports = append(reports, report)
	}
	sortNewestFirst(reports)
	return reports, nil
}

// skipUndecodable logs objects a list leaves out because they could not be
// decoded.
func (r *Repository) skipUndecodable(kind models.ObjectType) func(error) {
	return func(err error) {
		r.logger.Warn("skipping undecodable object", "kind", kind, "error", err)
	}
}

func sortNewestFirst(reports []models.IssueReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Created().After(reports[j].Created())
	})
}

func (r *Repository) GetReportBySlug(ctx context.Context, slug string) (models.IssueReport, error) {
	if slug == "" {
		return models.IssueReport{}, invalid("slug is required")
	}
	return r.findReport(ctx, "get report by slug", map[string]any{"slug": slug})
}

func (r *Repository) GetReport(ctx context.Context, id string) (models.IssueReport, error) {
	if id == "" {
		return models.IssueReport{}, invalid("report id is required")
	}
	return r.findReport(ctx, "get report", map[string]any{"id": id})
}

func (r *Repository) findReport(ctx context.Context, op string, filter map[string]any) (models.IssueReport, error) {
	var report models.IssueReport
	err := r.withTimeout(ctx, func(ctx context.Context) error {
		return r.store.FindOne(ctx, store.Query{Type: models.KindIssueReport, Filter: filter, Depth: 1}, &report)
	})
	if err != nil {
		return models.IssueReport{}, storeError(op, err)
	}
	if err := models.Validate(report); err != nil {
		return models.IssueReport{}, fmt.Errorf("%s: %w: %w", op, models.ErrStoreFailure, err)
	}
	return report, nil
}

// UpdateStatus applies a staff status change and emails the reporter.
// Resolving a report stamps actual_resolution_date every time, including when
// it was already resolved.
func (r *Repository) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (models.IssueReport, error) {
	if !update.Status.IsValid() {
		return models.IssueReport{}, invalid("invalid status value %q", update.Status)
	}
	if id == "" {
		return models.IssueReport{}, invalid("report id is required")
	}

	existing, err := r.GetReport(ctx, id)
	if err != nil {
		return models.IssueReport{}, err
	}

	now := r.nowFn().UTC()
	fields := statusFields{
		Status:                  update.Status,
		LastUpdated:             now,
		AssignedTo:              update.AssignedTo,
		ResolutionNotes:         update.ResolutionNotes,
		EstimatedResolutionDate: update.EstimatedResolutionDate,
	}
	if update.Status == models.Resolved {
		fields.ActualResolutionDate = &now
	}

	var updated models.IssueReport
	err = r.withTimeout(ctx, func(ctx context.Context) error {
		return r.store.UpdateOne(ctx, models.KindIssueReport, id, fields, &updated)
	})
	if err != nil {
		return models.IssueReport{}, storeError("update report status", err)
	}

	r.logger.Info("report status updated",
		"report_id", id,
		"from", existing.StatusOrDefault(),
		"to", update.Status)
	r.metrics.RecordStatusUpdate(string(update.Status))

	if r.notifier != nil {
		r.notifier.SendStatusUpdate(ctx, existing, update)
	}
	return updated, nil
}

func (r *Repository) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return fn(ctx)
}
