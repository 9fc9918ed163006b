// Package notifications emails reporters about their submissions.
//
// Every send is best-effort: failures are logged and counted, and the caller
// never sees them.
package notifications

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"civicreporter-be/mailer"
	"civicreporter-be/metrics"
	"civicreporter-be/models"
	"civicreporter-be/utils"
)

const (
	DefaultFrom = "noreply@civicreporter.com"
	sendTimeout = 10 * time.Second
)

type Dispatcher struct {
	sender  mailer.Sender
	from    string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewDispatcher returns a dispatcher sending through sender. A nil sender
// disables mail; every send is then logged and counted as skipped.
func NewDispatcher(sender mailer.Sender, from string, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if from == "" {
		from = DefaultFrom
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, from: from, logger: logger, metrics: m}
}

// Enabled reports whether a mail provider is configured.
func (d *Dispatcher) Enabled() bool { return d.sender != nil }

// SendConfirmation tells the reporter their report was received.
func (d *Dispatcher) SendConfirmation(ctx context.Context, report models.IssueReport) {
	category := string(report.CategoryOrDefault())
	data := confirmationData{
		Name:         reporterName(report),
		ReportID:     report.ID,
		Category:     category,
		CategoryText: categoryText(category),
		Priority:     string(report.PriorityOrDefault()),
		Department:   report.Metadata.Department.Name(),
		Description:  report.Metadata.Description,
	}
	subject := "Report Confirmation - " + data.CategoryText + " Issue"
	d.send(ctx, metrics.KindConfirmation, report, subject, confirmationTemplate, data)
}

// SendStatusUpdate tells the reporter their report moved to a new status.
func (d *Dispatcher) SendStatusUpdate(ctx context.Context, report models.IssueReport, update models.StatusUpdate) {
	category := string(report.Metadata.Category)
	data := statusUpdateData{
		Name:       reporterName(report),
		Message:    statusMessages[update.Status],
		ReportID:   report.ID,
		Category:   category,
		Status:     string(update.Status),
		AssignedTo: update.AssignedTo,
		Notes:      update.ResolutionNotes,
	}
	if update.EstimatedResolutionDate != nil {
		data.EstimatedResolution = utils.FormatDate(*update.EstimatedResolutionDate)
	}
	subject := "Report Update - " + categoryText(category) + " Issue"
	d.send(ctx, metrics.KindStatusUpdate, report, subject, statusUpdateTemplate, data)
}

func (d *Dispatcher) send(ctx context.Context, kind string, report models.IssueReport, subject string, tmpl *template.Template, data any) {
	log := d.logger.With("kind", kind, "report_id", report.ID)

	to := report.Metadata.ReporterEmail
	if !d.Enabled() || to == "" {
		log.Debug("notification skipped", "enabled", d.Enabled())
		d.metrics.RecordNotification(kind, metrics.ResultSkipped)
		return
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		log.Error("render notification", "error", err)
		d.metrics.RecordNotification(kind, metrics.ResultFailed)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	id, err := d.sender.Send(ctx, mailer.Message{
		From:    d.from,
		To:      []string{to},
		Subject: subject,
		HTML:    body.String(),
	})
	if err != nil {
		log.Error("send notification", "error", err)
		d.metrics.RecordNotification(kind, metrics.ResultFailed)
		return
	}

	log.Info("notification sent", "message_id", id)
	d.metrics.RecordNotification(kind, metrics.ResultSent)
}

func reporterName(report models.IssueReport) string {
	if report.Metadata.ReporterName != "" {
		return report.Metadata.ReporterName
	}
	return "Resident"
}

// categoryText replaces the first hyphen only.
func categoryText(category string) string {
	return strings.Replace(category, "-", " ", 1)
}
