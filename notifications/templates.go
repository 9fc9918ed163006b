package notifications

import (
	"html/template"

	"civicreporter-be/models"
)

var statusMessages = map[models.IssueStatus]string{
	models.Reported:     "Your report has been received",
	models.Acknowledged: "Your report has been acknowledged by city staff",
	models.InProgress:   "Work has started on your report",
	models.Resolved:     "Your report has been resolved",
	models.Closed:       "Your report has been closed",
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<h2>Thank you for your report</h2>
<p>Dear {{.Name}},</p>
<p>We have received your report about a {{.CategoryText}} issue. Here are the details:</p>
<ul>
  <li><strong>Report ID:</strong> {{.ReportID}}</li>
  <li><strong>Category:</strong> {{.Category}}</li>
  <li><strong>Priority:</strong> {{.Priority}}</li>
  <li><strong>Status:</strong> Reported</li>
  <li><strong>Department:</strong> {{.Department}}</li>
</ul>
<p><strong>Description:</strong> {{.Description}}</p>
<p>We will keep you updated on the progress of your report.</p>
<p>Best regards,<br>CivicReporter Team</p>
`))

var statusUpdateTemplate = template.Must(template.New("status").Parse(`
<h2>Report Status Update</h2>
<p>Dear {{.Name}},</p>
<p>{{.Message}}.</p>
<ul>
  <li><strong>Report ID:</strong> {{.ReportID}}</li>
  <li><strong>Category:</strong> {{.Category}}</li>
  <li><strong>New Status:</strong> {{.Status}}</li>
  {{- if .AssignedTo}}
  <li><strong>Assigned To:</strong> {{.AssignedTo}}</li>
  {{- end}}
  {{- if .EstimatedResolution}}
  <li><strong>Estimated Resolution:</strong> {{.EstimatedResolution}}</li>
  {{- end}}
</ul>
{{- if .Notes}}
<p><strong>Notes:</strong> {{.Notes}}</p>
{{- end}}
<p>Thank you for helping make our community better.</p>
<p>Best regards,<br>CivicReporter Team</p>
`))

type confirmationData struct {
	Name         string
	ReportID     string
	Category     string
	CategoryText string
	Priority     string
	Department   string
	Description  string
}

type statusUpdateData struct {
	Name                string
	Message             string
	ReportID            string
	Category            string
	Status              string
	AssignedTo          string
	EstimatedResolution string
	Notes               string
}
