package models

import (
	"io"
	"time"
)

// IssueReport represents a civic issue reported by a resident
type IssueReport struct {
	Object   `bson:",inline"`
	Metadata IssueReportMetadata `bson:"metadata" json:"metadata"`
}

type IssueReportMetadata struct {
	Description             string        `bson:"description" json:"description"`
	Category                IssueCategory `bson:"category" json:"category" validate:"omitempty,category"`
	Priority                IssuePriority `bson:"priority" json:"priority" validate:"omitempty,priority"`
	Status                  IssueStatus   `bson:"status" json:"status" validate:"omitempty,status"`
	LocationCoordinates     Coordinates   `bson:"location_coordinates" json:"location_coordinates" validate:"coordinates"`
	LocationAddress         string        `bson:"location_address,omitempty" json:"location_address,omitempty"`
	ReporterEmail           string        `bson:"reporter_email" json:"reporter_email" validate:"omitempty,reporter_email"`
	ReporterName            string        `bson:"reporter_name,omitempty" json:"reporter_name,omitempty"`
	ReporterPhone           string        `bson:"reporter_phone,omitempty" json:"reporter_phone,omitempty"`
	Department              Ref           `bson:"department" json:"department"`
	AssignedTo              *Ref          `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Photo                   *Media        `bson:"photo,omitempty" json:"photo,omitempty"`
	EstimatedResolutionDate *Date         `bson:"estimated_resolution_date,omitempty" json:"estimated_resolution_date,omitempty"`
	ActualResolutionDate    *Date         `bson:"actual_resolution_date,omitempty" json:"actual_resolution_date,omitempty"`
	ResolutionNotes         string        `bson:"resolution_notes,omitempty" json:"resolution_notes,omitempty"`
	LastUpdated             *Date         `bson:"last_updated,omitempty" json:"last_updated,omitempty"`
	CreatedDate             *Date         `bson:"created_date,omitempty" json:"created_date,omitempty"`
}

// Created returns when the report was submitted, preferring the store's own
// creation time over the metadata copy.
func (r IssueReport) Created() time.Time {
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt
	}
	if r.Metadata.CreatedDate != nil {
		return r.Metadata.CreatedDate.Time
	}
	return time.Time{}
}

// StatusOrDefault treats a missing status as reported.
func (r IssueReport) StatusOrDefault() IssueStatus {
	if r.Metadata.Status == "" {
		return Reported
	}
	return r.Metadata.Status
}

func (r IssueReport) CategoryOrDefault() IssueCategory {
	if r.Metadata.Category == "" {
		return Other
	}
	return r.Metadata.Category
}

func (r IssueReport) PriorityOrDefault() IssuePriority {
	if r.Metadata.Priority == "" {
		return Medium
	}
	return r.Metadata.Priority
}

// NewReport is the submitted form of an issue report.
type NewReport struct {
	Title           string
	Description     string
	Category        IssueCategory
	Latitude        float64
	Longitude       float64
	LocationAddress string
	ReporterEmail   string
	ReporterName    string
	ReporterPhone   string
	Photo           *Upload
}

// Upload is a file received with a submission.
type Upload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// StatusUpdate carries a staff status change. Zero values leave the
// corresponding field untouched.
type StatusUpdate struct {
	Status                  IssueStatus
	AssignedTo              string
	ResolutionNotes         string
	EstimatedResolutionDate *time.Time
}
