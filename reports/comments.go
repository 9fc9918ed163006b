package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"civicreporter-be/models"
	"civicreporter-be/store"
	"civicreporter-be/utils"
)

type commentFields struct {
	Content     string    `json:"content" bson:"content"`
	AuthorName  string    `json:"author_name" bson:"author_name"`
	AuthorEmail string    `json:"author_email" bson:"author_email"`
	IssueReport string    `json:"issue_report" bson:"issue_report"`
	IsInternal  bool      `json:"is_internal" bson:"is_internal"`
	CreatedDate time.Time `json:"created_date" bson:"created_date"`
}

// ListComments returns a report's comments oldest first. Internal staff notes
// are left out unless includeInternal is set.
func (r *Repository) ListComments(ctx context.Context, reportID string, includeInternal bool) ([]models.Comment, error) {
	if reportID == "" {
		return nil, invalid("report id is required")
	}

	var found []models.Comment
	err := r.withTimeout(ctx, func(ctx context.Context) error {
		return r.store.Find(ctx, store.Query{
			Type:          models.KindComment,
			Filter:        map[string]any{"metadata.issue_report": reportID},
			Props:         []string{"id", "title", "metadata", "created_at"},
			Depth:         1,
			OnDecodeError: r.skipUndecodable(models.KindComment),
		}, &found)
	})
	if store.IsNotFound(err) {
		return []models.Comment{}, nil
	}
	if err != nil {
		return nil, storeError("list comments", err)
	}

	comments := make([]models.Comment, 0, len(found))
	for _, c := range found {
		if c.Metadata.IsInternal && !includeInternal {
			continue
		}
		comments = append(comments, c)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// AddComment appends a comment to an existing report.
func (r *Repository) AddComment(ctx context.Context, reportID string, in models.NewComment) (models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return models.Comment{}, invalid("comment content is required")
	}
	if in.AuthorEmail != "" && !utils.IsValidEmail(in.AuthorEmail) {
		return models.Comment{}, invalid("invalid author email")
	}
	if _, err := r.GetReport(ctx, reportID); err != nil {
		return models.Comment{}, err
	}

	fields := commentFields{
		Content:     in.Content,
		AuthorName:  in.AuthorName,
		AuthorEmail: in.AuthorEmail,
		IssueReport: reportID,
		IsInternal:  in.IsInternal,
		CreatedDate: r.nowFn().UTC(),
	}

	var created models.Comment
	err := r.withTimeout(ctx, func(ctx context.Context) error {
		return r.store.InsertOne(ctx, store.NewObject{
			Type:     models.KindComment,
			Title:    "Comment on " + reportID,
			Metadata: fields,
		}, &created)
	})
	if err != nil {
		return models.Comment{}, storeError("add comment", err)
	}

	r.logger.Info("comment added", "report_id", reportID, "comment_id", created.ID, "internal", in.IsInternal)
	return created, nil
}
