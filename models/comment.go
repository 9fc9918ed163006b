package models

// Comment is an append-only note on a report
type Comment struct {
	Object   `bson:",inline"`
	Metadata CommentMetadata `bson:"metadata" json:"metadata"`
}

type CommentMetadata struct {
	Content     string `bson:"content" json:"content" validate:"required"`
	AuthorName  string `bson:"author_name" json:"author_name"`
	AuthorEmail string `bson:"author_email" json:"author_email" validate:"omitempty,email"`
	IssueReport Ref    `bson:"issue_report" json:"issue_report"`
	IsInternal  bool   `bson:"is_internal" json:"is_internal"`
	CreatedDate *Date  `bson:"created_date,omitempty" json:"created_date,omitempty"`
}

// NewComment is a comment as submitted.
type NewComment struct {
	Content     string
	AuthorName  string
	AuthorEmail string
	IsInternal  bool
}
