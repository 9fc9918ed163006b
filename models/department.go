package models

// Department is a municipal unit that owns a set of categories
type Department struct {
	Object   `bson:",inline"`
	Metadata DepartmentMetadata `bson:"metadata" json:"metadata"`
}

type DepartmentMetadata struct {
	Description  string          `bson:"description,omitempty" json:"description,omitempty"`
	ContactEmail string          `bson:"contact_email" json:"contact_email" validate:"omitempty,email"`
	Phone        string          `bson:"phone,omitempty" json:"phone,omitempty"`
	Color        string          `bson:"color,omitempty" json:"color,omitempty"`
	Icon         string          `bson:"icon,omitempty" json:"icon,omitempty"`
	Categories   []IssueCategory `bson:"categories" json:"categories" validate:"dive,category"`
}

// Owns reports whether the department handles the category.
func (d Department) Owns(c IssueCategory) bool {
	for _, owned := range d.Metadata.Categories {
		if owned == c {
			return true
		}
	}
	return false
}

// StaffMember is a city employee reports can be assigned to
type StaffMember struct {
	Object   `bson:",inline"`
	Metadata StaffMemberMetadata `bson:"metadata" json:"metadata"`
}

type StaffMemberMetadata struct {
	Email      string `bson:"email" json:"email" validate:"omitempty,email"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	Department Ref    `bson:"department" json:"department"`
	Role       string `bson:"role,omitempty" json:"role,omitempty"`
	Avatar     *Media `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Category is the reference entity behind an IssueCategory value
type Category struct {
	Object   `bson:",inline"`
	Metadata CategoryMetadata `bson:"metadata" json:"metadata"`
}

type CategoryMetadata struct {
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Icon        string `bson:"icon,omitempty" json:"icon,omitempty"`
	Color       string `bson:"color,omitempty" json:"color,omitempty"`
	Department  Ref    `bson:"department" json:"department"`
}
