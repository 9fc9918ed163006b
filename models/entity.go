package models

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Entity is implemented by the five content store variants only.
type Entity interface {
	Kind() ObjectType
	Header() Object
	Fields() any
	entity()
}

func (r IssueReport) Kind() ObjectType { return KindIssueReport }
func (d Department) Kind() ObjectType  { return KindDepartment }
func (s StaffMember) Kind() ObjectType { return KindStaffMember }
func (c Category) Kind() ObjectType    { return KindCategory }
func (c Comment) Kind() ObjectType     { return KindComment }
func (r IssueReport) Header() Object   { return r.Object }
func (d Department) Header() Object    { return d.Object }
func (s StaffMember) Header() Object   { return s.Object }
func (c Category) Header() Object      { return c.Object }
func (c Comment) Header() Object       { return c.Object }
func (r IssueReport) Fields() any      { return r.Metadata }
func (d Department) Fields() any       { return d.Metadata }
func (s StaffMember) Fields() any      { return s.Metadata }
func (c Category) Fields() any         { return c.Metadata }
func (c Comment) Fields() any          { return c.Metadata }
func (IssueReport) entity()            {}
func (Department) entity()             {}
func (StaffMember) entity()            {}
func (Category) entity()               {}
func (Comment) entity()                {}

// DecodeEntity decodes a JSON object of the given kind into its variant and
// validates it.
func DecodeEntity(kind ObjectType, data []byte) (Entity, error) {
	var (
		e   Entity
		err error
	)
	switch kind {
	case KindIssueReport:
		var v IssueReport
		err = json.Unmarshal(data, &v)
		e = v
	case KindDepartment:
		var v Department
		err = json.Unmarshal(data, &v)
		e = v
	case KindStaffMember:
		var v StaffMember
		err = json.Unmarshal(data, &v)
		e = v
	case KindCategory:
		var v Category
		err = json.Unmarshal(data, &v)
		e = v
	case KindComment:
		var v Comment
		err = json.Unmarshal(data, &v)
		e = v
	default:
		return nil, fmt.Errorf("%w: unknown object type %q", ErrInvalidInput, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidInput, kind, err)
	}
	if err := Validate(e); err != nil {
		return nil, err
	}
	return e, nil
}

// EmailPattern is the accepted shape of a reporter email address.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IssueCategory(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return IssuePriority(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		return IssueStatus(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("reporter_email", func(fl validator.FieldLevel) bool {
		return EmailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("coordinates", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(Coordinates)
		if !ok || !c.IsFinite() {
			return false
		}
		return c.Lat() >= -90 && c.Lat() <= 90 && c.Lng() >= -180 && c.Lng() <= 180
	})
	return v
}

// Validate checks an entity's metadata against its field rules.
func Validate(e Entity) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidInput, e.Kind(), e.Header().ID, err)
	}
	return nil
}
