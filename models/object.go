package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ObjectType discriminates the content store object variants.
type ObjectType string

const (
	KindIssueReport ObjectType = "issue-reports"
	KindDepartment  ObjectType = "departments"
	KindStaffMember ObjectType = "staff-members"
	KindCategory    ObjectType = "categories"
	KindComment     ObjectType = "comments"
)

// Object holds the fields every content store object carries.
type Object struct {
	ID         string    `bson:"_id" json:"id"`
	Slug       string    `bson:"slug" json:"slug"`
	Title      string    `bson:"title" json:"title"`
	Type       string    `bson:"type" json:"type"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	ModifiedAt time.Time `bson:"modified_at" json:"modified_at,omitempty"`
}

// Ref is a relation to another object. The store returns it either as a bare
// id or, when relations are expanded, as the related object.
type Ref struct {
	ID    string `bson:"id" json:"id"`
	Slug  string `bson:"slug,omitempty" json:"slug,omitempty"`
	Title string `bson:"title,omitempty" json:"title,omitempty"`
}

type refFields Ref

func (r Ref) IsZero() bool { return r.ID == "" && r.Title == "" }

// Name returns the display name of the related object.
func (r Ref) Name() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ID
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var f refFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode relation: %w", err)
	}
	*r = Ref(f)
	return nil
}

func (r Ref) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(r.ID)
}

func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*r = Ref{ID: raw.StringValue()}
		return nil
	case bsontype.EmbeddedDocument:
		var f refFields
		if err := raw.Unmarshal(&f); err != nil {
			return fmt.Errorf("decode relation: %w", err)
		}
		*r = Ref(f)
		return nil
	case bsontype.Null, bsontype.Undefined:
		*r = Ref{}
		return nil
	}
	return fmt.Errorf("decode relation: unexpected bson type %s", t)
}

// Media is an uploaded file with its display (imgix) url.
type Media struct {
	URL      string `bson:"url" json:"url"`
	ImgixURL string `bson:"imgix_url" json:"imgix_url"`
}

// Coordinates is a [latitude, longitude] pair.
type Coordinates [2]float64

func (c Coordinates) Lat() float64 { return c[0] }
func (c Coordinates) Lng() float64 { return c[1] }

// IsZero reports whether no location was recorded.
func (c Coordinates) IsZero() bool { return c[0] == 0 && c[1] == 0 }

// IsFinite reports whether both components are real numbers.
func (c Coordinates) IsFinite() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
