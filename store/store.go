// Package store is the boundary with the external content store that owns all
// report, department, staff, category and comment objects.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"civicreporter-be/models"
)

// Query selects objects of one type.
type Query struct {
	Type   models.ObjectType
	Filter map[string]any
	Props  []string
	Depth  int
	Limit  int

	// OnDecodeError, when set, receives each object Find cannot decode and
	// Find leaves that object out. Without it the first such object fails
	// the whole call.
	OnDecodeError func(error)
}

// NewObject is an object to insert. Metadata is marshalled as-is.
type NewObject struct {
	Type     models.ObjectType
	Title    string
	Metadata any
}

// ContentStore is implemented by CosmicStore and MongoStore. out arguments are
// pointers the decoded object (or slice of objects) is written to.
type ContentStore interface {
	Find(ctx context.Context, q Query, out any) error
	FindOne(ctx context.Context, q Query, out any) error
	InsertOne(ctx context.Context, obj NewObject, out any) error
	UpdateOne(ctx context.Context, objectType models.ObjectType, id string, metadata any, out any) error
}

// MediaUploader stores binary uploads such as report photos.
type MediaUploader interface {
	UploadMedia(ctx context.Context, filename string, r io.Reader) (models.Media, error)
}

// Error is returned by store operations and carries the HTTP-like status the
// store answered with.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

func notFound(op, msg string) *Error {
	return &Error{Op: op, Status: http.StatusNotFound, Message: msg}
}

// objectSink collects decoded objects into the slice an out argument points to.
type objectSink struct {
	op     string
	target reflect.Value
	items  reflect.Value
	onErr  func(error)
}

func newObjectSink(op string, out any, onErr func(error)) (*objectSink, error) {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Slice {
		return nil, fmt.Errorf("%s: out must be a non-nil pointer to a slice, got %T", op, out)
	}
	return &objectSink{
		op:     op,
		target: v.Elem(),
		items:  reflect.MakeSlice(v.Elem().Type(), 0, 0),
		onErr:  onErr,
	}, nil
}

// add decodes one object through decode. A failure is returned only when no
// OnDecodeError handler was given.
func (s *objectSink) add(index int, decode func(any) error) error {
	elem := reflect.New(s.target.Type().Elem())
	if err := decode(elem.Interface()); err != nil {
		err = &Error{Op: s.op, Status: http.StatusBadGateway, Message: fmt.Sprintf("decode object %d: %v", index, err)}
		if s.onErr == nil {
			return err
		}
		s.onErr(err)
		return nil
	}
	s.items = reflect.Append(s.items, elem.Elem())
	return nil
}

func (s *objectSink) finish() {
	s.target.Set(s.items)
}
