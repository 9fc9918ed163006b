package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"civicreporter-be/models"
	"civicreporter-be/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps content objects in MongoDB, one collection per object
// type, with documents shaped like the hosted store's objects.
type MongoStore struct {
	db    *mongo.Database
	nowFn func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, nowFn: time.Now}
}

func (s *MongoStore) collection(t models.ObjectType) *mongo.Collection {
	return s.db.Collection(string(t))
}

func storeFailure(op string, err error) *Error {
	return &Error{Op: op, Status: http.StatusInternalServerError, Message: err.Error()}
}

func mongoFilter(q Query) bson.M {
	filter := bson.M{}
	for k, v := range q.Filter {
		if k == "id" {
			k = "_id"
		}
		filter[k] = v
	}
	return filter
}

func mongoProjection(props []string) bson.M {
	if len(props) == 0 {
		return nil
	}
	projection := bson.M{}
	for _, p := range props {
		if p == "id" {
			continue
		}
		projection[p] = 1
	}
	return projection
}

func (s *MongoStore) Find(ctx context.Context, q Query, out any) error {
	op := "find " + string(q.Type)
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if p := mongoProjection(q.Props); p != nil {
		findOptions.SetProjection(p)
	}
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}

	cursor, err := s.collection(q.Type).Find(ctx, mongoFilter(q), findOptions)
	if err != nil {
		return storeFailure(op, err)
	}
	defer cursor.Close(ctx)

	sink, err := newObjectSink(op, out, q.OnDecodeError)
	if err != nil {
		return err
	}
	for i := 0; cursor.Next(ctx); i++ {
		if err := sink.add(i, cursor.Decode); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil {
		return storeFailure(op, err)
	}
	sink.finish()
	return nil
}

func (s *MongoStore) FindOne(ctx context.Context, q Query, out any) error {
	op := "find one " + string(q.Type)
	findOptions := options.FindOne()
	if p := mongoProjection(q.Props); p != nil {
		findOptions.SetProjection(p)
	}

	err := s.collection(q.Type).FindOne(ctx, mongoFilter(q), findOptions).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound(op, "no matching object")
	}
	if err != nil {
		return storeFailure(op, err)
	}
	return nil
}

func (s *MongoStore) InsertOne(ctx context.Context, obj NewObject, out any) error {
	op := "insert " + string(obj.Type)
	now := s.nowFn().UTC()
	id := uuid.NewString()

	doc := bson.M{
		"_id":         id,
		"slug":        newSlug(obj.Title, id),
		"title":       obj.Title,
		"type":        obj.Type,
		"created_at":  now,
		"modified_at": now,
		"metadata":    obj.Metadata,
	}
	if _, err := s.collection(obj.Type).InsertOne(ctx, doc); err != nil {
		return storeFailure(op, err)
	}
	if out == nil {
		return nil
	}
	return s.FindOne(ctx, Query{Type: obj.Type, Filter: map[string]any{"id": id}}, out)
}

func newSlug(title, id string) string {
	suffix := strings.SplitN(id, "-", 2)[0]
	if base := utils.Slugify(title); base != "" {
		return base + "-" + suffix
	}
	return suffix
}

// UpdateOne sets each field present in metadata, leaving the others intact.
func (s *MongoStore) UpdateOne(ctx context.Context, objectType models.ObjectType, id string, metadata any, out any) error {
	op := "update " + string(objectType)

	raw, err := bson.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("%s: marshal metadata: %w", op, err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("%s: unmarshal metadata: %w", op, err)
	}

	set := bson.M{"modified_at": s.nowFn().UTC()}
	for k, v := range fields {
		set["metadata."+k] = v
	}

	result, err := s.collection(objectType).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return storeFailure(op, err)
	}
	if result.MatchedCount == 0 {
		return notFound(op, "no object with id "+id)
	}
	if out == nil {
		return nil
	}
	return s.FindOne(ctx, Query{Type: objectType, Filter: map[string]any{"id": id}}, out)
}

// UploadMedia is not available without a media host.
func (s *MongoStore) UploadMedia(ctx context.Context, filename string, r io.Reader) (models.Media, error) {
	return models.Media{}, &Error{Op: "upload media", Status: http.StatusNotImplemented, Message: "media uploads need the cosmic backend"}
}

// EnsureIndexes creates a unique slug index on every collection and a lookup
// index for comments by report.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	kinds := []models.ObjectType{
		models.KindIssueReport, models.KindDepartment, models.KindStaffMember, models.KindCategory, models.KindComment,
	}
	for _, kind := range kinds {
		indexModel := mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := s.collection(kind).Indexes().CreateOne(ctx, indexModel); err != nil {
			return fmt.Errorf("create slug index on %s: %w", kind, err)
		}
	}

	commentIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "metadata.issue_report", Value: 1}, {Key: "created_at", Value: 1}},
	}
	if _, err := s.collection(models.KindComment).Indexes().CreateOne(ctx, commentIndex); err != nil {
		return fmt.Errorf("create comment index: %w", err)
	}
	return nil
}
