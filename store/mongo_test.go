package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoFilter_MapsID(t *testing.T) {
	f := mongoFilter(Query{Filter: map[string]any{"id": "abc", "metadata.issue_report": "r1"}})
	assert.Equal(t, bson.M{"_id": "abc", "metadata.issue_report": "r1"}, f)
}

func TestMongoProjection(t *testing.T) {
	assert.Nil(t, mongoProjection(nil))
	assert.Equal(t, bson.M{"title": 1, "metadata": 1}, mongoProjection([]string{"id", "title", "metadata"}))
}

func TestNewSlug(t *testing.T) {
	id := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	assert.Equal(t, "big-pothole-1b4e28ba", newSlug("Big Pothole", id))
	assert.Equal(t, "1b4e28ba", newSlug("", id))
}

func TestMongoStore_UploadMediaUnsupported(t *testing.T) {
	s := &MongoStore{}
	_, err := s.UploadMedia(context.Background(), "a.jpg", strings.NewReader("x"))
	var se *Error
	assert.ErrorAs(t, err, &se)
	assert.False(t, IsNotFound(err))
}
