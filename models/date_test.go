package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	var m IssueReportMetadata
	require.NoError(t, json.Unmarshal([]byte(`{
		"estimated_resolution_date": "2025-03-20",
		"actual_resolution_date": "2025-03-18T09:30:00Z",
		"last_updated": "",
		"created_date": null
	}`), &m))

	require.NotNil(t, m.EstimatedResolutionDate)
	assert.True(t, m.EstimatedResolutionDate.Equal(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, m.ActualResolutionDate)
	assert.True(t, m.ActualResolutionDate.Equal(time.Date(2025, 3, 18, 9, 30, 0, 0, time.UTC)))
	require.NotNil(t, m.LastUpdated)
	assert.True(t, m.LastUpdated.IsZero())
	assert.Nil(t, m.CreatedDate)

	var bad IssueReportMetadata
	assert.Error(t, json.Unmarshal([]byte(`{"estimated_resolution_date": "next week"}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"estimated_resolution_date": 20250320}`), &bad))
}

func TestDate_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		At *Date `json:"at"`
	}{At: &Date{Time: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2025-03-20T00:00:00Z"}`, string(data))
}

func TestDate_BSON(t *testing.T) {
	type doc struct {
		At *Date `bson:"at"`
	}
	at := time.Date(2025, 3, 20, 8, 0, 0, 0, time.UTC)

	data, err := bson.Marshal(doc{At: &Date{Time: at}})
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, bson.Unmarshal(data, &raw))
	assert.Equal(t, primitive.NewDateTimeFromTime(at), raw["at"])

	var decoded doc
	require.NoError(t, bson.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.At)
	assert.True(t, decoded.At.Equal(at))

	dateOnly, err := bson.Marshal(bson.M{"at": "2025-03-20"})
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(dateOnly, &decoded))
	assert.True(t, decoded.At.Equal(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)))

	wrong, err := bson.Marshal(bson.M{"at": 42})
	require.NoError(t, err)
	assert.Error(t, bson.Unmarshal(wrong, &decoded))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("03/20/2025")
	assert.Error(t, err)
}
