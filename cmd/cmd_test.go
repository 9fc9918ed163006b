package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"civicreporter-be/analytics"
	"civicreporter-be/config"
	"civicreporter-be/models"
	"civicreporter-be/store"
)

type insertedObject struct {
	obj      store.NewObject
	metadata map[string]any
}

type recordingStore struct {
	store.ContentStore
	inserted []insertedObject
}

func (s *recordingStore) InsertOne(_ context.Context, obj store.NewObject, out any) error {
	data, err := json.Marshal(obj.Metadata)
	if err != nil {
		return err
	}
	var meta map[string]any
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}
	s.inserted = append(s.inserted, insertedObject{obj: obj, metadata: meta})

	created := models.Object{ID: fmt.Sprintf("id-%d", len(s.inserted)), Title: obj.Title, Type: string(obj.Type)}
	raw, _ := json.Marshal(created)
	return json.Unmarshal(raw, out)
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const referenceYAML = `
staff-members:
  - title: Alex Kim
    metadata:
      email: alex@city.gov
      department: Public Works
categories:
  - title: Potholes
    metadata:
      icon: "🕳️"
      department: Public Works
departments:
  - title: Public Works
    metadata:
      contact_email: publicworks@city.gov
      categories: [potholes, streetlights]
`

func TestSeedReferenceData(t *testing.T) {
	parsed, err := parseSeedFile([]byte(referenceYAML))
	require.NoError(t, err)

	rs := &recordingStore{}
	written, err := seedReferenceData(context.Background(), rs, parsed, false, discardLogger)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	require.Len(t, rs.inserted, 3)
	assert.Equal(t, models.KindDepartment, rs.inserted[0].obj.Type)
	assert.Equal(t, models.KindCategory, rs.inserted[1].obj.Type)
	assert.Equal(t, models.KindStaffMember, rs.inserted[2].obj.Type)

	assert.Equal(t, "id-1", rs.inserted[1].metadata["department"])
	assert.Equal(t, "id-1", rs.inserted[2].metadata["department"])
}

func TestSeedReferenceData_DryRunWritesNothing(t *testing.T) {
	parsed, err := parseSeedFile([]byte(referenceYAML))
	require.NoError(t, err)

	rs := &recordingStore{}
	written, err := seedReferenceData(context.Background(), rs, parsed, true, discardLogger)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Empty(t, rs.inserted)
}

func TestSeedReferenceData_RejectsInvalidItems(t *testing.T) {
	cases := map[string]string{
		"unknown category": `
departments:
  - title: Roads
    metadata:
      categories: [volcanoes]
`,
		"bad email": `
staff-members:
  - title: Alex
    metadata:
      email: not-an-email
`,
		"missing title": `
categories:
  - metadata:
      icon: x
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			parsed, err := parseSeedFile([]byte(doc))
			require.NoError(t, err)

			rs := &recordingStore{}
			_, err = seedReferenceData(context.Background(), rs, parsed, false, discardLogger)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
			assert.Empty(t, rs.inserted)
		})
	}
}

func TestParseSeedFile_UnsupportedKind(t *testing.T) {
	_, err := parseSeedFile([]byte("issue-reports:\n  - title: nope\n"))
	assert.Error(t, err)
}

func TestStatsOutputYAML(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	r := models.IssueReport{Object: models.Object{CreatedAt: now.AddDate(0, 0, -2)}}
	r.Metadata.Status = models.InProgress

	out := newStatsOutput(analytics.Aggregate([]models.IssueReport{r}, now), now)
	data, err := yaml.Marshal(out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded["total_reports"])
	assert.NotEmpty(t, decoded["generated_at"])
	assert.Equal(t, 1, decoded["active_reports"])
	assert.EqualValues(t, 100, decoded["monthly_growth_percent"])
}

func TestCorsConfig(t *testing.T) {
	open := corsConfig(&config.Config{CORSAllowedOrigins: []string{"*"}})
	assert.True(t, open.AllowAllOrigins)
	assert.Empty(t, open.AllowOrigins)

	closed := corsConfig(&config.Config{CORSAllowedOrigins: []string{"https://city.gov"}})
	assert.False(t, closed.AllowAllOrigins)
	assert.Equal(t, []string{"https://city.gov"}, closed.AllowOrigins)
}
