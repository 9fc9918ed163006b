package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicreporter-be/models"
	"civicreporter-be/utils"
)

func fixture(id string, age time.Duration, category models.IssueCategory, priority models.IssuePriority, status models.IssueStatus) models.IssueReport {
	r := models.IssueReport{Object: models.Object{ID: id, Title: id, CreatedAt: testNow.Add(-age)}}
	r.Metadata.Category = category
	r.Metadata.Priority = priority
	r.Metadata.Status = status
	return r
}

func ids(reports []models.IssueReport) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

var day = 24 * time.Hour

func sample() []models.IssueReport {
	flood := fixture("flood", 2*day, models.Flooding, models.Critical, models.InProgress)
	flood.Metadata.Description = "Basement water everywhere"
	return []models.IssueReport{
		fixture("pothole", 10*day, models.Potholes, models.High, models.Reported),
		flood,
		fixture("graffiti", 40*day, models.Graffiti, models.Low, models.Resolved),
		fixture("park", 100*day, models.Parks, models.Medium, models.Closed),
	}
}

func TestApply_DefaultSortsNewestFirst(t *testing.T) {
	page := Apply(sample(), Filter{}, testNow)

	assert.Equal(t, []string{"flood", "pothole", "graffiti", "park"}, ids(page.Reports))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}

func TestApply_Search(t *testing.T) {
	page := Apply(sample(), Filter{Search: "WATER"}, testNow)
	assert.Equal(t, []string{"flood"}, ids(page.Reports))

	page = Apply(sample(), Filter{Search: "graff"}, testNow)
	assert.Equal(t, []string{"graffiti"}, ids(page.Reports))
}

func TestApply_Sets(t *testing.T) {
	page := Apply(sample(), Filter{
		Statuses:   []models.IssueStatus{models.Reported, models.InProgress, models.Resolved},
		Categories: []models.IssueCategory{models.Potholes, models.Graffiti},
	}, testNow)
	assert.Equal(t, []string{"pothole", "graffiti"}, ids(page.Reports))

	page = Apply(sample(), Filter{Priorities: []models.IssuePriority{models.Critical}}, testNow)
	assert.Equal(t, []string{"flood"}, ids(page.Reports))
}

func TestApply_Range(t *testing.T) {
	assert.Len(t, Apply(sample(), Filter{Range: Range7Days}, testNow).Reports, 1)
	assert.Len(t, Apply(sample(), Filter{Range: Range30Days}, testNow).Reports, 2)
	assert.Len(t, Apply(sample(), Filter{Range: Range90Days}, testNow).Reports, 3)
	assert.Len(t, Apply(sample(), Filter{Range: RangeAll}, testNow).Reports, 4)
}

func TestApply_Sorts(t *testing.T) {
	oldest := Apply(sample(), Filter{Sort: SortOldest}, testNow)
	assert.Equal(t, []string{"park", "graffiti", "pothole", "flood"}, ids(oldest.Reports))

	reports := append(sample(), fixture("pothole-new", day, models.Potholes, models.High, models.Reported))
	byPriority := Apply(reports, Filter{Sort: SortPriority}, testNow)
	assert.Equal(t, []string{"flood", "pothole-new", "pothole", "park", "graffiti"}, ids(byPriority.Reports))
}

func TestApply_Paging(t *testing.T) {
	page := Apply(sample(), Filter{Page: 2, Limit: 3}, testNow)
	assert.Equal(t, []string{"park"}, ids(page.Reports))
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	beyond := Apply(sample(), Filter{Page: 5, Limit: 3}, testNow)
	assert.Empty(t, beyond.Reports)
	assert.NotNil(t, beyond.Reports)
}

func TestApply_Empty(t *testing.T) {
	page := Apply(nil, Filter{}, testNow)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Reports)
}

func TestValidRangeAndSort(t *testing.T) {
	assert.True(t, ValidRange(""))
	assert.True(t, ValidRange("30days"))
	assert.False(t, ValidRange("year"))
	assert.True(t, ValidSort("priority"))
	assert.False(t, ValidSort("alphabetical"))
}

func TestMapMarkers(t *testing.T) {
	located := fixture("located", day, models.Sanitation, "", "")
	located.Slug = "located-slug"
	located.Metadata.LocationCoordinates = models.Coordinates{40.7, -74}
	located.Metadata.Description = strings.Repeat("a", 150)

	markers := MapMarkers([]models.IssueReport{located, fixture("nowhere", day, models.Other, "", "")}, testNow)

	require.Len(t, markers, 1)
	m := markers[0]
	assert.Equal(t, "located", m.ID)
	assert.Equal(t, "located-slug", m.Slug)
	assert.Equal(t, [2]float64{40.7, -74}, m.Position)
	assert.Equal(t, models.Reported, m.Status)
	assert.Equal(t, models.Medium, m.Priority)
	assert.Equal(t, "🗑️", m.Icon)
	assert.Equal(t, "Sanitation", m.CategoryLabel)
	assert.Equal(t, "#10b981", m.CategoryColor)
	assert.Equal(t, "Reported", m.StatusLabel)
	assert.Equal(t, utils.StatusColor(models.Reported), m.Color)
	assert.Equal(t, "Medium", m.PriorityLabel)
	assert.Equal(t, "#f59e0b", m.PriorityColor)
	assert.Equal(t, "1 day ago", m.ReportedAgo)
	assert.Equal(t, strings.Repeat("a", 100)+"...", m.Description)
}

func TestNearby(t *testing.T) {
	near := fixture("near", day, models.Potholes, "", "")
	near.Metadata.LocationCoordinates = models.Coordinates{40.7138, -74.0060}
	nearer := fixture("nearer", day, models.Potholes, "", "")
	nearer.Metadata.LocationCoordinates = models.Coordinates{40.7129, -74.0060}
	far := fixture("far", day, models.Potholes, "", "")
	far.Metadata.LocationCoordinates = models.Coordinates{34.0522, -118.2437}

	result := Nearby([]models.IssueReport{near, far, nearer}, 40.7128, -74.0060, 5)

	require.Len(t, result, 2)
	assert.Equal(t, "nearer", result[0].ID)
	assert.Equal(t, "near", result[1].ID)
	assert.Less(t, result[0].DistanceKm, result[1].DistanceKm)
}
