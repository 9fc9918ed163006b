package reports

import (
	"sort"
	"strings"
	"time"

	"civicreporter-be/models"
	"civicreporter-be/utils"
)

// Date ranges accepted by Filter.Range.
const (
	RangeAll    = "all"
	Range7Days  = "7days"
	Range30Days = "30days"
	Range90Days = "90days"
)

// Sort orders accepted by Filter.Sort.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPriority = "priority"
)

var rangeDays = map[string]int{
	Range7Days:  7,
	Range30Days: 30,
	Range90Days: 90,
}

// ValidRange reports whether s names a known date range. Empty means all.
func ValidRange(s string) bool {
	_, ok := rangeDays[s]
	return ok || s == "" || s == RangeAll
}

// ValidSort reports whether s names a known sort order. Empty means newest.
func ValidSort(s string) bool {
	switch s {
	case "", SortNewest, SortOldest, SortPriority:
		return true
	}
	return false
}

// Filter narrows and orders a report list. Empty sets match everything and a
// zero Limit disables paging.
type Filter struct {
	Search     string
	Statuses   []models.IssueStatus
	Categories []models.IssueCategory
	Priorities []models.IssuePriority
	Range      string
	Sort       string
	Page       int
	Limit      int
}

type Page struct {
	Reports    []models.IssueReport `json:"reports"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
}

// Apply filters, sorts and pages reports. Total counts matches before paging.
func Apply(reports []models.IssueReport, f Filter, now time.Time) Page {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var since time.Time
	if days, ok := rangeDays[f.Range]; ok {
		since = now.AddDate(0, 0, -days)
	}

	matched := make([]models.IssueReport, 0, len(reports))
	for _, r := range reports {
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, r.StatusOrDefault()) {
			continue
		}
		if len(f.Categories) > 0 && !contains(f.Categories, r.CategoryOrDefault()) {
			continue
		}
		if len(f.Priorities) > 0 && !contains(f.Priorities, r.PriorityOrDefault()) {
			continue
		}
		if !since.IsZero() && r.Created().Before(since) {
			continue
		}
		matched = append(matched, r)
	}

	sortReports(matched, f.Sort)

	page := f.Page
	if page < 1 {
		page = 1
	}
	out := Page{Total: len(matched), Page: page}
	if f.Limit <= 0 {
		out.Reports = matched
		if len(matched) > 0 {
			out.TotalPages = 1
		}
		return out
	}

	out.TotalPages = (len(matched) + f.Limit - 1) / f.Limit
	start := (page - 1) * f.Limit
	if start >= len(matched) {
		out.Reports = []models.IssueReport{}
		return out
	}
	end := min(start+f.Limit, len(matched))
	out.Reports = matched[start:end]
	return out
}

func matchesSearch(r models.IssueReport, term string) bool {
	return strings.Contains(strings.ToLower(r.Title), term) ||
		strings.Contains(strings.ToLower(r.Metadata.Description), term) ||
		strings.Contains(strings.ToLower(string(r.Metadata.Category)), term)
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// sortReports orders reports in place. Priority order keeps newest first
// among equal priorities.
func sortReports(reports []models.IssueReport, order string) {
	switch order {
	case SortOldest:
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].Created().Before(reports[j].Created())
		})
	case SortPriority:
		sortNewestFirst(reports)
		sort.SliceStable(reports, func(i, j int) bool {
			return reports[i].PriorityOrDefault().Rank() > reports[j].PriorityOrDefault().Rank()
		})
	default:
		sortNewestFirst(reports)
	}
}

// MapMarker is the map view projection of a report.
type MapMarker struct {
	ID            string               `json:"id"`
	Slug          string               `json:"slug"`
	Position      [2]float64           `json:"position"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	Category      models.IssueCategory `json:"category"`
	CategoryLabel string               `json:"category_label"`
	CategoryColor string               `json:"category_color"`
	Status        models.IssueStatus   `json:"status"`
	StatusLabel   string               `json:"status_label"`
	Priority      models.IssuePriority `json:"priority"`
	PriorityLabel string               `json:"priority_label"`
	PriorityColor string               `json:"priority_color"`
	Color         string               `json:"color"`
	Icon          string               `json:"icon"`
	CreatedAt     time.Time            `json:"created_at"`
	ReportedAgo   string               `json:"reported_ago"`
}

const markerDescriptionLength = 100

// MapMarkers projects reports that carry a location. Marker colour follows
// status; ages are relative to now.
func MapMarkers(reports []models.IssueReport, now time.Time) []MapMarker {
	markers := make([]MapMarker, 0, len(reports))
	for _, r := range reports {
		coords := r.Metadata.LocationCoordinates
		if coords.IsZero() {
			continue
		}
		category, status, priority := r.CategoryOrDefault(), r.StatusOrDefault(), r.PriorityOrDefault()
		markers = append(markers, MapMarker{
			ID:            r.ID,
			Slug:          r.Slug,
			Position:      [2]float64(coords),
			Title:         r.Title,
			Description:   utils.TruncateText(r.Metadata.Description, markerDescriptionLength),
			Category:      category,
			CategoryLabel: utils.CategoryLabel(category),
			CategoryColor: utils.CategoryColor(category),
			Status:        status,
			StatusLabel:   utils.StatusLabel(status),
			Priority:      priority,
			PriorityLabel: utils.PriorityLabel(priority),
			PriorityColor: utils.PriorityColor(priority),
			Color:         utils.StatusColor(status),
			Icon:          utils.CategoryIcon(category),
			CreatedAt:     r.Created(),
			ReportedAgo:   utils.RelativeTime(r.Created(), now),
		})
	}
	return markers
}

// NearbyReport is a report with its distance from a search point.
type NearbyReport struct {
	models.IssueReport
	DistanceKm float64 `json:"distance_km"`
}

// Nearby returns the reports within radiusKm of (lat, lng), nearest first.
func Nearby(reports []models.IssueReport, lat, lng, radiusKm float64) []NearbyReport {
	nearby := make([]NearbyReport, 0)
	for _, r := range reports {
		coords := r.Metadata.LocationCoordinates
		if coords.IsZero() {
			continue
		}
		d := utils.HaversineDistanceKm(lat, lng, coords.Lat(), coords.Lng())
		if d <= radiusKm {
			nearby = append(nearby, NearbyReport{IssueReport: r, DistanceKm: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby
}
