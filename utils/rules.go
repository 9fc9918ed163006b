package utils

import (
	"regexp"
	"strings"

	"civicreporter-be/models"
)

var urgentKeywords = []string{"urgent", "emergency", "dangerous", "hazard", "safety", "immediate"}

// ComputePriority derives the triage priority of a new report from its
// category, escalating on urgency keywords in the description.
func ComputePriority(category models.IssueCategory, description string) models.IssuePriority {
	switch category {
	case models.Flooding, models.TrafficSigns:
		return models.Critical
	case models.Potholes, models.Streetlights:
		return models.High
	}

	lower := strings.ToLower(description)
	for _, keyword := range urgentKeywords {
		if strings.Contains(lower, keyword) {
			return models.High
		}
	}
	return models.Medium
}

const DefaultDepartment = "General Services"

var departmentByCategory = map[models.IssueCategory]string{
	models.Potholes:     "Public Works",
	models.Streetlights: "Electrical Services",
	models.Sanitation:   "Waste Management",
	models.Graffiti:     "Code Enforcement",
	models.Flooding:     "Storm Water Management",
	models.TrafficSigns: "Transportation",
	models.Parks:        "Parks and Recreation",
	models.Other:        DefaultDepartment,
}

// DepartmentForCategory returns the name of the department responsible for a category.
func DepartmentForCategory(category models.IssueCategory) string {
	if name, ok := departmentByCategory[category]; ok {
		return name
	}
	return DefaultDepartment
}

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)

func IsValidEmail(email string) bool {
	return models.EmailPattern.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidCoordinates rejects NaN as well as out-of-range values.
func IsValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
