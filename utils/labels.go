package utils

import "civicreporter-be/models"

const fallbackColor = "#64748b"

var categoryLabels = map[models.IssueCategory]string{
	models.Potholes:     "Potholes",
	models.Streetlights: "Streetlights",
	models.Sanitation:   "Sanitation",
	models.Graffiti:     "Graffiti",
	models.Flooding:     "Flooding",
	models.TrafficSigns: "Traffic Signs",
	models.Parks:        "Parks & Recreation",
	models.Other:        "Other",
}

var categoryIcons = map[models.IssueCategory]string{
	models.Potholes:     "🕳️",
	models.Streetlights: "💡",
	models.Sanitation:   "🗑️",
	models.Graffiti:     "🎨",
	models.Flooding:     "🌊",
	models.TrafficSigns: "🚏",
	models.Parks:        "🌳",
	models.Other:        "📝",
}

var categoryColors = map[models.IssueCategory]string{
	models.Potholes:     "#ef4444",
	models.Streetlights: "#f59e0b",
	models.Sanitation:   "#10b981",
	models.Graffiti:     "#8b5cf6",
	models.Flooding:     "#3b82f6",
	models.TrafficSigns: "#f97316",
	models.Parks:        "#22c55e",
	models.Other:        fallbackColor,
}

var priorityLabels = map[models.IssuePriority]string{
	models.Low:      "Low",
	models.Medium:   "Medium",
	models.High:     "High",
	models.Critical: "Critical",
}

var priorityColors = map[models.IssuePriority]string{
	models.Low:      "#10b981",
	models.Medium:   "#f59e0b",
	models.High:     "#f97316",
	models.Critical: "#ef4444",
}

var statusLabels = map[models.IssueStatus]string{
	models.Reported:     "Reported",
	models.Acknowledged: "Acknowledged",
	models.InProgress:   "In Progress",
	models.Resolved:     "Resolved",
	models.Closed:       "Closed",
}

var statusColors = map[models.IssueStatus]string{
	models.Reported:     fallbackColor,
	models.Acknowledged: "#3b82f6",
	models.InProgress:   "#f59e0b",
	models.Resolved:     "#10b981",
	models.Closed:       "#6b7280",
}

func lookup[K comparable](m map[K]string, key K, fallback string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

func CategoryLabel(c models.IssueCategory) string { return lookup(categoryLabels, c, "Unknown") }
func CategoryIcon(c models.IssueCategory) string  { return lookup(categoryIcons, c, "📝") }
func CategoryColor(c models.IssueCategory) string { return lookup(categoryColors, c, fallbackColor) }
func PriorityLabel(p models.IssuePriority) string { return lookup(priorityLabels, p, "Unknown") }
func PriorityColor(p models.IssuePriority) string { return lookup(priorityColors, p, fallbackColor) }
func StatusLabel(s models.IssueStatus) string     { return lookup(statusLabels, s, "Unknown") }
func StatusColor(s models.IssueStatus) string     { return lookup(statusColors, s, fallbackColor) }
