package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// FormatDate renders a short US date, e.g. "Mar 4, 2025".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// RelativeTime describes t relative to now using floored unit counts and
// falls back to an absolute date after 30 days.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(math.Floor(diff.Minutes()))
	hours := int(math.Floor(diff.Hours()))
	days := int(math.Floor(diff.Hours() / 24))

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return plural(minutes, "minute")
	case hours < 24:
		return plural(hours, "hour")
	case days < 30:
		return plural(days, "day")
	default:
		return FormatDate(t)
	}
}

func plural(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// TruncateText shortens text to maxLength runes, appending an ellipsis.
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a title and joins its words with dashes.
func Slugify(title string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
