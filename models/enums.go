package models

// IssueCategory enum
type IssueCategory string

const (
	Potholes     IssueCategory = "potholes"
	Streetlights IssueCategory = "streetlights"
	Sanitation   IssueCategory = "sanitation"
	Graffiti     IssueCategory = "graffiti"
	Flooding     IssueCategory = "flooding"
	TrafficSigns IssueCategory = "traffic-signs"
	Parks        IssueCategory = "parks"
	Other        IssueCategory = "other"
)

// Categories lists every category in display order.
var Categories = []IssueCategory{
	Potholes, Streetlights, Sanitation, Graffiti, Flooding, TrafficSigns, Parks, Other,
}

// IsValid reports whether c is one of the fixed category values.
func (c IssueCategory) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// IssuePriority enum
type IssuePriority string

const (
	Low      IssuePriority = "low"
	Medium   IssuePriority = "medium"
	High     IssuePriority = "high"
	Critical IssuePriority = "critical"
)

var Priorities = []IssuePriority{Low, Medium, High, Critical}

func (p IssuePriority) IsValid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Rank orders priorities for triage; unknown values rank as medium.
func (p IssuePriority) Rank() int {
	switch p {
	case Critical:
		return 4
	case High:
		return 3
	case Low:
		return 1
	default:
		return 2
	}
}

// IssueStatus enum
type IssueStatus string

const (
	Reported     IssueStatus = "reported"
	Acknowledged IssueStatus = "acknowledged"
	InProgress   IssueStatus = "in-progress"
	Resolved     IssueStatus = "resolved"
	Closed       IssueStatus = "closed"
)

// Statuses lists the lifecycle in order. Closed is reachable from any state and
// no other transition rule is enforced.
var Statuses = []IssueStatus{Reported, Acknowledged, InProgress, Resolved, Closed}

func (s IssueStatus) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsActive reports whether the report still needs work.
func (s IssueStatus) IsActive() bool {
	return s == Reported || s == Acknowledged || s == InProgress
}
