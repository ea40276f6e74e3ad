package models

import "time"

// ParticipationStatus is the review state of a volunteer sign-up.
type ParticipationStatus string

const (
	ParticipationApproved ParticipationStatus = "APPROVED"
	ParticipationPending  ParticipationStatus = "PENDING"
	ParticipationRejected ParticipationStatus = "REJECTED"
)

// Participation links a volunteer to an event with a review status.
type Participation struct {
	ID          string              `db:"id" json:"id"`
	EventID     string              `db:"event_id" json:"event_id"`
	VolunteerID string              `db:"volunteer_id" json:"volunteer_id"`
	Status      ParticipationStatus `db:"status" json:"status"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
}

// EngagementCounts aggregates sign-up review states for one event.
type EngagementCounts struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// CountEngagement tallies participation records per event identifier.
func CountEngagement(records []Participation) map[string]EngagementCounts {
	counts := make(map[string]EngagementCounts)
	for _, p := range records {
		c := counts[p.EventID]
		c.Total++
		switch p.Status {
		case ParticipationApproved:
			c.Approved++
		case ParticipationPending:
			c.Pending++
		case ParticipationRejected:
			c.Rejected++
		}
		counts[p.EventID] = c
	}
	return counts
}

// UniqueVolunteers counts distinct volunteer identifiers across records.
func UniqueVolunteers(records []Participation) int {
	seen := make(map[string]struct{}, len(records))
	for _, p := range records {
		seen[p.VolunteerID] = struct{}{}
	}
	return len(seen)
}
