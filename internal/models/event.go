package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// EventStatus buckets an event relative to the current time.
type EventStatus string

const (
	EventStatusOngoing   EventStatus = "ONGOING"
	EventStatusUpcoming  EventStatus = "UPCOMING"
	EventStatusCompleted EventStatus = "COMPLETED"
)

// Event is an organization activity shown on the dashboard and rendered into
// accomplishment reports. Times of day are stored as 24-hour "HH:MM" strings
// because that is how the intake forms capture them.
type Event struct {
	ID            string       `db:"id" json:"id"`
	OrgID         string       `db:"org_id" json:"org_id"`
	Title         string       `db:"title" json:"title"`
	Date          time.Time    `db:"event_date" json:"date"`
	StartTime     *string      `db:"start_time" json:"start_time,omitempty"`
	EndTime       *string      `db:"end_time" json:"end_time,omitempty"`
	CallTime      *string      `db:"call_time" json:"call_time,omitempty"`
	Location      string       `db:"location" json:"location"`
	Status        *EventStatus `db:"status" json:"status,omitempty"`
	Objectives    string       `db:"objectives" json:"objectives"`
	Description   string       `db:"description" json:"description"`
	Expectations  string       `db:"expectations" json:"expectations"`
	Guidelines    string       `db:"guidelines" json:"guidelines"`
	Opportunities string       `db:"opportunities" json:"opportunities"`
	ImageURL      *string      `db:"image_url" json:"image_url,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// ClassifyAt resolves the event's bucket at the given instant. An explicit
// status field always wins; otherwise the calendar date decides, with the end
// time (default "23:59") splitting today's events into ongoing vs completed.
func (e *Event) ClassifyAt(now time.Time) EventStatus {
	if e.Status != nil && *e.Status != "" {
		return *e.Status
	}
	eventDay := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case eventDay.Before(today):
		return EventStatusCompleted
	case eventDay.After(today):
		return EventStatusUpcoming
	}
	end := "23:59"
	if e.EndTime != nil && strings.TrimSpace(*e.EndTime) != "" {
		end = *e.EndTime
	}
	endMinutes, ok := clockMinutes(end)
	if !ok {
		return EventStatusOngoing
	}
	nowMinutes := now.Hour()*60 + now.Minute()
	if nowMinutes < endMinutes {
		return EventStatusOngoing
	}
	return EventStatusCompleted
}

// MatchesSearch reports whether the event's title or identifier contains the
// query, case-insensitively. An empty query matches everything.
func (e *Event) MatchesSearch(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.ID), q)
}

// GroupedEvents is the dashboard listing shape: each bucket sorted by
// identifier using plain string comparison. Identifiers may carry non-numeric
// prefixes, so the ordering is lexicographic on purpose.
type GroupedEvents struct {
	Ongoing   []Event `json:"ongoing"`
	Upcoming  []Event `json:"upcoming"`
	Completed []Event `json:"completed"`
}

// GroupEvents classifies and buckets events at the given instant.
func GroupEvents(events []Event, now time.Time) GroupedEvents {
	grouped := GroupedEvents{
		Ongoing:   make([]Event, 0),
		Upcoming:  make([]Event, 0),
		Completed: make([]Event, 0),
	}
	for _, ev := range events {
		switch ev.ClassifyAt(now) {
		case EventStatusOngoing:
			grouped.Ongoing = append(grouped.Ongoing, ev)
		case EventStatusUpcoming:
			grouped.Upcoming = append(grouped.Upcoming, ev)
		default:
			grouped.Completed = append(grouped.Completed, ev)
		}
	}
	sortByID(grouped.Ongoing)
	sortByID(grouped.Upcoming)
	sortByID(grouped.Completed)
	return grouped
}

func sortByID(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ID < events[j].ID
	})
}

func clockMinutes(raw string) (int, bool) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}
