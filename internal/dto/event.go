package dto

import (
	"time"

	"github.com/centro-ngo/centro-api/internal/models"
)

// EventSummary is the card shape shown on the dashboard listing.
type EventSummary struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Date      time.Time          `json:"date"`
	StartTime *string            `json:"start_time,omitempty"`
	EndTime   *string            `json:"end_time,omitempty"`
	Location  string             `json:"location"`
	Status    models.EventStatus `json:"status"`
	ImageURL  *string            `json:"image_url,omitempty"`
}

// GroupedEventsResponse buckets the organization's events for the dashboard.
type GroupedEventsResponse struct {
	Ongoing   []EventSummary `json:"ongoing"`
	Upcoming  []EventSummary `json:"upcoming"`
	Completed []EventSummary `json:"completed"`
	Total     int            `json:"total"`
}
