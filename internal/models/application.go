package models

import "time"

// Application is a volunteer's membership application to an organization.
// Reports only count applications whose date falls inside the period.
type Application struct {
	ID          string    `db:"id" json:"id"`
	OrgID       string    `db:"org_id" json:"org_id"`
	VolunteerID string    `db:"volunteer_id" json:"volunteer_id"`
	Status      string    `db:"status" json:"status"`
	AppliedAt   time.Time `db:"applied_at" json:"applied_at"`
}

// CountInPeriod counts applications applied within the given year, optionally
// narrowed to one month (month 0 spans the whole year).
func CountInPeriod(apps []Application, year int, month time.Month) int {
	count := 0
	for _, app := range apps {
		if app.AppliedAt.Year() != year {
			continue
		}
		if month != 0 && app.AppliedAt.Month() != month {
			continue
		}
		count++
	}
	return count
}
