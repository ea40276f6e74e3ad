package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestClassifyAtExplicitStatusWins(t *testing.T) {
	status := EventStatusUpcoming
	ev := Event{
		Date:   time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		Status: &status,
	}
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, EventStatusUpcoming, ev.ClassifyAt(now))
}

func TestClassifyAtByDate(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

	past := Event{Date: time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, EventStatusCompleted, past.ClassifyAt(now))

	future := Event{Date: time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, EventStatusUpcoming, future.ClassifyAt(now))
}

func TestClassifyAtTodayEndTime(t *testing.T) {
	today := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	ev := Event{Date: today, EndTime: strPtr("10:00")}

	at0900 := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, EventStatusOngoing, ev.ClassifyAt(at0900))

	at1001 := time.Date(2025, time.June, 10, 10, 1, 0, 0, time.UTC)
	assert.Equal(t, EventStatusCompleted, ev.ClassifyAt(at1001))
}

func TestClassifyAtTodayNoEndTimeDefaultsEndOfDay(t *testing.T) {
	today := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	ev := Event{Date: today}

	afternoon := time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, EventStatusOngoing, ev.ClassifyAt(afternoon))

	lastMinute := time.Date(2025, time.June, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, EventStatusCompleted, ev.ClassifyAt(lastMinute))
}

func TestGroupEventsSortsLexicographically(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	past := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "evt-10", Date: past},
		{ID: "evt-2", Date: past},
		{ID: "evt-1", Date: past},
	}
	grouped := GroupEvents(events, now)
	// String ordering, not numeric: "evt-10" sorts before "evt-2".
	assert.Equal(t, []string{"evt-1", "evt-10", "evt-2"},
		[]string{grouped.Completed[0].ID, grouped.Completed[1].ID, grouped.Completed[2].ID})
	assert.Empty(t, grouped.Ongoing)
	assert.Empty(t, grouped.Upcoming)
}

func TestMatchesSearch(t *testing.T) {
	ev := Event{ID: "EVT-001", Title: "Coastal Cleanup"}
	assert.True(t, ev.MatchesSearch(""))
	assert.True(t, ev.MatchesSearch("coastal"))
	assert.True(t, ev.MatchesSearch("evt-001"))
	assert.False(t, ev.MatchesSearch("marathon"))
}

func TestCountEngagementAndUniqueVolunteers(t *testing.T) {
	records := []Participation{
		{EventID: "e1", VolunteerID: "v1", Status: ParticipationApproved},
		{EventID: "e1", VolunteerID: "v2", Status: ParticipationPending},
		{EventID: "e2", VolunteerID: "v1", Status: ParticipationRejected},
	}
	counts := CountEngagement(records)
	assert.Equal(t, EngagementCounts{Total: 2, Approved: 1, Pending: 1}, counts["e1"])
	assert.Equal(t, EngagementCounts{Total: 1, Rejected: 1}, counts["e2"])
	assert.Equal(t, 2, UniqueVolunteers(records))
}

func TestReportJobParamsPeriod(t *testing.T) {
	annual := ReportJobParams{Year: 2025}
	assert.True(t, annual.Annual())
	assert.Equal(t, "Year 2025", annual.PeriodLabel())

	monthly := ReportJobParams{Month: 3, Year: 2025}
	assert.False(t, monthly.Annual())
	assert.Equal(t, "March 2025", monthly.PeriodLabel())
}
