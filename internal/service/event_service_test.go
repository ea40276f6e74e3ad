package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/centro-ngo/centro-api/internal/models"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
)

// dashboardEvents has one event per bucket relative to 2025-06-10 09:00.
func dashboardEvents() []models.Event {
	end := "17:00"
	return []models.Event{
		{ID: "evt-1", OrgID: "org-1", Title: "River Cleanup", Date: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "evt-2", OrgID: "org-1", Title: "Food Drive", Date: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), EndTime: &end},
		{ID: "evt-3", OrgID: "org-1", Title: "Tree Planting", Date: time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)},
	}
}

func newEventServiceForTest(t *testing.T, cache *CacheService) (*EventService, *eventListerStub) {
	t.Helper()
	stub := &eventListerStub{}
	if cache == nil {
		cache = NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	}
	svc := NewEventService(stub, cache, time.Minute, zap.NewNop())
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	}
	return svc, stub
}

func TestEventServiceListGroups(t *testing.T) {
	svc, stub := newEventServiceForTest(t, nil)
	stub.events = dashboardEvents()
	resp, hit, err := svc.List(context.Background(), "org-1", "")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, resp.Completed, 1)
	assert.Len(t, resp.Ongoing, 1)
	assert.Len(t, resp.Upcoming, 1)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, "evt-1", resp.Completed[0].ID)
	assert.Equal(t, "evt-2", resp.Ongoing[0].ID)
}

func TestEventServiceListSearch(t *testing.T) {
	svc, stub := newEventServiceForTest(t, nil)
	stub.events = dashboardEvents()

	resp, _, err := svc.List(context.Background(), "org-1", "cleanup")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	resp, _, err = svc.List(context.Background(), "org-1", "EVT-")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
}

func TestEventServiceListCacheHit(t *testing.T) {
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc, stub := newEventServiceForTest(t, cache)
	stub.events = dashboardEvents()

	_, hit, err := svc.List(context.Background(), "org-1", "")
	require.NoError(t, err)
	assert.False(t, hit)

	resp, hit, err := svc.List(context.Background(), "org-1", "")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, resp.Total)
}

func TestEventServiceGet(t *testing.T) {
	svc, stub := newEventServiceForTest(t, nil)
	stub.events = dashboardEvents()

	ev, err := svc.Get(context.Background(), "org-1", "evt-2")
	require.NoError(t, err)
	assert.Equal(t, "Food Drive", ev.Title)

	_, err = svc.Get(context.Background(), "org-1", "evt-missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	// Events are scoped to the caller's organization.
	_, err = svc.Get(context.Background(), "org-2", "evt-2")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEventServiceExportCSV(t *testing.T) {
	svc, stub := newEventServiceForTest(t, nil)
	stub.events = dashboardEvents()
	ds, filename, err := svc.ExportCSV(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 3)
	assert.Contains(t, filename, "events_")
	assert.Equal(t, "COMPLETED", ds.Rows[0][6])
}
