package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/centro-ngo/centro-api/internal/dto"
	"github.com/centro-ngo/centro-api/internal/models"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
	"github.com/centro-ngo/centro-api/pkg/export"
)

type eventLister interface {
	ListByOrg(ctx context.Context, orgID string) ([]models.Event, error)
	GetByID(ctx context.Context, orgID, id string) (*models.Event, error)
}

// EventService serves the dashboard event listing.
type EventService struct {
	events   eventLister
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewEventService constructs the event service.
func NewEventService(events eventLister, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		events:   events,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the organization's events grouped into ongoing, upcoming and
// completed buckets, optionally filtered by a title/identifier substring.
// The second return value reports whether the response came from cache.
func (s *EventService) List(ctx context.Context, orgID, search string) (*dto.GroupedEventsResponse, bool, error) {
	key := listingCacheKey(orgID, search)
	var cached dto.GroupedEventsResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	events, err := s.events.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}

	filtered := events[:0:0]
	for _, ev := range events {
		if ev.MatchesSearch(search) {
			filtered = append(filtered, ev)
		}
	}

	grouped := models.GroupEvents(filtered, s.now())
	resp := &dto.GroupedEventsResponse{
		Ongoing:   toSummaries(grouped.Ongoing, models.EventStatusOngoing),
		Upcoming:  toSummaries(grouped.Upcoming, models.EventStatusUpcoming),
		Completed: toSummaries(grouped.Completed, models.EventStatusCompleted),
		Total:     len(filtered),
	}
	_ = s.cache.Set(ctx, key, resp, s.cacheTTL)
	return resp, false, nil
}

// Get returns a single event scoped to the organization. Events belonging to
// other organizations surface as not found.
func (s *EventService) Get(ctx context.Context, orgID, id string) (*models.Event, error) {
	ev, err := s.events.GetByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return ev, nil
}

// ExportCSV builds a flat dataset of the organization's events for download.
func (s *EventService) ExportCSV(ctx context.Context, orgID string) (*export.Dataset, string, error) {
	events, err := s.events.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events")
	}
	now := s.now()
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			ev.ID,
			ev.Title,
			export.FormatDate(ev.Date),
			export.FormatTime(deref(ev.StartTime)),
			export.FormatTime(deref(ev.EndTime)),
			ev.Location,
			string(ev.ClassifyAt(now)),
		})
	}
	ds := &export.Dataset{
		Headers: []string{"ID", "Title", "Date", "Start", "End", "Location", "Status"},
		Rows:    rows,
	}
	filename := fmt.Sprintf("events_%s.csv", now.UTC().Format("20060102_150405"))
	return ds, filename, nil
}

// InvalidateListing drops cached listings for the organization.
func (s *EventService) InvalidateListing(ctx context.Context, orgID string) {
	_ = s.cache.Invalidate(ctx, fmt.Sprintf("events:%s:*", orgID))
}

func listingCacheKey(orgID, search string) string {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		q = "-"
	}
	return fmt.Sprintf("events:%s:%s", orgID, q)
}

func toSummaries(events []models.Event, status models.EventStatus) []dto.EventSummary {
	out := make([]dto.EventSummary, 0, len(events))
	for _, ev := range events {
		out = append(out, dto.EventSummary{
			ID:        ev.ID,
			Title:     ev.Title,
			Date:      ev.Date,
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
			Location:  ev.Location,
			Status:    status,
			ImageURL:  ev.ImageURL,
		})
	}
	return out
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
