package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/centro-ngo/centro-api/internal/models"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
	"github.com/centro-ngo/centro-api/pkg/export"
	"github.com/centro-ngo/centro-api/pkg/storage"
)

type participationLister interface {
	ListByEventIDs(ctx context.Context, eventIDs []string) ([]models.Participation, error)
}

type applicationLister interface {
	ListByOrg(ctx context.Context, orgID string) ([]models.Application, error)
}

type organizationGetter interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type reportRenderer interface {
	Render(rep export.Report) ([]byte, int, error)
}

type assetFetcher interface {
	FetchAll(ctx context.Context, urls []string, workers int) map[string]*export.Asset
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix   string
	ResultTTL   time.Duration
	Prefetchers int
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	PageCount    int
	ExpiresAt    time.Time
}

// ExportService assembles report data and persists rendered files.
type ExportService struct {
	events         eventLister
	participations participationLister
	applications   applicationLister
	orgs           organizationGetter
	storage        fileStorage
	assets         assetFetcher
	renderer       reportRenderer
	csv            *export.CSVExporter
	signer         *storage.SignedURLSigner
	metrics        *MetricsService
	logger         *zap.Logger
	cfg            ExportConfig
	now            func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(
	events eventLister,
	participations participationLister,
	applications applicationLister,
	orgs organizationGetter,
	store fileStorage,
	assets assetFetcher,
	renderer reportRenderer,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	cfg ExportConfig,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Prefetchers <= 0 {
		cfg.Prefetchers = 4
	}
	if renderer == nil {
		renderer = export.NewAccomplishmentPDF(logger)
	}
	return &ExportService{
		events:         events,
		participations: participations,
		applications:   applications,
		orgs:           orgs,
		storage:        store,
		assets:         assets,
		renderer:       renderer,
		csv:            export.NewCSVExporter(),
		signer:         signer,
		metrics:        metrics,
		logger:         logger,
		cfg:            cfg,
		now:            time.Now,
	}
}

// Generate builds the accomplishment report for the job and stores the
// rendered file. All images are prefetched before layout starts so the page
// sequence depends only on the fetched data. Jobs requesting the CSV format
// skip rendering entirely and serialise the period's events as a table.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	start := s.now()
	kind := export.ReportMonthly
	if job.Params.Annual() {
		kind = export.ReportAnnual
	}

	if job.Params.Format == models.ReportFormatCSV {
		return s.generateCSV(ctx, job, kind, start)
	}

	rep, err := s.buildReport(ctx, job, kind)
	if err != nil {
		s.observe(kind, false, 0, s.now().Sub(start))
		return nil, err
	}

	data, pages, err := s.renderer.Render(*rep)
	if err != nil {
		s.observe(kind, false, 0, s.now().Sub(start))
		return nil, fmt.Errorf("render report: %w", err)
	}
	s.observe(kind, true, pages, s.now().Sub(start))

	relPath, err := s.storage.Save(rep.Filename(), data)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		PageCount:    pages,
		ExpiresAt:    expiresAt,
	}, nil
}

// generateCSV serialises the period's events as a table and stores it under
// the same signed-download scheme as rendered reports. CSV exports have no
// page count.
func (s *ExportService) generateCSV(ctx context.Context, job *models.ReportJob, kind export.ReportKind, start time.Time) (*ExportResult, error) {
	org, selected, err := s.selectEvents(ctx, job, kind)
	if err != nil {
		s.observe(kind, false, 0, s.now().Sub(start))
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.csv.Export(&buf, s.eventDataset(selected)); err != nil {
		s.observe(kind, false, 0, s.now().Sub(start))
		return nil, fmt.Errorf("export report csv: %w", err)
	}
	s.observe(kind, true, 0, s.now().Sub(start))

	filename := export.ReportFilename(org.Name, kind, job.Params.Year, time.Month(job.Params.Month), "csv")
	relPath, err := s.storage.Save(filename, buf.Bytes())
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *ExportService) eventDataset(events []models.Event) *export.Dataset {
	now := s.now()
	ds := &export.Dataset{
		Headers: []string{"Event ID", "Title", "Date", "Start Time", "End Time", "Duration", "Call Time", "Location", "Status"},
		Rows:    make([][]string, 0, len(events)),
	}
	for _, ev := range events {
		ds.Rows = append(ds.Rows, []string{
			ev.ID,
			ev.Title,
			export.FormatDate(ev.Date),
			export.FormatTime(deref(ev.StartTime)),
			export.FormatTime(deref(ev.EndTime)),
			export.Duration(deref(ev.StartTime), deref(ev.EndTime)),
			export.FormatTime(deref(ev.CallTime)),
			ev.Location,
			displayStatus(ev.ClassifyAt(now)),
		})
	}
	return ds
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// selectEvents resolves the organization and its events falling inside the
// job's period, sorted by date ascending. An empty period is an error: there
// is nothing to report on.
func (s *ExportService) selectEvents(ctx context.Context, job *models.ReportJob, kind export.ReportKind) (*models.Organization, []models.Event, error) {
	org, err := s.orgs.GetByID(ctx, job.OrgID)
	if err != nil {
		return nil, nil, err
	}

	events, err := s.events.ListByOrg(ctx, job.OrgID)
	if err != nil {
		return nil, nil, err
	}

	month := time.Month(job.Params.Month)
	selected := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if ev.Date.Year() != job.Params.Year {
			continue
		}
		if kind == export.ReportMonthly && ev.Date.Month() != month {
			continue
		}
		selected = append(selected, ev)
	}
	if len(selected) == 0 {
		return nil, nil, appErrors.ErrNoEventsInPeriod
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Date.Before(selected[j].Date)
	})
	return org, selected, nil
}

func (s *ExportService) buildReport(ctx context.Context, job *models.ReportJob, kind export.ReportKind) (*export.Report, error) {
	org, selected, err := s.selectEvents(ctx, job, kind)
	if err != nil {
		return nil, err
	}
	month := time.Month(job.Params.Month)

	eventIDs := make([]string, 0, len(selected))
	for _, ev := range selected {
		eventIDs = append(eventIDs, ev.ID)
	}
	participations, err := s.participations.ListByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	engagement := models.CountEngagement(participations)

	applications, err := s.applications.ListByOrg(ctx, job.OrgID)
	if err != nil {
		return nil, err
	}

	assets := s.prefetchAssets(ctx, org, selected)

	now := s.now()
	summary := export.Summary{
		TotalEvents:        len(selected),
		UniqueParticipants: models.UniqueVolunteers(participations),
		NewApplications:    models.CountInPeriod(applications, job.Params.Year, month),
	}
	for _, ev := range selected {
		switch ev.ClassifyAt(now) {
		case models.EventStatusOngoing:
			summary.Ongoing++
		case models.EventStatusUpcoming:
			summary.Upcoming++
		default:
			summary.Completed++
		}
	}

	rep := &export.Report{
		Org:         export.OrgHeader{Name: org.Name, Logo: assets[deref(org.LogoURL)]},
		Kind:        kind,
		Year:        job.Params.Year,
		Month:       month,
		PeriodLabel: job.Params.PeriodLabel(),
		Sections:    s.buildSections(selected, engagement, assets, now),
		Summary:     summary,
		GeneratedAt: now,
	}
	return rep, nil
}

// buildSections groups events by calendar month ascending. Monthly reports
// collapse to a single section.
func (s *ExportService) buildSections(events []models.Event, engagement map[string]models.EngagementCounts, assets map[string]*export.Asset, now time.Time) []export.MonthSection {
	byMonth := make(map[time.Month][]export.EventPage)
	order := make([]time.Month, 0, 12)
	for _, ev := range events {
		m := ev.Date.Month()
		if _, seen := byMonth[m]; !seen {
			order = append(order, m)
		}
		byMonth[m] = append(byMonth[m], s.toEventPage(ev, engagement, assets, now))
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	sections := make([]export.MonthSection, 0, len(order))
	for _, m := range order {
		sections = append(sections, export.MonthSection{Month: m, Events: byMonth[m]})
	}
	return sections
}

func (s *ExportService) toEventPage(ev models.Event, engagement map[string]models.EngagementCounts, assets map[string]*export.Asset, now time.Time) export.EventPage {
	page := export.EventPage{
		ID:            ev.ID,
		Title:         ev.Title,
		Status:        displayStatus(ev.ClassifyAt(now)),
		Location:      ev.Location,
		Date:          ev.Date,
		StartTime:     deref(ev.StartTime),
		EndTime:       deref(ev.EndTime),
		CallTime:      deref(ev.CallTime),
		Objectives:    ev.Objectives,
		Description:   ev.Description,
		Expectations:  ev.Expectations,
		Guidelines:    ev.Guidelines,
		Opportunities: ev.Opportunities,
		Image:         assets[deref(ev.ImageURL)],
	}
	if counts, ok := engagement[ev.ID]; ok && counts.Total > 0 {
		page.Engagement = &export.Engagement{
			Total:    counts.Total,
			Approved: counts.Approved,
			Pending:  counts.Pending,
			Rejected: counts.Rejected,
		}
	}
	return page
}

func (s *ExportService) prefetchAssets(ctx context.Context, org *models.Organization, events []models.Event) map[string]*export.Asset {
	if s.assets == nil {
		return map[string]*export.Asset{}
	}
	urls := make([]string, 0, len(events)+1)
	if org.LogoURL != nil {
		urls = append(urls, *org.LogoURL)
	}
	for _, ev := range events {
		if ev.ImageURL != nil {
			urls = append(urls, *ev.ImageURL)
		}
	}
	return s.assets.FetchAll(ctx, urls, s.cfg.Prefetchers)
}

func (s *ExportService) observe(kind export.ReportKind, success bool, pages int, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveReportGeneration(strings.ToLower(string(kind)), success, pages, duration)
}

func displayStatus(status models.EventStatus) string {
	switch status {
	case models.EventStatusOngoing:
		return "Ongoing"
	case models.EventStatusUpcoming:
		return "Upcoming"
	default:
		return "Completed"
	}
}
