package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/centro-ngo/centro-api/internal/dto"
	"github.com/centro-ngo/centro-api/internal/models"
	"github.com/centro-ngo/centro-api/internal/repository"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
	"github.com/centro-ngo/centro-api/pkg/jobs"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	ListByOrg(ctx context.Context, orgID string, limit int) ([]models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// generationGuard keeps at most one report generation in flight per
// organization. Layout is single-goroutine per report; the guard stops a
// double-click from queueing duplicate work.
type generationGuard struct {
	mu     sync.Mutex
	active map[string]string
}

func newGenerationGuard() *generationGuard {
	return &generationGuard{active: make(map[string]string)}
}

// TryAcquire claims the organization slot for jobID. Returns false when
// another job already holds it.
func (g *generationGuard) TryAcquire(orgID, jobID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.active[orgID]; held {
		return false
	}
	g.active[orgID] = jobID
	return true
}

// Release frees the organization slot if jobID holds it.
func (g *generationGuard) Release(orgID, jobID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active[orgID] == jobID {
		delete(g.active, orgID)
	}
}

// ReportService orchestrates report job lifecycle management.
type ReportService struct {
	repo     reportJobStore
	queue    jobDispatcher
	exporter *ExportService
	guard    *generationGuard
	validate *validator.Validate
	logger   *zap.Logger
	cfg      ReportServiceConfig
}

// ReportServiceConfig governs queue recovery and cleanup.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
	MaxRetries      int
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo reportJobStore, queue jobDispatcher, exporter *ExportService, guard *generationGuard, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if guard == nil {
		guard = newGenerationGuard()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &ReportService{
		repo:     repo,
		queue:    queue,
		exporter: exporter,
		guard:    guard,
		validate: validator.New(),
		logger:   logger,
		cfg:      cfg,
	}
}

// Guard exposes the single-flight guard so the worker can release slots.
func (s *ReportService) Guard() *generationGuard {
	return s.guard
}

// CreateJob validates the request, persists the job and enqueues processing.
// One generation per organization may be in flight at a time.
func (s *ReportService) CreateJob(ctx context.Context, req dto.ReportRequest, orgID, actorID string) (*dto.ReportJobResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}
	month, err := parsePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	format := req.Format
	if format == "" {
		format = models.ReportFormatPDF
	}
	if format != models.ReportFormatPDF && format != models.ReportFormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}

	job := &models.ReportJob{
		OrgID:     orgID,
		Type:      models.ReportTypeAccomplishment,
		Params:    models.ReportJobParams{Month: month, Year: req.Year, Format: format},
		Status:    models.ReportStatusQueued,
		Progress:  0,
		CreatedBy: actorID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}

	if !s.guard.TryAcquire(orgID, job.ID) {
		s.markFailed(ctx, job.ID, "another report generation is already in flight")
		return nil, appErrors.ErrGenerationInFlight
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		s.guard.Release(orgID, job.ID)
		s.markFailed(ctx, job.ID, "failed to enqueue job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

func (s *ReportService) markFailed(ctx context.Context, jobID, msg string) {
	status := models.ReportStatusFailed
	progress := 100
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, jobID, repository.UpdateReportJobParams{
		Status:       &status,
		Progress:     &progress,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Sugar().Warnw("failed to mark job failed", "job_id", jobID, "error", err)
	}
}

// GetStatus exposes job metadata, enforcing organization ownership.
func (s *ReportService) GetStatus(ctx context.Context, id, orgID string) (*dto.ReportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.OrgID != orgID {
		return nil, appErrors.ErrForbidden
	}
	return toStatusResponse(job), nil
}

// ListJobs returns the organization's recent report jobs.
func (s *ReportService) ListJobs(ctx context.Context, orgID string, limit int) ([]dto.ReportStatusResponse, error) {
	records, err := s.repo.ListByOrg(ctx, orgID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list report jobs")
	}
	out := make([]dto.ReportStatusResponse, 0, len(records))
	for i := range records {
		out = append(out, *toStatusResponse(&records[i]))
	}
	return out, nil
}

func toStatusResponse(job *models.ReportJob) *dto.ReportStatusResponse {
	resp := &dto.ReportStatusResponse{
		ID:         job.ID,
		Status:     job.Status,
		Progress:   job.Progress,
		Period:     job.Params.PeriodLabel(),
		PageCount:  job.PageCount,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}
	if job.ResultURL != nil {
		resp.ResultURL = job.ResultURL
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp
}

// ResolveDownload validates the token and opens the stored report file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open report file")
	}
	format := job.Params.Format
	if format == "" {
		format = models.ReportFormatPDF
	}
	return &ReportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    format,
		ExpiresAt: expiresAt,
	}, nil
}

// RecoverPendingJobs replays queued jobs (e.g. after process restart).
func (s *ReportService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Sugar().Warnw("failed to recover queued report jobs", "error", err)
		return
	}
	for _, job := range pending {
		if !s.guard.TryAcquire(job.OrgID, job.ID) {
			continue
		}
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
			s.guard.Release(job.OrgID, job.ID)
			s.logger.Sugar().Warnw("failed to requeue pending job", "job_id", job.ID, "error", err)
		}
	}
}

// StartCleanup boots a goroutine that purges expired reports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ReportService) cleanupExpired(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	for {
		records, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
		if err != nil {
			s.logger.Sugar().Warnw("cleanup list failed", "error", err)
			return
		}
		if len(records) == 0 {
			break
		}
		for _, job := range records {
			if job.ResultURL == nil {
				continue
			}
			token := extractToken(*job.ResultURL)
			if token == "" {
				continue
			}
			_, relPath, _, err := s.exporter.ParseToken(token, true)
			if err != nil {
				continue
			}
			if err := s.exporter.Delete(relPath); err != nil {
				s.logger.Sugar().Warnw("cleanup delete failed", "job_id", job.ID, "error", err)
			}
		}
		if len(records) < 100 {
			break
		}
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Sugar().Warnw("filesystem cleanup failed", "error", err)
	}
}

func parsePeriod(raw string) (int, error) {
	period := strings.ToLower(strings.TrimSpace(raw))
	if period == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "period must be selected")
	}
	if period == "all" {
		return 0, nil
	}
	month, err := strconv.Atoi(period)
	if err != nil || month < 1 || month > 12 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "period must be a month (1-12) or 'all'")
	}
	return month, nil
}

func extractToken(url string) string {
	if url == "" {
		return ""
	}
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

// ReportWorker bridges queue jobs to the export pipeline.
type ReportWorker struct {
	repo       reportJobStore
	exporter   exportGenerator
	guard      *generationGuard
	logger     *zap.Logger
	maxRetries int
}

// NewReportWorker constructs a worker.
func NewReportWorker(repo reportJobStore, exporter exportGenerator, guard *generationGuard, maxRetries int, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if guard == nil {
		guard = newGenerationGuard()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ReportWorker{
		repo:       repo,
		exporter:   exporter,
		guard:      guard,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// Handle processes a queue job.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ReportStatusProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:   &processing,
		Progress: &progress,
	}); err != nil {
		return err
	}
	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := err.Error()
		// Validation-style failures (no events in the period) never succeed on
		// retry, so they fail immediately.
		final := job.Attempt >= w.maxRetries || errors.Is(err, appErrors.ErrNoEventsInPeriod)
		if final {
			failed := models.ReportStatusFailed
			progress = 100
			now := time.Now().UTC()
			if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
				Status:       &failed,
				Progress:     &progress,
				ErrorMessage: &msg,
				FinishedAt:   &now,
			}); updateErr != nil {
				w.logger.Sugar().Warnw("failed to mark job failed", "job_id", job.ID, "error", updateErr)
			}
			w.guard.Release(record.OrgID, record.ID)
			if errors.Is(err, appErrors.ErrNoEventsInPeriod) {
				return nil
			}
		} else {
			queued := models.ReportStatusQueued
			reset := 0
			if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
				Status:       &queued,
				Progress:     &reset,
				ErrorMessage: &msg,
			}); updateErr != nil {
				w.logger.Sugar().Warnw("failed to mark job queued", "job_id", job.ID, "error", updateErr)
			}
		}
		return err
	}
	finished := models.ReportStatusFinished
	progress = 100
	now := time.Now().UTC()
	url := result.URL
	relPath := result.RelativePath
	pages := result.PageCount
	noErr := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ResultFile:   &relPath,
		PageCount:    &pages,
		ErrorMessage: &noErr,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Sugar().Warnw("failed to mark job finished", "job_id", job.ID, "error", err)
		w.guard.Release(record.OrgID, record.ID)
		return err
	}
	w.guard.Release(record.OrgID, record.ID)
	return nil
}
