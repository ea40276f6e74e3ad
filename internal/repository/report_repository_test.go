package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/centro-ngo/centro-api/internal/models"
)

func reportJobRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "org_id", "type", "params", "status", "progress", "result_url", "result_file", "page_count",
		"created_by", "created_at", "finished_at", "error_message",
	})
}

func TestReportRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO report_jobs")).
		WithArgs(sqlmock.AnyArg(), "org-1", "accomplishment", sqlmock.AnyArg(), "QUEUED", 0,
			nil, nil, nil, "admin-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{
		OrgID:     "org-1",
		Type:      models.ReportTypeAccomplishment,
		Params:    models.ReportJobParams{Month: 3, Year: 2025, Format: models.ReportFormatPDF},
		CreatedBy: "admin-1",
	}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NotEmpty(t, job.ID)

	rows := reportJobRows().
		AddRow(job.ID, "org-1", "accomplishment", `{"month":3,"year":2025,"format":"pdf"}`, "QUEUED", 0,
			nil, nil, nil, "admin-1", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, 3, fetched.Params.Month)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now()
	status := models.ReportStatusFinished
	progress := 100
	result := "/api/v1/export/token"
	pages := 5
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $1, progress = $2, result_url = $3, page_count = $4, finished_at = $5 WHERE id = $6")).
		WithArgs(status, progress, result, pages, now, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "job-1", UpdateReportJobParams{
		Status:     &status,
		Progress:   &progress,
		ResultURL:  &result,
		PageCount:  &pages,
		FinishedAt: &now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := reportJobRows().
		AddRow("job-1", "org-1", "accomplishment", `{"month":0,"year":2025,"format":"pdf"}`, "QUEUED", 0,
			nil, nil, nil, "admin-1", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.True(t, jobs[0].Params.Annual())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListFinishedBefore(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := reportJobRows().
		AddRow("job-1", "org-1", "accomplishment", `{"month":3,"year":2025,"format":"pdf"}`, "FINISHED", 100,
			"/api/v1/export/token", "Acme_Monthly_Report_2025-3.pdf", 4, "admin-1",
			time.Now().Add(-48*time.Hour), time.Now().Add(-25*time.Hour), nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE status = 'FINISHED' AND finished_at IS NOT NULL AND finished_at < $1 ORDER BY finished_at ASC LIMIT $2")).
		WithArgs(sqlmock.AnyArg(), 50).
		WillReturnRows(rows)

	jobs, err := repo.ListFinishedBefore(context.Background(), time.Now(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
