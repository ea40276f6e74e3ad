package dto

import (
	"time"

	"github.com/centro-ngo/centro-api/internal/models"
)

// ReportRequest captures the POST /reports payload. Period is a month number
// ("1".."12") or "all" for an annual report.
type ReportRequest struct {
	Period string              `json:"period" validate:"required"`
	Year   int                 `json:"year" validate:"required,gte=2000,lte=2100"`
	Format models.ReportFormat `json:"format"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID         string              `json:"id"`
	Status     models.ReportStatus `json:"status"`
	Progress   int                 `json:"progress"`
	Period     string              `json:"period"`
	PageCount  *int                `json:"page_count,omitempty"`
	ResultURL  *string             `json:"result_url,omitempty"`
	Error      *string             `json:"error,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}
