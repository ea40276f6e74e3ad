package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReportType enumerates supported asynchronous report categories.
type ReportType string

const (
	ReportTypeAccomplishment ReportType = "accomplishment"
)

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatPDF ReportFormat = "pdf"
	ReportFormatCSV ReportFormat = "csv"
)

// ReportStatus captures background job lifecycle states.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "QUEUED"
	ReportStatusProcessing ReportStatus = "PROCESSING"
	ReportStatusFinished   ReportStatus = "FINISHED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// ReportJob persisted background job metadata.
type ReportJob struct {
	ID           string          `db:"id" json:"id"`
	OrgID        string          `db:"org_id" json:"org_id"`
	Type         ReportType      `db:"type" json:"type"`
	Params       ReportJobParams `db:"params" json:"params"`
	Status       ReportStatus    `db:"status" json:"status"`
	Progress     int             `db:"progress" json:"progress"`
	ResultURL    *string         `db:"result_url" json:"result_url,omitempty"`
	ResultFile   *string         `db:"result_file" json:"-"`
	PageCount    *int            `db:"page_count" json:"page_count,omitempty"`
	CreatedBy    string          `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time      `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
}

// ReportJobParams stores request-scoped options persisted as JSONB.
// Month 0 means an annual report covering the whole year.
type ReportJobParams struct {
	Month  int          `json:"month"`
	Year   int          `json:"year"`
	Format ReportFormat `json:"format"`
}

// Annual reports cover every month of the year.
func (p ReportJobParams) Annual() bool {
	return p.Month == 0
}

// PeriodLabel is the human-readable period shown on the cover page.
func (p ReportJobParams) PeriodLabel() string {
	if p.Annual() {
		return fmt.Sprintf("Year %d", p.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

// Value marshals params to JSON for persistence.
func (p ReportJobParams) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal report job params: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the params struct.
func (p *ReportJobParams) Scan(value interface{}) error {
	if value == nil {
		*p = ReportJobParams{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ReportJobParams", value)
	}
	if len(data) == 0 {
		*p = ReportJobParams{}
		return nil
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("unmarshal report job params: %w", err)
	}
	return nil
}
