package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centro-ngo/centro-api/internal/dto"
	"github.com/centro-ngo/centro-api/internal/middleware"
	"github.com/centro-ngo/centro-api/internal/models"
	"github.com/centro-ngo/centro-api/internal/service"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
)

type reportServiceMock struct {
	createResp  *dto.ReportJobResponse
	createErr   error
	statusResp  *dto.ReportStatusResponse
	statusErr   error
	listResp    []dto.ReportStatusResponse
	listErr     error
	download    *service.ReportDownload
	downloadErr error

	gotReq   dto.ReportRequest
	gotOrgID string
}

func (m *reportServiceMock) CreateJob(ctx context.Context, req dto.ReportRequest, orgID, actorID string) (*dto.ReportJobResponse, error) {
	m.gotReq = req
	m.gotOrgID = orgID
	return m.createResp, m.createErr
}

func (m *reportServiceMock) GetStatus(ctx context.Context, id, orgID string) (*dto.ReportStatusResponse, error) {
	m.gotOrgID = orgID
	return m.statusResp, m.statusErr
}

func (m *reportServiceMock) ListJobs(ctx context.Context, orgID string, limit int) ([]dto.ReportStatusResponse, error) {
	m.gotOrgID = orgID
	return m.listResp, m.listErr
}

func (m *reportServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error) {
	return m.download, m.downloadErr
}

func TestReportHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		createResp: &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued, Progress: 0},
	}
	handler := NewReportHandler(mockSvc)

	payload, _ := json.Marshal(dto.ReportRequest{Period: "3", Year: 2025})
	c, w := newGinContext(http.MethodPost, "/reports", payload)
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.Generate(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "org-1", mockSvc.gotOrgID)
	assert.Equal(t, "3", mockSvc.gotReq.Period)
}

func TestReportHandlerGenerateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{createErr: appErrors.ErrGenerationInFlight}
	handler := NewReportHandler(mockSvc)

	payload, _ := json.Marshal(dto.ReportRequest{Period: "all", Year: 2025})
	c, w := newGinContext(http.MethodPost, "/reports", payload)
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.Generate(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestReportHandlerGenerateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{})

	c, w := newGinContext(http.MethodPost, "/reports", []byte("not-json"))
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		statusResp: &dto.ReportStatusResponse{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100},
	}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/reports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReportHandlerListLimitValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{})

	c, w := newGinContext(http.MethodGet, "/reports?limit=500", nil)
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	file, err := os.CreateTemp(t.TempDir(), "report*.pdf")
	require.NoError(t, err)
	_, _ = file.WriteString("%PDF-1.4 test")
	_, _ = file.Seek(0, 0)

	mockSvc := &reportServiceMock{
		download: &service.ReportDownload{
			File:      file,
			Filename:  "Acme_Monthly_Report_2025-3.pdf",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Acme_Monthly_Report_2025-3.pdf")
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestReportHandlerDownloadCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	file, err := os.CreateTemp(t.TempDir(), "report*.csv")
	require.NoError(t, err)
	_, _ = file.WriteString("Event ID,Title\nevt-1,River Cleanup\n")
	_, _ = file.Seek(0, 0)

	mockSvc := &reportServiceMock{
		download: &service.ReportDownload{
			File:      file,
			Filename:  "Acme_Monthly_Report_2025-3.csv",
			Format:    models.ReportFormatCSV,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Acme_Monthly_Report_2025-3.csv")
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "River Cleanup")
}

func TestReportHandlerDownloadExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{downloadErr: appErrors.ErrUnauthorized}
	handler := NewReportHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/export/stale", nil)
	c.Params = gin.Params{{Key: "token", Value: "stale"}}

	handler.Download(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
