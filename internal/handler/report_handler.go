package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/centro-ngo/centro-api/internal/dto"
	"github.com/centro-ngo/centro-api/internal/models"
	"github.com/centro-ngo/centro-api/internal/service"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
	"github.com/centro-ngo/centro-api/pkg/response"
)

type reportService interface {
	CreateJob(ctx context.Context, req dto.ReportRequest, orgID, actorID string) (*dto.ReportJobResponse, error)
	GetStatus(ctx context.Context, id, orgID string) (*dto.ReportStatusResponse, error)
	ListJobs(ctx context.Context, orgID string, limit int) ([]dto.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler exposes accomplishment report endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Generate godoc
// @Summary Queue an accomplishment report
// @Description Accepts a period ("all" for annual, "1".."12" for monthly), year and format (pdf default, csv), returning a job handle.
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body dto.ReportRequest true "Report parameters"
// @Success 202 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid report request payload"))
		return
	}
	resp, err := h.reports.CreateJob(c.Request.Context(), req, claims.OrgID, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, resp, nil)
}

// List godoc
// @Summary List recent report jobs
// @Tags Reports
// @Produce json
// @Param limit query int false "Maximum jobs to return" default(20)
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be between 1 and 100"))
			return
		}
		limit = parsed
	}
	jobsList, err := h.reports.ListJobs(c.Request.Context(), claims.OrgID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, jobsList, nil)
}

// Status godoc
// @Summary Report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.reports.GetStatus(c.Request.Context(), c.Param("id"), claims.OrgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Download godoc
// @Summary Download a finished report via signed token
// @Description Token-authenticated; no bearer token required.
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.reports.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck

	size := int64(-1)
	if info, err := result.File.Stat(); err == nil {
		size = info.Size()
	}
	contentType := "application/pdf"
	if result.Format == models.ReportFormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, size, contentType, result.File, nil)
}
