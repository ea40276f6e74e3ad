package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centro-ngo/centro-api/internal/dto"
	"github.com/centro-ngo/centro-api/internal/middleware"
	"github.com/centro-ngo/centro-api/internal/models"
	"github.com/centro-ngo/centro-api/pkg/export"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
	"github.com/centro-ngo/centro-api/pkg/response"
)

type eventService interface {
	List(ctx context.Context, orgID, search string) (*dto.GroupedEventsResponse, bool, error)
	Get(ctx context.Context, orgID, id string) (*models.Event, error)
	ExportCSV(ctx context.Context, orgID string) (*export.Dataset, string, error)
}

// EventHandler exposes the events dashboard endpoints.
type EventHandler struct {
	events eventService
	csv    *export.CSVExporter
}

// NewEventHandler constructs the handler.
func NewEventHandler(events eventService) *EventHandler {
	return &EventHandler{events: events, csv: export.NewCSVExporter()}
}

// List godoc
// @Summary Grouped events listing
// @Description Returns the organization's events bucketed into ongoing, upcoming and completed.
// @Tags Events
// @Produce json
// @Param search query string false "Filter by title or event ID"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	grouped, cacheHit, err := h.events.List(c.Request.Context(), claims.OrgID, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, grouped, nil, middleware.ExtractMeta(c))
}

// GetByID godoc
// @Summary Single event detail
// @Description Returns one event; events outside the caller's organization are not found.
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	ev, err := h.events.Get(c.Request.Context(), claims.OrgID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ev, nil)
}

// ExportCSV godoc
// @Summary Export events as CSV
// @Tags Events
// @Produce text/csv
// @Success 200 {file} binary
// @Router /events/export [get]
func (h *EventHandler) ExportCSV(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dataset, filename, err := h.events.ExportCSV(c.Request.Context(), claims.OrgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.csv.Export(c.Writer, dataset); err != nil {
		_ = c.Error(err)
	}
}
