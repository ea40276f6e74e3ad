package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centro-ngo/centro-api/internal/dto"
	"github.com/centro-ngo/centro-api/internal/middleware"
	"github.com/centro-ngo/centro-api/internal/models"
	appErrors "github.com/centro-ngo/centro-api/pkg/errors"
	"github.com/centro-ngo/centro-api/pkg/export"
)

type eventServiceMock struct {
	grouped  *dto.GroupedEventsResponse
	cacheHit bool
	listErr  error
	event    *models.Event
	getErr   error
	dataset  *export.Dataset
	filename string
	csvErr   error

	gotOrgID  string
	gotSearch string
	gotID     string
}

func (m *eventServiceMock) List(ctx context.Context, orgID, search string) (*dto.GroupedEventsResponse, bool, error) {
	m.gotOrgID = orgID
	m.gotSearch = search
	return m.grouped, m.cacheHit, m.listErr
}

func (m *eventServiceMock) Get(ctx context.Context, orgID, id string) (*models.Event, error) {
	m.gotOrgID = orgID
	m.gotID = id
	return m.event, m.getErr
}

func (m *eventServiceMock) ExportCSV(ctx context.Context, orgID string) (*export.Dataset, string, error) {
	m.gotOrgID = orgID
	return m.dataset, m.filename, m.csvErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func orgClaims(orgID string) *models.JWTClaims {
	return &models.JWTClaims{OrgID: orgID, Email: "admin@example.org", Role: models.RoleOrgAdmin}
}

func TestEventHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &eventServiceMock{
		grouped: &dto.GroupedEventsResponse{
			Ongoing:   []dto.EventSummary{{ID: "evt-1", Title: "River Cleanup"}},
			Upcoming:  []dto.EventSummary{},
			Completed: []dto.EventSummary{},
			Total:     1,
		},
		cacheHit: true,
	}
	handler := NewEventHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/events?search=river", nil)
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "org-1", mockSvc.gotOrgID)
	assert.Equal(t, "river", mockSvc.gotSearch)

	var envelope struct {
		Data dto.GroupedEventsResponse `json:"data"`
		Meta map[string]interface{}    `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Total)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestEventHandlerListRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEventHandler(&eventServiceMock{})

	c, w := newGinContext(http.MethodGet, "/events", nil)
	handler.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventHandlerGetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &eventServiceMock{
		event: &models.Event{ID: "evt-1", OrgID: "org-1", Title: "River Cleanup"},
	}
	handler := NewEventHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/events/evt-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-1"}}
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.GetByID(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "org-1", mockSvc.gotOrgID)
	assert.Equal(t, "evt-1", mockSvc.gotID)

	var envelope struct {
		Data models.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "River Cleanup", envelope.Data.Title)
}

func TestEventHandlerGetByIDNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEventHandler(&eventServiceMock{getErr: appErrors.ErrNotFound})

	c, w := newGinContext(http.MethodGet, "/events/evt-missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "evt-missing"}}
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.GetByID(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &eventServiceMock{
		dataset: &export.Dataset{
			Headers: []string{"ID", "Title"},
			Rows:    [][]string{{"evt-1", "River Cleanup"}},
		},
		filename: "events_20250610_090000.csv",
	}
	handler := NewEventHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/events/export", nil)
	c.Set(middleware.ContextUserKey, orgClaims("org-1"))

	handler.ExportCSV(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "events_20250610_090000.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Title", lines[0])
	assert.Equal(t, "evt-1,River Cleanup", lines[1])
}
