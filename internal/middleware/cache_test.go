package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithResponseMetaStampsProcessingTime(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	_, router := gin.CreateTestContext(rec)
	var meta map[string]interface{}
	router.Use(WithResponseMeta())
	router.GET("/events", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	router.ServeHTTP(rec, req)

	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_hit"])
	_, stamped := meta["processing_time_ms"]
	assert.True(t, stamped, "middleware should stamp processing time after the handler returns")
}

func TestMetaWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))

	SetCacheHit(c, false)
	meta := ExtractMeta(c)
	require.NotNil(t, meta)
	assert.Equal(t, false, meta["cache_hit"])
}
