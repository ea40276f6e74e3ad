package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Dashboard responses carry a meta block alongside the payload: whether the
// listing came from Redis and how long the request took server-side.
const (
	responseMetaKey  = "response_meta"
	metaCacheHit     = "cache_hit"
	metaProcessingMS = "processing_time_ms"
)

// WithResponseMeta seeds the meta map and stamps the processing time once the
// handler chain returns. Handlers that set their own timing win.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
		meta := metaFor(c)
		if _, set := meta[metaProcessingMS]; !set {
			meta[metaProcessingMS] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit records whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	metaFor(c)[metaCacheHit] = hit
}

// ExtractMeta returns the request's meta map, or nil when WithResponseMeta
// is not installed.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, ok := c.Value(responseMetaKey).(map[string]interface{}); ok {
		return meta
	}
	return nil
}

// metaFor returns the request's meta map, installing one if a handler writes
// meta before the middleware ran (tests construct contexts bare).
func metaFor(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta, ok := c.Value(responseMetaKey).(map[string]interface{}); ok {
		return meta
	}
	meta := map[string]interface{}{}
	c.Set(responseMetaKey, meta)
	return meta
}
