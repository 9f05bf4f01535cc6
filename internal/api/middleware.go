package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// BODY SIZE MIDDLEWARE
// =============================================================================

// MaxBodySizeMiddleware returns middleware that limits request body size.
// Inbound rate limiting and API-key auth were dropped along with the 27
// teacher endpoints they guarded — the surviving surface is a thin,
// read-only status/recall/export API (SPEC_FULL §10); the outbound
// concerns internal/ratelimit now protects are embedding, vector-index,
// and consolidation calls, not inbound HTTP routes.
func MaxBodySizeMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && c.Request.ContentLength > maxBytes {
			ErrorResponse(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body too large, maximum %d bytes", maxBytes))
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// =============================================================================
// VALIDATION CONSTANTS
// =============================================================================

const (
	MaxQueryLength   = 10 * 1024 // 10KB
	MaxTags          = 100
	MaxTagLength     = 200
	MaxLimit         = 1000
	DefaultLimit     = 50
	DefaultBodyLimit = 1 * 1024 * 1024 // 1MB
)

// =============================================================================
// VALIDATION HELPERS
// =============================================================================

// clampLimit ensures a recall k is within the valid range.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// validateQuery truncates an over-long search query rather than rejecting
// the request outright — a recall query is advisory text, not a command.
func validateQuery(query string) string {
	if len(query) > MaxQueryLength {
		return query[:MaxQueryLength]
	}
	return query
}

// validateTags drops tags past MaxTags and truncates any over-long tag.
func validateTags(tags []string) []string {
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		if len(t) > MaxTagLength {
			t = t[:MaxTagLength]
		}
		out[i] = t
	}
	return out
}
