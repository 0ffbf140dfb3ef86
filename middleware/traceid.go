package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDHeader is honored on requests and echoed on every response.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key the trace id is stored under.
	TraceIDKey = "trace_id"
)

// TraceID tags each request with a trace id. Callers that already carry one
// keep it; everyone else gets a fresh UUID.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(TraceIDKey, id)
		c.Header(TraceIDHeader, id)
		c.Next()
	}
}

// GetTraceID returns the request's trace id, or "" outside a traced request.
func GetTraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
