package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing opens a server span per request, named after the route pattern.
// Unmatched routes fall back to the raw path.
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceAttributes annotates the active request span with the request id
// and, once the JWT has been validated, the tenant and user bindings.
// It must run after Tracing and the Auth middleware runs inside it, so
// the identity attributes are read after the handler chain finishes.
func TraceAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := c.Writer.Header().Get(RequestIDHeader); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		if tenantID, ok := TenantID(c); ok {
			span.SetAttributes(attribute.String("tenant_id", tenantID.String()))
		}
		if userID, ok := UserID(c); ok {
			span.SetAttributes(attribute.String("user_id", userID.String()))
		}
	}
}
