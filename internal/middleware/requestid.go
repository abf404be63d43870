package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader propagates the request identifier to and from clients
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key holding the request ID string
	RequestIDKey = "request_id"

	// maxRequestIDLength caps inbound identifiers so a hostile client cannot
	// bloat every audit and log line for the request
	maxRequestIDLength = 128
)

// RequestIDMiddleware tags every request with an identifier used to correlate
// access logs, audit entries, and error responses. An inbound X-Request-ID
// from a reverse proxy is reused when it is reasonably sized; otherwise a
// fresh UUID is minted. The ID lands in the context under RequestIDKey and is
// echoed back in the response header.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
