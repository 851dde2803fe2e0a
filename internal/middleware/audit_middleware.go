package middleware

import (
	"bytes"
	"io"
	"strings"

	"mentorhub_backend/internal/models"
	"mentorhub_backend/internal/services"
	"mentorhub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// maxAuditBodyBytes caps how much of a request body is stored per entry.
const maxAuditBodyBytes = 8 * 1024

// AuditMiddleware records every successful mutating request. The insert runs
// in a goroutine after the response is written; failures are logged and
// swallowed so auditing can never break the request itself.
func AuditMiddleware(auditService services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "PATCH" && method != "DELETE" {
			c.Next()
			return
		}

		// Read and restore the body so handlers can still bind it.
		var bodyCopy []byte
		if c.Request.Body != nil {
			bodyCopy, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBodyBytes))
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(bodyCopy), c.Request.Body))
		}

		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLogEntry{
			Action:   method,
			Resource: resourceFromPath(c.Request.URL.Path),
		}
		entry.ResourceID = utils.NewNullString(c.Param("id"))
		if userID, ok := c.Get("userID"); ok {
			if id, isInt := userID.(int64); isInt {
				entry.ActorID = &id
			}
		}
		if username, ok := c.Get("username"); ok {
			if name, isStr := username.(string); isStr {
				entry.ActorName = utils.NewNullString(name)
			}
		}
		entry.Details = utils.NewNullString(string(bodyCopy))
		entry.IPAddress = utils.NewNullString(c.ClientIP())
		entry.UserAgent = utils.NewNullString(c.Request.UserAgent())

		go func() {
			if err := auditService.Record(entry); err != nil {
				utils.LogError(err, "AuditMiddleware: failed to record entry")
			}
		}()
	}
}

// resourceFromPath extracts the first meaningful path segment, e.g.
// "/api/v1/invoices/3/status" -> "invoices".
func resourceFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for _, seg := range segments {
		if seg == "" || seg == "api" || strings.HasPrefix(seg, "v") && len(seg) <= 3 {
			continue
		}
		return seg
	}
	return path
}
