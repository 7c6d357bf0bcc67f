package middlewares

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"

	"github.com/edupulse/deadline-reminder/internal/api/respond"
)

const studentIDKey = "student_id"

// CORSMiddleware allows cross-origin requests from the web frontend.
func CORSMiddleware() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Student-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequireStudent extracts the caller's student ID from the
// X-Student-ID header and stores it on the request context.
// Authentication happens upstream; the header is assumed verified.
func RequireStudent() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		id, err := uuid.Parse(c.GetHeader("X-Student-ID"))
		if err != nil || id == uuid.Nil {
			respond.Fail(c.Writer, http.StatusUnauthorized, fmt.Errorf("missing or invalid student id"))
			c.Abort()
			return
		}

		c.Set(studentIDKey, id)
		c.Next()
	}
}

// StudentID returns the student ID stored by RequireStudent.
func StudentID(c *ginext.Context) uuid.UUID {
	v, ok := c.Get(studentIDKey)
	if !ok {
		return uuid.Nil
	}

	id, _ := v.(uuid.UUID)
	return id
}
