package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/session"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "sessionID"

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		util.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		util.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// sessionMiddleware makes sure every request carries a session id. A new id
// is set as a cookie and also used for the rest of the current request.
func sessionMiddleware(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookies := session.ParseCookies(c.GetHeader("Cookie"))

		sessionID := cookies[cookieName]
		if sessionID == "" {
			sessionID = session.GenerateSessionID()
			http.SetCookie(c.Writer, session.NewCookie(cookieName, sessionID))
		}

		c.Set(sessionContextKey, sessionID)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
