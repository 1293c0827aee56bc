package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuditLog records successful write operations on harness runs.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action := mapPathToAction(c.FullPath())
		if action == "" {
			return
		}

		log.Info().
			Str("audit_action", action).
			Str("subject", c.GetString(CtxSubject)).
			Str("client_ip", c.ClientIP()).
			Int("status", status).
			Msg("audit")
	}
}

func mapPathToAction(route string) string {
	switch route {
	case "/api/v1/runs":
		return "run.create"
	case "/api/v1/replays":
		return "run.replay"
	}
	return ""
}
