package middleware

import (
	"net/http"
	"time"

	"cocktail-web/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionKey = "session_id"

// Session 確保每個瀏覽器都有 session cookie
func Session(cookieName string, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil {
			id = ""
		}
		if _, perr := uuid.Parse(id); perr != nil {
			id = common.GenerateUUID()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, id, int(ttl.Seconds()), "/", "", secure, true)
		c.Set(sessionKey, id)

		c.Next()
	}
}

// SessionID 取得目前請求的 session
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
