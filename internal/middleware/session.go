package middleware

import (
	"net/http"

	"drug-repurpose-go/pkg/log"
	"drug-repurpose-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionIDKey 是会话 ID 在 Gin 上下文中的键名。
const SessionIDKey = "sessionID"

// Session 是一个 Gin 中间件，负责显式的会话对象生命周期：
// 首次交互时铸造一个 UUID 会话 ID 并签名进 Cookie，后续请求验证 Cookie
// 并恢复该 ID。聊天记录以此 ID 为键。
func Session(manager *token.SessionManager, cookieName string, expireHours int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cookie, err := c.Cookie(cookieName); err == nil {
			if claims, verr := manager.VerifyToken(cookie); verr == nil {
				c.Set(SessionIDKey, claims.SessionID)
				c.Next()
				return
			}
			// Cookie 无效或过期：重新发一个，视作新会话
			log.Warnf("会话 Cookie 验证失败，重新分配会话")
		}

		sessionID := uuid.NewString()
		signed, err := manager.GenerateSessionToken(sessionID)
		if err != nil {
			log.Error("生成会话令牌失败", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "无法创建会话", "data": nil})
			return
		}
		c.SetCookie(cookieName, signed, expireHours*3600, "/", "", false, true)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID 从 Gin 上下文中取出会话 ID。
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(SessionIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
