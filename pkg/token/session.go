// Package token 提供了用于生成和验证会话令牌 (JWT) 的功能。
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionManager 负责管理会话令牌的生成和验证。
// 会话令牌把匿名会话 ID 签名进 Cookie；websocket 令牌用于流式聊天握手，
// 有效期很短，只够前端在拿到后立即建立连接。
type SessionManager struct {
	secretKey  []byte        // secretKey 用于签名和验证 token 的密钥
	sessionDur time.Duration // sessionDur 定义了会话令牌的有效期
}

// SessionClaims 定义了我们想要在 JWT 中存储的自定义数据。
// 它嵌入了 jwt.RegisteredClaims 以包含标准的 JWT 声明（如过期时间）。
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// websocket 令牌的有效期。
const websocketTokenDur = 2 * time.Minute

// NewSessionManager 创建一个新的 SessionManager 实例。
// secret: 用于签名的密钥字符串。
// sessionExpireHours: 会话令牌的过期时间（小时）。
func NewSessionManager(secret string, sessionExpireHours int) *SessionManager {
	return &SessionManager{
		secretKey:  []byte(secret),
		sessionDur: time.Hour * time.Duration(sessionExpireHours),
	}
}

// GenerateSessionToken 为给定的会话 ID 生成一个新的会话令牌。
func (m *SessionManager) GenerateSessionToken(sessionID string) (string, error) {
	return m.generate(sessionID, m.sessionDur)
}

// GenerateWebsocketToken 为给定的会话 ID 生成一个短时效的 websocket 握手令牌。
func (m *SessionManager) GenerateWebsocketToken(sessionID string) (string, error) {
	return m.generate(sessionID, websocketTokenDur)
}

func (m *SessionManager) generate(sessionID string, dur time.Duration) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(dur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	// 使用 HS256 签名方法创建新的 token 对象
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken 验证给定的 token 字符串。
// 如果 token 有效，它会返回 SessionClaims 对象。
// 如果 token 无效（例如，签名不匹配或已过期），则返回错误。
func (m *SessionManager) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 检查签名方法是否为 HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GenerateRandomString generates a random hex string of a given length.
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a less random string on error
		return fmt.Sprintf("fallback%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
