package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"drug-repurpose-go/internal/middleware"
	"drug-repurpose-go/internal/service"
	"drug-repurpose-go/pkg/log"
	"drug-repurpose-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ChatHandler 负责处理聊天请求（单轮 HTTP 与 WebSocket 流式两种形态）。
type ChatHandler struct {
	chatService    service.ChatService
	sessionManager *token.SessionManager
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService, sessionManager *token.SessionManager) *ChatHandler {
	return &ChatHandler{
		chatService:    chatService,
		sessionManager: sessionManager,
	}
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask 处理单轮聊天：问题直达网关，回答原样返回。
func (h *ChatHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的请求体", "data": nil})
		return
	}

	sessionID := middleware.SessionID(c)
	answer, err := h.chatService.Ask(c.Request.Context(), sessionID, req.Question)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "请先输入问题", "data": nil})
			return
		}
		// 网关的所有失败模式都折叠成一条通用提示
		log.Errorf("[ChatHandler] 聊天网关调用失败: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": http.StatusServiceUnavailable, "message": "聊天服务暂时不可用，请稍后重试", "data": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": gin.H{"answer": answer}})
}

// History 返回当前会话的聊天记录。
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	history, err := h.chatService.History(c.Request.Context(), sessionID)
	if err != nil {
		log.Errorf("[ChatHandler] 读取聊天记录失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "读取聊天记录失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": history})
}

// GetWebsocketToken 为当前会话返回一个短时效的流式聊天握手令牌。
func (h *ChatHandler) GetWebsocketToken(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	wsToken, err := h.sessionManager.GenerateWebsocketToken(sessionID)
	if err != nil {
		log.Error("生成 websocket 令牌失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "生成令牌失败", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": gin.H{"token": wsToken}})
}

// Stream 处理一个传入的 WebSocket 连接：每条文本消息是一个独立的问题，
// 回答以 {"chunk":"..."} 分块下发，结束后发送 completion 通知。
func (h *ChatHandler) Stream(c *gin.Context) {
	claims, err := h.sessionManager.VerifyToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "无效的 token", "data": nil})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，会话: %s", claims.SessionID)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}

		writer := &chunkWriter{conn: conn}
		err = h.chatService.StreamAsk(c.Request.Context(), claims.SessionID, string(message), writer)
		if err != nil {
			if errors.Is(err, service.ErrEmptyQuestion) {
				sendWSError(conn, "请先输入问题")
				continue
			}
			log.Errorf("处理流式响应失败: %v", err)
			sendWSError(conn, "聊天服务暂时不可用，请稍后重试")
			continue
		}
		sendCompletion(conn)
	}
}

// chunkWriter 把原始分块包装成 {"chunk":"..."} 再写入 websocket。
type chunkWriter struct {
	conn *websocket.Conn
}

// WriteMessage 满足 gemini.MessageWriter 接口。
func (w *chunkWriter) WriteMessage(messageType int, data []byte) error {
	payload := map[string]string{"chunk": string(data)}
	b, _ := json.Marshal(payload)
	return w.conn.WriteMessage(messageType, b)
}

// sendCompletion 发送完成通知 JSON
func sendCompletion(conn *websocket.Conn) {
	notif := map[string]interface{}{
		"type":      "completion",
		"status":    "finished",
		"message":   "响应已完成",
		"timestamp": time.Now().UnixMilli(),
	}
	b, _ := json.Marshal(notif)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

func sendWSError(conn *websocket.Conn, msg string) {
	errResp := map[string]string{"error": msg}
	b, _ := json.Marshal(errResp)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}
