// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"drug-repurpose-go/internal/model"

	"github.com/gin-gonic/gin"
)

// MetaHandler 提供前端下拉框所需的枚举数据。
type MetaHandler struct{}

// NewMetaHandler 创建一个新的 MetaHandler 实例。
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// ListDiseases 返回受支持疾病的有序列表。
func (h *MetaHandler) ListDiseases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": model.Diseases()})
}

// ListModels 返回受支持嵌入模型的有序列表。
func (h *MetaHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": model.EmbeddingModels()})
}
