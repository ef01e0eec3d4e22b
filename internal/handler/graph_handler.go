package handler

import (
	"errors"
	"net/http"

	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
	"drug-repurpose-go/internal/service"
	"drug-repurpose-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// GraphHandler 结构体定义了知识图谱文档相关的处理器。
type GraphHandler struct {
	graphService service.GraphService
}

// NewGraphHandler 创建一个新的 GraphHandler 实例。
func NewGraphHandler(graphService service.GraphService) *GraphHandler {
	return &GraphHandler{
		graphService: graphService,
	}
}

// parseDisease 解析并校验路径中的疾病参数。
func parseDisease(c *gin.Context) (model.Disease, bool) {
	disease, err := model.ParseDisease(c.Param("disease"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的疾病参数", "data": nil})
		return "", false
	}
	return disease, true
}

// Document 返回图谱 HTML 原文，供页面以 iframe 嵌入。
func (h *GraphHandler) Document(c *gin.Context) {
	disease, ok := parseDisease(c)
	if !ok {
		return
	}

	data, err := h.graphService.Document(c.Request.Context(), disease)
	if err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			log.Warnf("[GraphHandler] 图谱文档不存在: %s", disease)
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "该疾病暂无知识图谱", "data": nil})
			return
		}
		log.Errorf("[GraphHandler] 加载图谱文档失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "加载知识图谱失败", "data": nil})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// Download 以 HTML 附件形式返回图谱文档原始字节。
func (h *GraphHandler) Download(c *gin.Context) {
	disease, ok := parseDisease(c)
	if !ok {
		return
	}

	filename, data, err := h.graphService.Download(c.Request.Context(), disease)
	if err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "该疾病暂无知识图谱", "data": nil})
			return
		}
		log.Errorf("[GraphHandler] 导出图谱文档失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "导出知识图谱失败", "data": nil})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}
