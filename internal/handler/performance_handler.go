package handler

import (
	"bytes"
	"errors"
	"net/http"

	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
	"drug-repurpose-go/internal/service"
	"drug-repurpose-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// PerformanceHandler 结构体定义了模型性能指标相关的处理器。
type PerformanceHandler struct {
	performanceService service.PerformanceService
}

// NewPerformanceHandler 创建一个新的 PerformanceHandler 实例。
func NewPerformanceHandler(performanceService service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{
		performanceService: performanceService,
	}
}

// selectionKey 从可选的 disease/model 查询参数解析复合键。
// 两个参数都缺省时返回空键（表示全量视图）；只给一个或给了非法值则报错。
func selectionKey(c *gin.Context) (string, bool, error) {
	diseaseParam := c.Query("disease")
	modelParam := c.Query("model")
	if diseaseParam == "" && modelParam == "" {
		return "", false, nil
	}
	disease, err := model.ParseDisease(diseaseParam)
	if err != nil {
		return "", false, err
	}
	embModel, err := model.ParseEmbeddingModel(modelParam)
	if err != nil {
		return "", false, err
	}
	return model.CompositeKey(disease, embModel), true, nil
}

// List 返回性能指标记录：给定选择时返回过滤子集，否则返回全量。
func (h *PerformanceHandler) List(c *gin.Context) {
	key, filtered, err := selectionKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的选择参数", "data": nil})
		return
	}

	var records []model.PerformanceRecord
	if filtered {
		records, err = h.performanceService.ForSelection(c.Request.Context(), key)
	} else {
		records, err = h.performanceService.All(c.Request.Context())
	}
	if err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "性能指标文件不存在", "data": nil})
			return
		}
		log.Errorf("[PerformanceHandler] 加载性能指标失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "加载性能指标失败", "data": nil})
		return
	}

	// 无匹配行返回空列表，调用方渲染空表即可，不算错误
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": records})
}

// Chart 渲染性能指标条形图 PNG。
func (h *PerformanceHandler) Chart(c *gin.Context) {
	key, _, err := selectionKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的选择参数", "data": nil})
		return
	}

	var buf bytes.Buffer
	if err := h.performanceService.ChartPNG(c.Request.Context(), key, &buf); err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "性能指标文件不存在", "data": nil})
			return
		}
		log.Errorf("[PerformanceHandler] 渲染性能图表失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "渲染性能图表失败", "data": nil})
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
