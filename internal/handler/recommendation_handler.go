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

// RecommendationHandler 结构体定义了药物推荐相关的处理器。
type RecommendationHandler struct {
	recommendationService service.RecommendationService
}

// NewRecommendationHandler 创建一个新的 RecommendationHandler 实例。
func NewRecommendationHandler(recommendationService service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// parseSelection 解析并校验 disease/model 查询参数。
func parseSelection(c *gin.Context) (model.Disease, model.EmbeddingModel, bool) {
	disease, err := model.ParseDisease(c.Query("disease"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的疾病参数", "data": nil})
		return "", "", false
	}
	embModel, err := model.ParseEmbeddingModel(c.Query("model"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的嵌入模型参数", "data": nil})
		return "", "", false
	}
	return disease, embModel, true
}

// Get 是处理推荐查询请求的 Gin 处理函数。
func (h *RecommendationHandler) Get(c *gin.Context) {
	disease, embModel, ok := parseSelection(c)
	if !ok {
		return
	}
	log.Infof("[RecommendationHandler] 收到推荐查询, disease: %s, model: %s", disease, embModel)

	result, err := h.recommendationService.Get(c.Request.Context(), disease, embModel)
	if err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			log.Warnf("[RecommendationHandler] 排名工件不存在: %s%s", disease, embModel)
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "该疾病与模型组合暂无排名数据", "data": nil})
			return
		}
		log.Errorf("[RecommendationHandler] 加载排名工件失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "加载推荐数据失败", "data": nil})
		return
	}

	log.Infof("[RecommendationHandler] 推荐查询成功, key: %s, 共 %d 行", result.Key, len(result.Records))
	c.JSON(http.StatusOK, gin.H{"code": 200, "message": "success", "data": result})
}

// Download 以 CSV 附件形式返回推荐结果。
func (h *RecommendationHandler) Download(c *gin.Context) {
	disease, embModel, ok := parseSelection(c)
	if !ok {
		return
	}

	filename, data, err := h.recommendationService.DownloadCSV(c.Request.Context(), disease, embModel)
	if err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "该疾病与模型组合暂无排名数据", "data": nil})
			return
		}
		log.Errorf("[RecommendationHandler] 导出推荐 CSV 失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "导出推荐数据失败", "data": nil})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
