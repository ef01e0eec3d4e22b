package handler

import (
	"errors"
	"net/http"

	"drug-repurpose-go/internal/middleware"
	"drug-repurpose-go/internal/model"
	"drug-repurpose-go/internal/repository"
	"drug-repurpose-go/internal/service"
	"drug-repurpose-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// 页面的四种导航模式。
const (
	NavRecommendations = "recommendations"
	NavGraph           = "graph"
	NavPerformance     = "performance"
	NavHelp            = "help"
)

// PageHandler 负责渲染服务端模板页面（仪表盘本体）。
type PageHandler struct {
	recommendationService service.RecommendationService
	performanceService    service.PerformanceService
	chatService           service.ChatService
}

// NewPageHandler 创建一个新的 PageHandler 实例。
func NewPageHandler(recommendationService service.RecommendationService, performanceService service.PerformanceService, chatService service.ChatService) *PageHandler {
	return &PageHandler{
		recommendationService: recommendationService,
		performanceService:    performanceService,
		chatService:           chatService,
	}
}

// pageData 是模板渲染所需的全部数据。
type pageData struct {
	Nav             string
	Diseases        []model.Disease
	Models          []model.EmbeddingModel
	SelectedDisease string
	SelectedModel   string
	Key             string
	Error           string
	Recommendation  *service.RecommendationResult
	Performance     []model.PerformanceRecord
	ChatHistory     []model.ChatTurn
}

// Index 渲染仪表盘页面。每次交互都对当前面板做一次完整的同步求值。
func (h *PageHandler) Index(c *gin.Context) {
	nav := c.DefaultQuery("nav", NavRecommendations)
	switch nav {
	case NavRecommendations, NavGraph, NavPerformance, NavHelp:
	default:
		nav = NavRecommendations
	}

	data := pageData{
		Nav:      nav,
		Diseases: model.Diseases(),
		Models:   model.EmbeddingModels(),
	}

	// 侧栏始终展示当前会话的聊天记录
	sessionID := middleware.SessionID(c)
	if history, err := h.chatService.History(c.Request.Context(), sessionID); err == nil {
		data.ChatHistory = history
	} else {
		log.Errorf("[PageHandler] 读取聊天记录失败: %v", err)
	}

	switch nav {
	case NavRecommendations:
		h.fillRecommendations(c, &data)
	case NavGraph:
		data.SelectedDisease = c.DefaultQuery("disease", string(model.DiseaseDengue))
		if _, err := model.ParseDisease(data.SelectedDisease); err != nil {
			data.SelectedDisease = string(model.DiseaseDengue)
		}
	case NavPerformance:
		records, err := h.performanceService.All(c.Request.Context())
		if err != nil {
			log.Errorf("[PageHandler] 加载性能指标失败: %v", err)
			data.Error = "Performance metrics are currently unavailable."
		} else {
			data.Performance = records
		}
	}

	c.HTML(http.StatusOK, "index.html", data)
}

// fillRecommendations 在推荐模式下按选择加载排名、过滤后的性能指标。
// 未提交选择时只渲染表单。
func (h *PageHandler) fillRecommendations(c *gin.Context, data *pageData) {
	diseaseParam := c.Query("disease")
	modelParam := c.Query("model")
	data.SelectedDisease = diseaseParam
	data.SelectedModel = modelParam
	if diseaseParam == "" || modelParam == "" {
		return
	}

	disease, err := model.ParseDisease(diseaseParam)
	if err != nil {
		data.Error = "Unknown disease selection."
		return
	}
	embModel, err := model.ParseEmbeddingModel(modelParam)
	if err != nil {
		data.Error = "Unknown embedding model selection."
		return
	}
	data.Key = model.CompositeKey(disease, embModel)

	result, err := h.recommendationService.Get(c.Request.Context(), disease, embModel)
	if err != nil {
		if errors.Is(err, repository.ErrArtifactNotFound) {
			data.Error = "No ranking data is available for this disease and model combination."
			return
		}
		log.Errorf("[PageHandler] 加载排名工件失败: %v", err)
		data.Error = "Failed to load the recommendations for this selection."
		return
	}
	data.Recommendation = result

	records, err := h.performanceService.ForSelection(c.Request.Context(), data.Key)
	if err != nil {
		log.Errorf("[PageHandler] 加载过滤后的性能指标失败: %v", err)
		return
	}
	data.Performance = records
}
