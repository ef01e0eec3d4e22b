// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drug-repurpose-go/internal/config"
	"drug-repurpose-go/internal/handler"
	"drug-repurpose-go/internal/middleware"
	"drug-repurpose-go/internal/repository"
	"drug-repurpose-go/internal/service"
	"drug-repurpose-go/pkg/database"
	"drug-repurpose-go/pkg/gemini"
	"drug-repurpose-go/pkg/log"
	"drug-repurpose-go/pkg/storage"
	"drug-repurpose-go/pkg/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1. 加载 .env（本地开发存放 GOOGLE_API_KEY 的地方），再初始化配置。
	// GOOGLE_API_KEY 缺失会在 config.Init 中直接 panic：这是致命的启动条件。
	_ = godotenv.Load()
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化工件存储：默认读取本地目录，也可从 MinIO 存储桶读取
	var artifactStore repository.ArtifactStore
	switch cfg.Artifacts.Backend {
	case "minio":
		storage.InitMinIO(cfg.MinIO)
		artifactStore = repository.NewMinioArtifactStore(storage.MinioClient, cfg.MinIO.BucketName)
		log.Infof("工件存储后端: minio, bucket=%s", cfg.MinIO.BucketName)
	default:
		artifactStore = repository.NewFSArtifactStore(cfg.Artifacts.ModelsDir, cfg.Artifacts.GraphsDir)
		log.Infof("工件存储后端: filesystem, models=%s graphs=%s", cfg.Artifacts.ModelsDir, cfg.Artifacts.GraphsDir)
	}

	// 4. 初始化会话存储：默认进程内，多副本部署时切到 Redis
	var sessionRepo repository.SessionRepository
	sessionTTL := time.Duration(cfg.Session.ExpireHours) * time.Hour
	switch cfg.Session.Backend {
	case "redis":
		database.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		sessionRepo = repository.NewRedisSessionRepository(database.RDB, sessionTTL, cfg.Session.MaxChatTurns)
		log.Info("会话存储后端: redis")
	default:
		sessionRepo = repository.NewMemorySessionRepository(cfg.Session.MaxChatTurns)
		log.Info("会话存储后端: memory")
	}

	// 5. 初始化 Service (依赖注入)
	sessionManager := token.NewSessionManager(cfg.Session.Secret, cfg.Session.ExpireHours)
	geminiClient := gemini.NewClient(cfg.Gemini)
	recommendationService := service.NewRecommendationService(artifactStore)
	graphService := service.NewGraphService(artifactStore)
	performanceService := service.NewPerformanceService(artifactStore)
	chatService := service.NewChatService(geminiClient, sessionRepo, time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(cors.Default())
	r.LoadHTMLGlob("web/templates/*.html")

	sessionMW := middleware.Session(sessionManager, cfg.Session.CookieName, cfg.Session.ExpireHours)

	// 7. 注册路由
	pageHandler := handler.NewPageHandler(recommendationService, performanceService, chatService)
	r.GET("/", sessionMW, pageHandler.Index)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	chatHandler := handler.NewChatHandler(chatService, sessionManager)
	apiV1 := r.Group("/api/v1")
	{
		meta := apiV1.Group("/meta")
		{
			meta.GET("/diseases", handler.NewMetaHandler().ListDiseases)
			meta.GET("/models", handler.NewMetaHandler().ListModels)
		}

		recommendations := apiV1.Group("/recommendations")
		{
			recommendations.GET("", handler.NewRecommendationHandler(recommendationService).Get)
			recommendations.GET("/download", handler.NewRecommendationHandler(recommendationService).Download)
		}

		graphs := apiV1.Group("/graphs")
		{
			graphs.GET("/:disease", handler.NewGraphHandler(graphService).Document)
			graphs.GET("/:disease/download", handler.NewGraphHandler(graphService).Download)
		}

		performance := apiV1.Group("/performance")
		{
			performance.GET("", handler.NewPerformanceHandler(performanceService).List)
			performance.GET("/chart", handler.NewPerformanceHandler(performanceService).Chart)
		}

		chat := apiV1.Group("/chat")
		chat.Use(sessionMW)
		{
			chat.POST("", chatHandler.Ask)
			chat.GET("/history", chatHandler.History)
			chat.GET("/websocket-token", chatHandler.GetWebsocketToken)
		}
	}
	// WebSocket 流式聊天（令牌在 /api/v1/chat/websocket-token 领取）
	r.GET("/chat/:token", chatHandler.Stream)

	// 8. 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
