// Package main is the application's entry point.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supportmatch-go/internal/config"
	"supportmatch-go/internal/handler"
	"supportmatch-go/internal/matching"
	"supportmatch-go/internal/middleware"
	"supportmatch-go/internal/pipeline"
	"supportmatch-go/internal/repository"
	"supportmatch-go/internal/service"
	"supportmatch-go/pkg/database"
	"supportmatch-go/pkg/es"
	"supportmatch-go/pkg/helpdesk"
	"supportmatch-go/pkg/kafka"
	"supportmatch-go/pkg/llm"
	"supportmatch-go/pkg/log"
	"supportmatch-go/pkg/storage"
	"supportmatch-go/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Initialize configuration.
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. Initialize the logger.
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("logger initialized successfully")

	// 3. Initialize datastores.
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("elasticsearch initialization failed: %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// 4. Initialize repositories.
	agentRepo := repository.NewAgentRepository(database.DB)
	recordRepo := repository.NewRecordRepository(database.DB)
	poolCacheTTL := time.Duration(cfg.Matching.PoolCacheTTLMinutes) * time.Minute
	poolCache := repository.NewPoolCacheRepository(database.RDB, poolCacheTTL)

	// 5. Initialize services (dependency injection).
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	helpdeskClient := helpdesk.NewClient(cfg.Helpdesk)
	llmClient := llm.NewClient(cfg.LLM)
	engine := matching.NewEngine(matching.Config{
		EnableTFIDFScoring: cfg.Matching.EnableTFIDFScoring,
		SortByConfidence:   cfg.Matching.SortByConfidence,
		CategoryRoot:       cfg.Matching.CategoryRoot,
	})
	agentService := service.NewAgentService(agentRepo, jwtManager)
	matchService := service.NewMatchService(engine, poolCache, recordRepo, cfg.Elasticsearch, cfg.MinIO, cfg.Helpdesk, cfg.Matching.PoolSize)
	recordService := service.NewRecordService(recordRepo)

	// 6. Initialize the record ingest pipeline.
	processor := pipeline.NewProcessor(helpdeskClient, llmClient, cfg.Elasticsearch, cfg.MinIO, recordRepo)

	// 7. Start the background Kafka consumer.
	go kafka.StartConsumer(cfg.Kafka, processor)

	// 8. Set the Gin mode and create the router.
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 9. Register routes.
	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/refreshToken", handler.NewAuthHandler(agentService).RefreshToken)
		}

		agents := apiV1.Group("/agents")
		{
			agents.POST("/register", handler.NewAgentHandler(agentService).Register)
			agents.POST("/login", handler.NewAgentHandler(agentService).Login)

			authed := agents.Group("/")
			authed.Use(middleware.AuthMiddleware(jwtManager, agentService))
			{
				authed.GET("/me", handler.NewAgentHandler(agentService).GetProfile)
				authed.POST("/logout", handler.NewAgentHandler(agentService).Logout)
			}
		}

		match := apiV1.Group("/match")
		match.Use(middleware.AuthMiddleware(jwtManager, agentService))
		{
			match.POST("", handler.NewMatchHandler(matchService).FindMatches)
		}

		records := apiV1.Group("/records")
		records.Use(middleware.AuthMiddleware(jwtManager, agentService))
		{
			records.GET("", handler.NewRecordHandler(recordService).List)
			records.GET("/:conversationId", handler.NewRecordHandler(recordService).Get)
			records.POST("/:conversationId/reingest", handler.NewRecordHandler(recordService).Reingest)
		}

		liveHandler := handler.NewLiveHandler(matchService, agentService, jwtManager)
		live := apiV1.Group("/live")
		{
			tokenRoute := live.Group("/")
			tokenRoute.Use(middleware.AuthMiddleware(jwtManager, agentService))
			{
				tokenRoute.GET("/websocket-token", liveHandler.GetWebsocketToken)
			}
		}
		// The WebSocket upgrade authenticates through the path token because
		// browsers cannot set headers on the upgrade request.
		r.GET("/live/:token", liveHandler.Handle)
	}

	// 10. Start the HTTP server with graceful shutdown.
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Infof("server starting, listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutdown signal received, stopping server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}
