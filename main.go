package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MZain-ul-Abideen/MAS-Explainability/artifact"
	"github.com/MZain-ul-Abideen/MAS-Explainability/audit"
	"github.com/MZain-ul-Abideen/MAS-Explainability/config"
	"github.com/MZain-ul-Abideen/MAS-Explainability/controller"
	"github.com/MZain-ul-Abideen/MAS-Explainability/dao"
	"github.com/MZain-ul-Abideen/MAS-Explainability/db"
	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/router"
	"github.com/MZain-ul-Abideen/MAS-Explainability/service"
	"github.com/MZain-ul-Abideen/MAS-Explainability/util"
)

func main() {
	normsPath := flag.String("norms", "", "path to the norm specification file")
	logsPath := flag.String("logs", "", "path to the action log file")
	query := flag.String("query", "", "question to answer against the persisted artifacts")
	serve := flag.Bool("serve", false, "start the HTTP API server")
	flag.Parse()

	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GetConfig()

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Redis
	if cfg.Redis.Enabled {
		if err := db.InitRedis(); err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer db.CloseRedis()
	}

	// Initialize Neo4j
	var interactionDAO *dao.InteractionDAO
	if cfg.Neo4j.Enabled {
		if err := db.InitNeo4j(); err != nil {
			logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
		}
		defer db.CloseNeo4j()
		interactionDAO = dao.NewInteractionDAO(db.Neo4jDriver)
	}

	// Initialize Elasticsearch audit trail
	var auditService audit.Service
	if cfg.Elasticsearch.Enabled {
		auditRepository, err := audit.NewElasticsearchRepository(cfg.Elasticsearch.URL)
		if err != nil {
			logger.Fatal("Failed to initialize Elasticsearch", zap.Error(err))
		}
		auditService = audit.NewService(auditRepository)
	}

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize utilities and artifact storage
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()
	store, err := artifact.NewStore(cfg.Pipeline.ArtifactsDir)
	if err != nil {
		logger.Fatal("Failed to initialize artifact store", zap.Error(err))
	}

	// Initialize services
	services, err := service.InitializeServices(store, auditService, interactionDAO, cacheService, notificationService, eventBus)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	ranSomething := false

	if *normsPath != "" || *logsPath != "" {
		norms := *normsPath
		logs := *logsPath
		if norms == "" {
			norms = cfg.Pipeline.NormsFile
		}
		if logs == "" {
			logs = cfg.Pipeline.LogsFile
		}
		summary, err := services.Pipeline.Run(ctx, norms, logs)
		if err != nil {
			logger.Fatal("Pipeline run failed", zap.Error(err))
		}
		logger.Info("Pipeline run finished",
			zap.String("runID", summary.RunID),
			zap.Int("norms", summary.NormCount),
			zap.Int("logEntries", summary.LogEntryCount),
			zap.Int("agents", summary.AgentCount),
			zap.Any("statusCounts", summary.StatusCounts),
			zap.String("artifactsDir", summary.ArtifactsDir))
		ranSomething = true
	}

	if *query != "" {
		explanation, err := services.Query.Answer(ctx, *query)
		if err != nil {
			logger.Fatal("Query failed", zap.Error(err))
		}
		fmt.Println(explanation.Answer)
		ranSomething = true
	}

	if !*serve && !cfg.Server.Enabled {
		if !ranSomething {
			flag.Usage()
			os.Exit(2)
		}
		return
	}

	// Initialize controllers
	controllers := controller.InitializeControllers(services, store, interactionDAO)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(controllers, cfg.Server.APIKey, 100, time.Minute)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
