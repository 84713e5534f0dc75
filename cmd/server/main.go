package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visitsync-service/internal/infrastructure/config"
	"visitsync-service/internal/infrastructure/persistence"
	"visitsync-service/internal/interface/handler"
	"visitsync-service/internal/interface/repository"
	"visitsync-service/internal/usecase"
	"visitsync-service/pkg/logger"
	"visitsync-service/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Visit Sync Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the local reporting database
	localDB, err := persistence.NewLocalConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to local database", "error", err)
	}
	if err := repository.Migrate(localDB); err != nil {
		log.Fatal("Failed to migrate visit_list", "error", err)
	}

	// Connect to the HIS source database
	hisDB, err := persistence.NewHISConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to HIS database", "error", err)
	}

	// Connect to MongoDB for the run log
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	mongoDB := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Set up metrics
	appMetrics := metrics.NewMetrics("visitsync")

	// Set up repositories
	sourceRepo := repository.NewHISVisitRepository(hisDB)
	recordRepo := repository.NewGormVisitRecordRepository(localDB)
	eligibilityRepo := repository.NewNHSORepository(
		cfg.NHSOAPIURL, cfg.NHSOAPIToken, cfg.NHSODelay, cfg.NHSOTimeout, log)
	runRepo := repository.NewMongoSyncRunRepository(mongoDB)

	// Set up usecases
	syncer := usecase.NewVisitSyncer(sourceRepo, recordRepo, appMetrics, log)
	reconciler := usecase.NewEligibilityReconciler(recordRepo, eligibilityRepo, appMetrics, log)

	// Set up HTTP server
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	visitHandler := handler.NewVisitHandler(syncer, reconciler, recordRepo, runRepo, log)
	visitHandler.RegisterRoutes(engine)

	healthHandler := handler.NewHealthHandler(localDB, hisDB, mongoClient)
	engine.GET("/healthz", healthHandler.Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Visit Sync Service stopped")
}
