package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitcoach/assistant-app/internal/api"
	"fitcoach/assistant-app/internal/cache"
	"fitcoach/assistant-app/internal/config"
	"fitcoach/assistant-app/internal/corpus"
	"fitcoach/assistant-app/internal/embedding"
	"fitcoach/assistant-app/internal/ingest"
	"fitcoach/assistant-app/internal/repository/mongo"
	"fitcoach/assistant-app/internal/service"
	"fitcoach/assistant-app/internal/storage"
	mongostore "fitcoach/assistant-app/internal/store/mongo"
	"fitcoach/assistant-app/internal/tempfiles"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron"
)

func main() {
	log.Println("Starting Fitness Assistant Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute) // Timeout for index creation
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureUploadIndexes(ctx, appDB.Collection("uploads"))
		mongostore.EnsureVectorIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Embedding Encoder ---
	encoder, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKeyEnv: cfg.Embedding.APIKeyEnv,
		Model:     cfg.Embedding.Model,
		Timeout:   cfg.Embedding.Timeout,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize embedding encoder: %v", err)
	}

	// --- Initialize Document Store and Plan Cache ---
	docStore := mongostore.NewMongoDocumentStore(appDB)
	planCache := cache.New()

	// --- Load Corpus ---
	loader := corpus.NewLoader(docStore, encoder, planCache)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Minute)
	summary, err := loader.Load(loadCtx, cfg.Corpus.DataDir)
	cancelLoad()
	if err != nil {
		log.Fatalf("FATAL: Corpus load failed: %v", err)
	}
	log.Printf("Corpus loaded: warmup=%t exercises=%d plans=%d",
		summary.WarmupLoaded, summary.ExercisesLoaded, summary.PlansLoaded)

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	uploadRepo := mongo.NewMongoUploadRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	retrievalService := service.NewRetrievalService(docStore, encoder, planCache)
	programService := service.NewProgramService(programRepo, retrievalService, service.NewTemplateRenderer())
	ingestService := ingest.NewService(docStore, encoder, cfg.Ingest.ChunkSize, cfg.Ingest.Overlap)

	tempDir, err := tempfiles.New(cfg.Ingest.TempDir, cfg.Ingest.MaxFileAge)
	if err != nil {
		log.Fatalf("FATAL: Failed to prepare temp directory: %v", err)
	}

	// --- Temp File Sweep ---
	sweeper := cron.New()
	if err := sweeper.AddFunc("@every "+cfg.Ingest.SweepInterval.String(), func() {
		tempDir.Sweep()
	}); err != nil {
		log.Fatalf("FATAL: Failed to schedule temp sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, api.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Retrieval: api.NewRetrievalHandler(retrievalService),
		Program:   api.NewProgramHandler(programService),
		Ingest:    api.NewIngestHandler(ingestService, tempDir, fileStorage, uploadRepo),
		System:    api.NewSystemHandler(retrievalService, loader, cfg.Corpus.DataDir),
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
