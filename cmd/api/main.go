package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"speaksure/internal/config"
	"speaksure/internal/handlers"
	"speaksure/internal/metrics"
	"speaksure/internal/repositories"
	"speaksure/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	audioRepo, err := repositories.NewAudioRepository(db, cfg.Mongo.Bucket)
	if err != nil {
		log.Fatalf("❌ Failed to initialize audio repository: %v", err)
	}
	resultRepo := repositories.NewResultRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.TempDir, cfg.ModelServer.SampleRate)
	if err := storageService.EnsureTempDir(); err != nil {
		log.Fatalf("❌ Failed to create temp directory: %v", err)
	}

	decoder := services.NewWavDecoder()
	predictorService := services.NewPredictorService(cfg.ModelServer.URL, cfg.ModelServer.ChunkSeconds)
	transcriberService := services.NewTranscriberService(
		cfg.AssemblyAI.APIKey,
		cfg.AssemblyAI.BaseURL,
		cfg.AssemblyAI.PollInterval,
	)
	grammarService := services.NewGrammarService(cfg.Grammar.URL, cfg.Grammar.Language)
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	feedbackService := services.NewFeedbackService(geminiService, cfg.Gemini.RetryMaxAttempts)
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant transcript index
	transcriptIndex, err := services.NewTranscriptIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := transcriptIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	searchService := services.NewAnswerSearchService(geminiService, transcriptIndex)
	log.Println("✅ Qdrant initialized successfully")

	// Metrics
	m := metrics.NewMetrics()

	// Initialize handlers
	predictHandler := handlers.NewPredictHandler(
		storageService,
		decoder,
		predictorService,
		transcriberService,
		grammarService,
		feedbackService,
		searchService,
		resultRepo,
		m,
	)
	uploadHandler := handlers.NewUploadHandler(audioRepo, m)
	libraryHandler := handlers.NewLibraryHandler(audioRepo)
	resultHandler := handlers.NewResultHandler(resultRepo)
	searchHandler := handlers.NewSearchHandler(searchService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Speaksure Interview Analysis API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api")

	api.Post("/predict", predictHandler.HandlePredict)
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Get("/get_filenames", libraryHandler.HandleGetFilenames)
	api.Get("/get_audio", libraryHandler.HandleGetAudio)
	api.Get("/get_metadata", libraryHandler.HandleGetMetadata)
	api.Delete("/delete_audio", libraryHandler.HandleDeleteAudio)
	api.Get("/get_results", resultHandler.HandleGetResults)
	api.Get("/search_transcripts", searchHandler.HandleSearchTranscripts)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Speaksure Interview Analysis API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/predict",
				"POST /api/upload",
				"GET /api/get_filenames",
				"GET /api/get_audio",
				"GET /api/get_metadata",
				"DELETE /api/delete_audio",
				"GET /api/get_results",
				"GET /api/search_transcripts",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
