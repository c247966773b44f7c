package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"lyricverse/internal/cache"
	"lyricverse/internal/config"
	"lyricverse/internal/database"
	"lyricverse/internal/discovery"
	"lyricverse/internal/experiments"
	"lyricverse/internal/handlers"
	"lyricverse/internal/jobs"
	"lyricverse/internal/logging"
	"lyricverse/internal/middleware"
	"lyricverse/internal/scoring"
	"lyricverse/internal/store"
	"lyricverse/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting LyricVerse Discovery Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	// Initialize MongoDB
	log.Println("🔗 Connecting to MongoDB...")
	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoDB.Close(ctx)
	}()

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoDB.Initialize(initCtx); err != nil {
		initCancel()
		log.Fatalf("❌ Failed to initialize MongoDB: %v", err)
	}
	initCancel()
	log.Println("✅ MongoDB connected successfully")

	// Initialize Redis (optional - discovery degrades to an in-process
	// cache when it is unavailable)
	var cacheStore cache.CounterStore
	var redisClient *cache.RedisClient
	redisClient, err = cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, falling back to in-memory cache: %v", err)
		cacheStore = cache.NewMemory()
		redisClient = nil
	} else {
		log.Println("✅ Redis connected successfully")
		cacheStore = redisClient
		defer redisClient.Close()
	}

	recCache := cache.NewRecommendationCache(cacheStore)

	// Repositories
	contentStore := store.NewMongoContentStore(mongoDB)
	interactionStore := store.NewMongoInteractionStore(mongoDB)
	connectionStore := store.NewMongoConnectionStore(mongoDB)
	userStore := store.NewMongoUserStore(mongoDB)

	// Experiments
	registry := experiments.NewRegistry(experiments.DefaultDefinitions())
	assigner := experiments.NewAssigner(registry, cacheStore)
	log.Printf("✅ Experiment registry loaded (%d experiments)", len(registry.Names()))

	// Scoring weights, overridable per deployment later if needed
	weights := scoring.DefaultWeights()

	// Discovery service
	discoveryService := discovery.NewService(discovery.Config{
		Content:      contentStore,
		Interactions: interactionStore,
		Connections:  connectionStore,
		Users:        userStore,
		Cache:        recCache,
		Experiments:  assigner,
		Weights:      weights,
	})
	log.Println("✅ Discovery service initialized")

	// Scheduled jobs
	scheduler := jobs.NewScheduler()
	scheduler.Register(jobs.JobTrendingUpdate,
		jobs.NewTrendingUpdateJob(contentStore, interactionStore, recCache, weights, cfg.TrendingUpdateInterval))
	scheduler.Register(jobs.JobPopularityUpdate,
		jobs.NewPopularityUpdateJob(contentStore, interactionStore, weights, cfg.PopularityUpdateInterval))
	scheduler.Start()

	// JWT auth
	var jwtAuth *auth.LocalJWTAuth
	if cfg.JWTSecret != "" {
		jwtAuth, err = auth.NewLocalJWTAuth(cfg.JWTSecret, 0, 0)
		if err != nil {
			log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
		}
		log.Println("✅ JWT authentication enabled")
	} else {
		log.Println("⚠️ JWT_SECRET not set, authentication disabled (development only)")
	}

	// Handlers
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService)
	experimentHandler := handlers.NewExperimentHandler(assigner)
	var redisPinger handlers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	healthHandler := handlers.NewHealthHandler(mongoDB, redisPinger)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LyricVerse Discovery v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // Discovery requests are small
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("lyricverse")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Rate limiting
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Public=%d/min, Auth=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.PublicReadMax,
		rateLimitConfig.AuthenticatedMax,
	)
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")

	optionalAuth := middleware.OptionalLocalAuthMiddleware(jwtAuth)
	requireAuth := middleware.LocalAuthMiddleware(jwtAuth)
	publicLimiter := middleware.PublicReadRateLimiter(rateLimitConfig)
	authLimiter := middleware.AuthenticatedRateLimiter(rateLimitConfig)

	disc := api.Group("/discovery")

	// Public feeds: cached, rate limited per IP; auth optional so
	// logged-in callers are still identified in request logs
	disc.Get("/trending", optionalAuth, publicLimiter, discoveryHandler.Trending)
	disc.Get("/popular", optionalAuth, publicLimiter, discoveryHandler.Popular)

	// Personalized surfaces require authentication
	disc.Get("/recommendations", requireAuth, authLimiter, discoveryHandler.Recommendations)
	disc.Get("/network/trending", requireAuth, authLimiter, discoveryHandler.NetworkTrending)
	disc.Get("/people-suggestions", requireAuth, authLimiter, discoveryHandler.PeopleSuggestions)
	disc.Get("/enhance-search", requireAuth, authLimiter, discoveryHandler.EnhanceSearch)

	exp := api.Group("/experiments", requireAuth)
	exp.Get("/:name/variant", experimentHandler.Variant)
	exp.Get("/:name/metrics", experimentHandler.Metrics)
	exp.Post("/:name/conversions", experimentHandler.RecordConversion)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		// Stop background jobs
		scheduler.Stop()

		// Shutdown Fiber
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	log.Printf("🌐 Server listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	log.Println("✅ Server stopped")
}
