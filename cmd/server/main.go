// @title           ANGELLA Style Report API
// @version         1.0.0
// @description     Backend API for the ANGELLA style service. Creates Polar checkout sessions and runs the two-stage AI analysis that turns a user photo plus style preferences into a personalized report with optional hairstyle suggestions.

// @host      localhost:8080
// @BasePath  /api

package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"angella-backend/internal/config"
	"angella-backend/internal/handlers"
	"angella-backend/internal/middleware"
	"angella-backend/internal/openai"
	"angella-backend/internal/polar"
	"angella-backend/internal/stylist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Provider clients
	openaiClient := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIImageModel)
	polarClient := polar.NewClient(cfg.PolarBaseURL, cfg.PolarAccessToken)

	orchestrator := stylist.NewOrchestrator(openaiClient)

	analyzeHandler := handlers.NewAnalyzeHandler(orchestrator)
	checkoutHandler := handlers.NewCheckoutHandler(polarClient)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	// Health check
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api")

	// The analysis endpoint is expensive upstream, so it carries a tight
	// per-client rate limit; checkout stays unthrottled.
	limiter := middleware.NewRateLimiter(nil)
	api.POST("/analyze", middleware.RateLimit(limiter, middleware.RateLimitRule{Rate: 0.5, Burst: 3}), analyzeHandler.Analyze)
	api.POST("/checkout", checkoutHandler.CreateCheckout)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
