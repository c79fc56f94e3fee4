package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"visit-report-service/internal/chat"
	"visit-report-service/internal/config"
	"visit-report-service/internal/database"
	"visit-report-service/internal/handlers"
	"visit-report-service/internal/mailer"
	"visit-report-service/internal/pipeline"
	"visit-report-service/internal/ratelimit"
	"visit-report-service/internal/report"
	"visit-report-service/internal/scheduler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present, then configuration
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "config/report_config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", configPath, err)
	}
	log.Printf("Loaded configuration from %s", configPath)

	loc := appConfig.Location()

	// Connect to the document store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.NewDB(ctx, appConfig.Database.URI, appConfig.Database.Database, loc)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Printf("Warning: failed to close database: %v", err)
		}
	}()

	// Build the delivery pipeline from its collaborators
	mailSender := mailer.NewMailer(appConfig.Mail)
	chatSender := chat.NewSender(
		appConfig.WhatsApp,
		appConfig.Report.ChatCharBudget,
		appConfig.Report.GetChatDelay(),
	)

	reportPipeline := pipeline.New(
		db,
		mailSender,
		chatSender,
		report.FilterPolicy(appConfig.Report.FilterPolicy),
		appConfig.Report.GetRecencyWindow(),
		loc,
	)

	// Initialize and start scheduler
	appScheduler := scheduler.NewScheduler(reportPipeline, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	// Initialize send limiter
	sendLimiter := ratelimit.NewSendLimiter(
		appConfig.RateLimit.SendsPerMinute,
		appConfig.RateLimit.SendsPerDay,
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Send limiter initialized: %d sends/min, %d sends/day (enabled: %v)",
		appConfig.RateLimit.SendsPerMinute,
		appConfig.RateLimit.SendsPerDay,
		appConfig.RateLimit.Enabled,
	)

	// Routes
	reportHandler := handlers.NewReportHandler(reportPipeline, appScheduler)
	r.GET("/health", healthCheck)
	r.POST("/send-report", rateLimitMiddleware(sendLimiter), reportHandler.SendReport)
	r.POST("/report/run", reportHandler.TriggerReport)
	r.GET("/ratelimit/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, sendLimiter.GetStats())
	})

	port := appConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func rateLimitMiddleware(limiter *ratelimit.SendLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.AllowSend() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"ok":    false,
				"error": "send rate limit exceeded, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
