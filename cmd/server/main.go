package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pulsecrm/reporting/internal/application/services"
	"github.com/pulsecrm/reporting/internal/infrastructure/database"
	"github.com/pulsecrm/reporting/internal/interfaces/middleware"
	"github.com/pulsecrm/reporting/internal/interfaces/rest"
)

func main() {
	// Best effort: local development keeps settings in .env
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3002"
	}

	db, err := database.GetInstance()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connection established")

	svcMgr := services.NewServiceManager(db.DB())
	log.Println("🔧 Service manager initialized")

	router := gin.Default()
	router.Use(middleware.Cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"server": "reporting",
		})
	})

	// Debug/pprof endpoints
	debug := router.Group("/debug/pprof")
	{
		debug.GET("/goroutine", gin.WrapH(http.DefaultServeMux))
		debug.GET("/heap", gin.WrapH(http.DefaultServeMux))
		debug.GET("/profile", gin.WrapH(http.DefaultServeMux))
		debug.GET("/trace", gin.WrapH(http.DefaultServeMux))
	}

	reportHandler := rest.NewReportHandler(svcMgr)
	analyticsHandler := rest.NewAnalyticsHandler(svcMgr)
	notificationHandler := rest.NewNotificationHandler(svcMgr)

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireAdmin()

	api := router.Group("/api")
	{
		reports := api.Group("/report")
		reports.Use(requireAuth)
		{
			reports.GET("/status", reportHandler.Status)
			reports.GET("/sources", reportHandler.ListSources)
			reports.GET("/sources/:source/fields", reportHandler.ListFields)
			reports.POST("/preview", reportHandler.Preview)
			reports.POST("/kpis", reportHandler.KPIs)
		}

		analytics := api.Group("/analytics")
		analytics.Use(requireAuth, requireAdmin)
		{
			analytics.POST("/query", analyticsHandler.ExecuteAdminQuery)
		}

		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListUnread)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Reporting service listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⏳ Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Forced shutdown: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("⚠️ Failed to close database: %v", err)
	}
	log.Println("👋 Server stopped")
}
