package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"caltrack-baseline/internal/api/handlers"
	"caltrack-baseline/internal/api/middleware"
	"caltrack-baseline/internal/data"
	"caltrack-baseline/internal/metrics"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var origins []string
	if s := os.Getenv("API_CORS_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	collector := metrics.NewCollector("caltrack")
	runs := data.NewRunCache(time.Hour)

	router := gin.New()
	router.Use(middleware.CORS(origins))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recovery())

	baselineHandler := handlers.NewBaselineHandler(runs, collector)
	formsHandler := handlers.NewFormsHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1/baseline")
	{
		v1.POST("/fit", baselineHandler.Fit)
		v1.POST("/sufficiency", baselineHandler.Sufficiency)
		v1.GET("/runs/:id", baselineHandler.GetRun)
		v1.GET("/forms", formsHandler.List)
	}

	logger.Info("starting baseline API", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
