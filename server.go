package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the JSON API the dashboard consumes. The report artifact is
// re-read per request so a freshly written report shows up without a restart.
func NewRouter(settings *Settings) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestMetrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/report", func(c *gin.Context) {
		report, ok := loadReportOr404(c, settings.Paths.Report)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, report)
	})
	api.GET("/actionable", func(c *gin.Context) {
		report, ok := loadReportOr404(c, settings.Paths.Report)
		if !ok {
			return
		}
		itemType := c.Query("type")
		if itemType != "" && itemType != string(ItemTypePost) && itemType != string(ItemTypeComment) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be \"post\" or \"comment\""})
			return
		}
		items := FilterActionableItems(report.ActionableItems, itemType, c.Query("author"))
		c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
	})

	return router
}

func loadReportOr404(c *gin.Context, path string) (*AnalysisReport, bool) {
	report, err := LoadReport(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis report not found; run the analyze stage first"})
			return nil, false
		}
		log.Printf("✗ Error loading report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return report, true
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// RunServer serves the report API until the process is stopped.
func RunServer(settings *Settings, listenAddr string) error {
	router := NewRouter(settings)
	log.Printf("Serving report API on %s", listenAddr)
	return router.Run(listenAddr)
}
