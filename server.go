package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/aims_backend/config"
	"bitbucket.org/mmdatafocus/aims_backend/fund"
	"bitbucket.org/mmdatafocus/aims_backend/middlewares"
	"bitbucket.org/mmdatafocus/aims_backend/models"
	"bitbucket.org/mmdatafocus/aims_backend/models/reports"
	"bitbucket.org/mmdatafocus/aims_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("aims-backend")

type fundUri struct {
	Id int `uri:"id" binding:"required,min=1"`
}

func bindFundId(c *gin.Context) (int, bool) {
	var uri fundUri
	if err := c.ShouldBindUri(&uri); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fund id"})
		}
		return 0, false
	}
	return uri.Id, true
}

func respondFundError(c *gin.Context, err error) {
	logger := config.GetLogger()
	switch {
	case errors.Is(err, fund.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, fund.ErrNotPooledFund):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case utils.IsConnectionError(err):
		config.LogError(logger, "server.go", "respondFundError", "fund operation", c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream read failed"})
	default:
		config.LogError(logger, "server.go", "respondFundError", "fund operation", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func fundReconciliationHandler(service *fund.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		fundId, ok := bindFundId(c)
		if !ok {
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "GetFundReconciliation")
		defer span.End()

		report, err := service.GetFundReconciliation(ctx, fundId)
		if err != nil {
			respondFundError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func fundSuggestionsHandler(service *fund.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		fundId, ok := bindFundId(c)
		if !ok {
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "GetFundLinkSuggestions")
		defer span.End()

		suggestions, err := service.GetFundLinkSuggestions(ctx, fundId)
		if err != nil {
			respondFundError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
	}
}

func fundSummaryHandler(service *fund.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		fundId, ok := bindFundId(c)
		if !ok {
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "GetFundSummary")
		defer span.End()

		summary, err := service.GetFundSummary(ctx, fundId)
		if err != nil {
			respondFundError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func fundReconciliationExportHandler(service *fund.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		fundId, ok := bindFundId(c)
		if !ok {
			return
		}
		report, err := service.GetFundReconciliation(c.Request.Context(), fundId)
		if err != nil {
			respondFundError(c, err)
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=fund-%d-reconciliation.xlsx", fundId))
		if err := reports.ExportFundReconciliation(c.Writer, report); err != nil {
			config.LogError(config.GetLogger(), "server.go", "fundReconciliationExportHandler", "excel write", fundId, err)
		}
	}
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	service := fund.NewGormService(config.GetLogger())

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Correlation-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(middlewares.LoaderMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/funds/:id/reconciliation", fundReconciliationHandler(service))
		api.GET("/funds/:id/reconciliation/export", fundReconciliationExportHandler(service))
		api.GET("/funds/:id/suggestions", fundSuggestionsHandler(service))
		api.GET("/funds/:id/summary", fundSummaryHandler(service))
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	// Connect to backing services AFTER the listener is up (Cloud Run wants the
	// port open quickly; requests during the window fail fast and are retried).
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
