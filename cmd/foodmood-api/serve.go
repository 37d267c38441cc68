package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/foodmood/backend/internal/config"
	"github.com/JonnyWalker81/foodmood/backend/internal/handlers"
	"github.com/JonnyWalker81/foodmood/backend/internal/logger"
	"github.com/JonnyWalker81/foodmood/backend/internal/middleware"
	"github.com/JonnyWalker81/foodmood/backend/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var (
	port string
)

const shutdownTimeout = 10 * time.Second

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	log := newLogger(cfg.Logging, os.Stdout)
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, cfg.Server.Env)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Warn("failed to flush traces", logger.Err(err))
		}
	}()

	log.Info("starting FoodMood API server",
		logger.String("env", cfg.Server.Env),
		logger.String("supabase_url", cfg.Supabase.URL),
		logger.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	generateLimiter := middleware.NewRateLimiter(cfg.RateLimit.GeneratePerMinute, time.Minute, "generate")
	defer generateLimiter.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(a, generateLimiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func newRouter(a *app, generateLimiter *middleware.RateLimiter) *gin.Engine {
	insightsHandler := handlers.NewInsightsHandler(a.insightService)
	foodLogHandler := handlers.NewFoodLogHandler(a.foodLogService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(a.log))
	router.Use(middleware.Tracing())
	router.Use(middleware.CORS(a.cfg.Server.CORSOrigins))
	router.Use(middleware.SecurityHeaders(a.cfg.IsProduction()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    a.cfg.Server.Env,
			"store":  a.cfg.Store.Driver,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(a.supabaseClient))
	{
		insights := v1.Group("/insights")
		{
			insights.GET("", insightsHandler.GetInsights)
			insights.GET("/:id", insightsHandler.GetInsight)
			insights.PUT("/:id/read", insightsHandler.MarkAsRead)
			insights.DELETE("/:id", insightsHandler.DeleteInsight)

			generate := insights.Group("/generate")
			generate.Use(generateLimiter.Middleware())
			{
				generate.POST("/weekly", insightsHandler.GenerateWeekly)
				generate.POST("/monthly", insightsHandler.GenerateMonthly)
				generate.POST("/patterns", insightsHandler.GeneratePatterns)
			}
		}

		foodLogs := v1.Group("/food-logs")
		{
			foodLogs.POST("", foodLogHandler.CreateFoodLog)
			foodLogs.GET("", foodLogHandler.GetFoodLogs)
			foodLogs.GET("/stats", foodLogHandler.GetFoodLogStats)
			foodLogs.GET("/:id", foodLogHandler.GetFoodLog)
			foodLogs.PATCH("/:id", foodLogHandler.UpdateFoodLog)
			foodLogs.DELETE("/:id", foodLogHandler.DeleteFoodLog)
		}
	}

	return router
}
