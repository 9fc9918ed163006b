package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"civicreporter-be/config"
	"civicreporter-be/controllers"
	"civicreporter-be/mailer"
	"civicreporter-be/metrics"
	"civicreporter-be/middlewares"
	"civicreporter-be/notifications"
	"civicreporter-be/reports"
	"civicreporter-be/routes"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	redisClient, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info("report rate limiting enabled", "limit", cfg.ReportRateLimit)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	var sender mailer.Sender
	if cfg.ResendAPIKey != "" {
		sender = mailer.NewResendClient(cfg.ResendAPIKey)
	}
	dispatcher := notifications.NewDispatcher(sender, cfg.MailFrom, logger, m)
	if !dispatcher.Enabled() {
		logger.Warn("RESEND_API_KEY not set, reporter emails are disabled")
	}
	repo := reports.NewRepository(be.store, be.uploader, dispatcher, logger, m)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middlewares.RequestMetrics(m), cors.New(corsConfig(cfg)))

	routes.ReportRoutes(r, controllers.NewReportController(repo),
		middlewares.ReportRateLimiter(redisClient, cfg.RedisQueueForIssueLimit, cfg.ReportRateLimit))
	routes.ReferenceRoutes(r, controllers.NewReferenceController(repo), controllers.NewAnalyticsController(repo))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return cc
}
