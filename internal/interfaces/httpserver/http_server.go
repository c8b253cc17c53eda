package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"companion-server/internal/config"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/interfaces/httpserver/handlers/webhookhandler"
	middleware "companion-server/internal/interfaces/httpserver/middlewares"
	v1 "companion-server/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine         *gin.Engine
	v1Route        *v1.V1Route
	webhookHandler *webhookhandler.WebhookHandler
	config         *config.Config
}

func NewHTTPServer(
	v1Route *v1.V1Route,
	webhookHandler *webhookhandler.WebhookHandler,
	cfg *config.Config,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		gin.New(),
		v1Route,
		webhookHandler,
		cfg,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(logger.GetLogger()))
	server.engine.Use(middleware.CORSMiddleware())

	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	return &server
}

func (httpServer *HTTPServer) Run() error {
	root := httpServer.engine.Group("/")

	// Cloud API webhook endpoints. GET is the subscription handshake.
	root.GET("/webhook", httpServer.webhookHandler.Verify)
	root.POST("/webhook", httpServer.webhookHandler.Receive)

	httpServer.v1Route.RegisterRouter(root)

	return httpServer.engine.Run(fmt.Sprintf(":%d", httpServer.config.HTTPPort))
}

// RunMetrics serves the Prometheus scrape endpoint on its own port.
func RunMetrics(cfg *config.Config) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", cfg.MetricsPort), mux)
}
