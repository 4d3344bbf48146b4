package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is checked by the health endpoint. The reverse geocode cache pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Logger      *slog.Logger        // Logger for request logs
	Handler     *Handler            // Form session handler
	Gatherer    prometheus.Gatherer // Registry served at /metrics
	Database    Pinger              // Optional, checked by /healthz
	CORSOrigins []string            // Allowed origins, all when empty
}

// NewRouter builds the HTTP API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(cfg.Logger))
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	engine.GET("/healthz", healthz(cfg.Logger, cfg.Database))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	v1 := engine.Group("/api/v1")
	cfg.Handler.RegisterRoutes(v1.Group("/forms"))

	return engine
}

func corsConfig(origins []string) cors.Config {
	const maxAge = 12 * time.Hour

	config := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       maxAge,
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	return config
}

func healthz(log *slog.Logger, dtb Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		log.DebugContext(ctx, "Performing health checks...")

		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		c.String(status, body)

		log.DebugContext(ctx, "Health checks completed", "status", status)
	}
}

// requestLogger logs every request with its status and latency.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.DebugContext(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
