package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/idverify/internal/api/handlers"
	"github.com/your-org/idverify/internal/api/ws"
	"github.com/your-org/idverify/internal/auth"
	"github.com/your-org/idverify/internal/queue"
	"github.com/your-org/idverify/internal/session"
	"github.com/your-org/idverify/internal/storage"
)

type RouterConfig struct {
	APIKey   string
	DB       *storage.PostgresStore
	MinIO    *storage.MinIOStore
	Producer *queue.Producer
	Vision   *queue.VisionClient
	Sessions *session.Manager
	Hub      *ws.Hub
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket event stream
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Verification sessions
	sessionH := handlers.NewSessionHandler(cfg.Sessions, cfg.Vision, cfg.Producer, cfg.DB, cfg.MinIO)
	v1.POST("/sessions", sessionH.Create)
	v1.GET("/sessions/:id", sessionH.Get)
	v1.POST("/sessions/:id/mrz", sessionH.UploadMRZ)
	v1.POST("/sessions/:id/portrait", sessionH.UploadPortrait)
	v1.POST("/sessions/:id/liveness/:pose", sessionH.UploadLivenessPose)
	v1.POST("/sessions/:id/submit", sessionH.Submit)

	return r
}
