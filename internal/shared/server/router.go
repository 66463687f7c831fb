package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contractorreg-backend/internal/services/health"
	"contractorreg-backend/internal/shared/config"
	"contractorreg-backend/internal/shared/metrics"
	"contractorreg-backend/internal/shared/server/middleware"
	"contractorreg-backend/internal/shared/server/respond"
	"contractorreg-backend/internal/uploads"
)

const uploadRateGroup = "UPLOAD"

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config        config.Config
	UploadHandler *uploads.Handler
	Health        *health.Service
	RateLimiter   *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = multipartMemory(deps.Config.MaxUploadBytes)

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: deps.RateLimiter,
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost {
					return uploadRateGroup
				}
				return ""
			},
			Rules: map[string]middleware.RateLimitRule{
				uploadRateGroup: {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
			},
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/", func(c *gin.Context) {
		respond.Text(c, http.StatusOK, health.Banner)
	})
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())

	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(r)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

// multipartMemory caps the in-memory part of a multipart form; larger files spill to disk.
func multipartMemory(maxUploadBytes int64) int64 {
	const ceiling = 8 << 20
	if maxUploadBytes <= 0 || maxUploadBytes > ceiling {
		return ceiling
	}
	return maxUploadBytes
}
