package bootstrap

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"contractorreg-backend/internal/extract"
	"contractorreg-backend/internal/pipeline"
	"contractorreg-backend/internal/services/health"
	"contractorreg-backend/internal/shared/config"
	"contractorreg-backend/internal/shared/server"
	"contractorreg-backend/internal/shared/server/middleware"
	"contractorreg-backend/internal/shared/storage/object/local"
	"contractorreg-backend/internal/shared/telemetry"
	"contractorreg-backend/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	Store         *local.Store
	Extractor     *extract.Extractor
	Pipeline      *pipeline.Service
	UploadHandler *uploads.Handler
	Health        *health.Service
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.UploadDir) == "" {
		return nil, errors.New("upload dir is required")
	}
	telemetry.SetLevel(cfg.LogLevel)

	store := local.New(cfg.UploadDir)
	extractor := extract.New()
	pipe := pipeline.NewService(extractor)
	uploadHandler := uploads.NewHandler(store, pipe, cfg.MaxUploadBytes, cfg.RetainUploads)
	healthSvc := health.NewService()

	app := &App{
		Config:        cfg,
		Store:         store,
		Extractor:     extractor,
		Pipeline:      pipe,
		UploadHandler: uploadHandler,
		Health:        healthSvc,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		UploadHandler: uploadHandler,
		Health:        healthSvc,
		RateLimiter:   middleware.NewRateLimiter(nil),
	})

	return app, nil
}
