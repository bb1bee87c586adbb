package api

import (
	"scan-sync/core/session"
	"scan-sync/core/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	cfg     sync.Config
}

// NewFeature creates the REST API feature. archiver may be nil when no object
// storage is configured.
func NewFeature(manager *session.Manager, syncer sync.Synchronizer, archiver Archiver, publicURL string, cfg sync.Config, logger *zap.Logger) *Feature {
	svc := NewService(manager, syncer, archiver, logger)
	h := NewHandler(svc, publicURL)
	return &Feature{service: svc, handler: h, cfg: cfg}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "api"
}

// IsEnabled checks if the poll/REST surface is enabled.
func (f *Feature) IsEnabled() bool {
	return f.cfg.PollEnabled()
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
