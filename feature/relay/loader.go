package relay

import (
	"scan-sync/core/session"
	coresync "scan-sync/core/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	hub     *Hub
	handler *Handler
	cfg     coresync.Config
}

// NewFeature creates the relay feature.
func NewFeature(manager *session.Manager, cfg coresync.Config, logger *zap.Logger) *Feature {
	hub := NewHub(manager, cfg.GracePeriod(), logger)
	h := NewHandler(hub, logger)
	return &Feature{hub: hub, handler: h, cfg: cfg}
}

// Hub exposes the relay hub, e.g. to use it as the synchronizer.
func (f *Feature) Hub() *Hub {
	return f.hub
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "relay"
}

// IsEnabled checks if the relay surface is enabled.
func (f *Feature) IsEnabled() bool {
	return f.cfg.RelayEnabled()
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
