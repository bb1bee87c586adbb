package export

import (
	"context"
	"time"

	"scan-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface. It has no routes of its
// own; loading verifies storage access so misconfiguration fails at startup
// instead of on the first export.
type Feature struct {
	archiver *Archiver
	enabled  bool
}

// NewFeature creates the export feature.
func NewFeature(client storage.Client, cfg storage.Config, logger *zap.Logger) *Feature {
	return &Feature{
		archiver: NewArchiver(client, cfg.Bucket, logger),
		enabled:  cfg.Enabled,
	}
}

// Archiver exposes the archiver for the API and CLI surfaces.
func (f *Feature) Archiver() *Archiver {
	return f.archiver
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "export"
}

// IsEnabled checks if report archiving is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load ensures the report bucket exists.
func (f *Feature) Load(_ fiber.Router) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return f.archiver.EnsureBucket(ctx)
}
