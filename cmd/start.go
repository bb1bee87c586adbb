package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scan-sync/core/config"
	"scan-sync/core/database"
	"scan-sync/core/loader"
	"scan-sync/core/logger"
	"scan-sync/core/middleware/rayid"
	"scan-sync/core/session"
	"scan-sync/core/storage"
	"scan-sync/core/store"
	coresync "scan-sync/core/sync"

	"scan-sync/feature/api"
	"scan-sync/feature/export"
	"scan-sync/feature/relay"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "scan-sync/docs/swagger"
)

// @title Scan-Sync API
// @version 1.0
// @description Shared inventory reconciliation sessions.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scan-sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Store.IsValidBackend() {
			logg.Fatal("Invalid store backend", zap.String("backend", cfg.Store.Backend))
		}
		if !cfg.Sync.IsValidBackend() {
			logg.Fatal("Invalid sync backend", zap.String("backend", cfg.Sync.Backend))
		}

		// 3. Initialize Session Store
		sessionStore := newSessionStore(cfg, logg)
		manager := session.NewManager(sessionStore, cfg.Session, logg)

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Feature Loader
		mgr := loader.NewManager(logg)

		// The relay hub doubles as the synchronizer when enabled, so scans
		// arriving over REST still reach connected websocket members.
		relayFeature := relay.NewFeature(manager, cfg.Sync, logg)
		var syncer coresync.Synchronizer = coresync.NewService(manager)
		if cfg.Sync.RelayEnabled() {
			syncer = relayFeature.Hub()
		}

		var archiver api.Archiver
		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			exportFeature := export.NewFeature(client, cfg.Storage, logg)
			archiver = exportFeature.Archiver()
			mgr.Register(exportFeature)
		}

		// Register Features
		mgr.Register(relayFeature)
		mgr.Register(api.NewFeature(manager, syncer, archiver, cfg.Server.PublicURL, cfg.Sync, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. CORS (scanners connect from phone browsers on the local network)
		app.Use(cors.New())

		// 3. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 4. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("store", cfg.Store.Backend),
				zap.String("sync", cfg.Sync.Backend))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()

		if closer, ok := sessionStore.(interface{ Close(context.Context) error }); ok {
			_ = closer.Close(context.Background())
		}
	},
}

// newSessionStore builds the configured store backend, failing fast when the
// backing service is unreachable.
func newSessionStore(cfg *config.Config, logg *zap.Logger) session.Store {
	switch cfg.Store.Backend {
	case store.BackendMongo:
		s, err := store.NewMongo(context.Background(), cfg.Store)
		if err != nil {
			logg.Fatal("Failed to connect session store", zap.Error(err))
		}
		return s
	case store.BackendDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect session store", zap.Error(err))
		}
		s, err := store.NewDatabase(db)
		if err != nil {
			logg.Fatal("Failed to prepare session store", zap.Error(err))
		}
		return s
	default:
		return store.NewMemory()
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
