package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scan-sync/core/config"
	"scan-sync/core/database"
	"scan-sync/core/logger"
	"scan-sync/core/report"
	"scan-sync/core/session"
	"scan-sync/core/store"
	coresync "scan-sync/core/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd follows a session's progress from the terminal under the poll
// design, printing a progress line on every change.
var watchCmd = &cobra.Command{
	Use:   "watch <session-code>",
	Short: "Follow a session's reconciliation progress",
	Long: `Polls the session store at the configured interval and prints the
matched/missing/surplus counters whenever they change. Stops when the
session expires or is cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		sessionStore, err := watchStore(cfg, logg)
		if err != nil {
			return err
		}
		manager := session.NewManager(sessionStore, cfg.Session, logg)
		syncer := coresync.NewService(manager)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			<-c
			cancel()
		}()

		var last report.Summary
		first := true
		poller := coresync.NewPoller(syncer, args[0], cfg.Sync.PollInterval(), logg,
			func(s *session.Session) {
				summary := report.Generate(s.Catalog, s.Ledger).Summary
				if !first && summary == last {
					return
				}
				first = false
				last = summary
				fmt.Printf("%s  %d/%d matched (%d%%), %d missing, %d surplus, %d scans\n",
					s.ID, summary.Matched, summary.TotalItems, summary.Percentage,
					summary.Missing, summary.Surplus, s.Ledger.Len())
			})

		err = poller.Run(ctx)
		if errors.Is(err, session.ErrNotFound) {
			fmt.Println("session ended")
			return nil
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// watchStore builds the configured store backend for read-side polling.
func watchStore(cfg *config.Config, logg *zap.Logger) (session.Store, error) {
	switch cfg.Store.Backend {
	case store.BackendMongo:
		return store.NewMongo(context.Background(), cfg.Store)
	case store.BackendDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		return store.NewDatabase(db)
	case store.BackendMemory:
		// A fresh in-memory store has no sessions to watch.
		logg.Warn("watching against the memory backend only sees sessions created in this process")
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("invalid store backend: %s", cfg.Store.Backend)
	}
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
