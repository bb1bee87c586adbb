package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scan-sync/core/config"
	"scan-sync/core/logger"
	"scan-sync/core/report"
	"scan-sync/core/session"
	"scan-sync/core/storage"
	"scan-sync/core/tabular"
	"scan-sync/feature/export"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportCatalogPath string
	reportScansPath   string
	reportOutputPath  string
	reportSessionName string
	reportArchive     bool
)

// scanRow is one line of an offline scans file.
type scanRow struct {
	Code string `csv:"code"`
}

// reportCmd generates a reconciliation report offline, without a server.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a reconciliation report from local files",
	Long: `Reads a catalog file (.csv or .xlsx) and a scans file (CSV with a
"code" column, one row per scan) and writes the matched/missing/surplus
report as CSV to stdout or to a file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		catalog, err := readCatalogFile(reportCatalogPath, cfg.Session)
		if err != nil {
			return err
		}
		ledger, err := readScansFile(reportScansPath)
		if err != nil {
			return err
		}

		rep := report.Generate(catalog, ledger)

		out := os.Stdout
		if reportOutputPath != "" {
			f, err := os.Create(reportOutputPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", reportOutputPath, err)
			}
			defer f.Close()
			out = f
		}
		if err := report.WriteCSV(out, catalog, rep); err != nil {
			return err
		}

		if reportArchive {
			if err := archiveReport(cfg, catalog, rep); err != nil {
				return err
			}
		}

		fmt.Fprintf(os.Stderr, "%d items: %d matched, %d missing, %d surplus (%d%%)\n",
			rep.Summary.TotalItems, rep.Summary.Matched, rep.Summary.Missing,
			rep.Summary.Surplus, rep.Summary.Percentage)
		return nil
	},
}

// readCatalogFile parses a catalog spreadsheet by extension.
func readCatalogFile(path string, cfg session.Config) (*session.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	var table *tabular.Table
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		table, err = tabular.ReadXLSX(f)
	} else {
		table, err = tabular.ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return session.NewCatalog(table, cfg)
}

// readScansFile decodes a scans CSV into a ledger, one entry per row.
func readScansFile(path string) (*session.Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scans %s: %w", path, err)
	}

	var rows []scanRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse scans %s: %w", path, err)
	}

	ledger := &session.Ledger{}
	now := time.Now()
	for _, row := range rows {
		code := session.CanonicalCode(row.Code)
		if code == "" {
			continue
		}
		ledger.Append(code, now)
	}
	return ledger, nil
}

// archiveReport uploads the report CSV to the configured object storage.
func archiveReport(cfg *config.Config, catalog *session.Catalog, rep *report.Report) error {
	logg, err := logger.New(&logger.Config{Level: "info", Format: "console"})
	if err != nil {
		return err
	}
	defer logg.Sync()

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	archiver := export.NewArchiver(client, cfg.Storage.Bucket, logg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := archiver.EnsureBucket(ctx); err != nil {
		return err
	}
	object, err := archiver.Archive(ctx, reportSessionName, catalog, rep)
	if err != nil {
		return err
	}
	logg.Info("report archived", zap.String("object", object))
	return nil
}

func init() {
	reportCmd.Flags().StringVar(&reportCatalogPath, "catalog", "", "catalog file (.csv or .xlsx)")
	reportCmd.Flags().StringVar(&reportScansPath, "scans", "", "scans CSV file with a \"code\" column")
	reportCmd.Flags().StringVarP(&reportOutputPath, "output", "o", "", "report output path (default stdout)")
	reportCmd.Flags().StringVar(&reportSessionName, "session", "offline", "session name used for the archive object path")
	reportCmd.Flags().BoolVar(&reportArchive, "archive", false, "also upload the report to object storage")
	_ = reportCmd.MarkFlagRequired("catalog")
	_ = reportCmd.MarkFlagRequired("scans")
	RootCmd.AddCommand(reportCmd)
}
