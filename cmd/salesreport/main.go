package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"salesflow/config"
	"salesflow/internal/export"
	"salesflow/internal/report"
	"salesflow/internal/sales"
	"salesflow/internal/shopify"
	"salesflow/logger"
)

func main() {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	fromDate := flag.String("from", "", "Start date (YYYY-MM-DD)")
	toDate := flag.String("to", "", "End date (YYYY-MM-DD)")
	output := flag.String("output", "", "Output filename prefix for CSV exports")
	jsonOut := flag.Bool("json", false, "Also export normalized rows as JSON")
	parquetOut := flag.Bool("parquet", false, "Also export normalized rows as Parquet")
	flag.Parse()

	cfg, err := config.LoadConfig(config.ResolveConfigPath(*configPath))
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}
	if cfg.Logging.CloudWatch {
		logger.InitCloudWatch(cfg.Storage.S3.Region, cfg.Logging.Namespace)
	}

	if cfg.Shopify.Store == "" || cfg.Shopify.Token == "" {
		log.Error("shopify store and token are required (config or SHOPIFY_STORE/SHOPIFY_TOKEN)")
		os.Exit(1)
	}

	started := time.Now()
	ctx := context.Background()
	runID := uuid.New().String()
	log.WithFields(logger.Fields{
		"service": cfg.Salesflow.Name,
		"version": cfg.Salesflow.Version,
		"run_id":  runID,
	}).Info("starting sales report")

	client := shopify.NewClient(cfg.Shopify, cfg.HTTP)
	orders, res := client.AllOrders(ctx, shopify.OrderQuery{
		CreatedAtMin: *fromDate,
		CreatedAtMax: *toDate,
	})
	if !res.Complete {
		log.WithError(res.Err).WithFields(logger.Fields{
			"orders_fetched": len(orders),
			"pages":          res.Pages,
		}).Warn("order fetch incomplete, report covers partial data")
	}
	if len(orders) == 0 {
		log.Error("no orders fetched")
		os.Exit(1)
	}

	rows := sales.NormalizeOrders(orders)
	summary, err := sales.Aggregate(rows)
	if err != nil {
		log.WithError(err).Error("nothing to aggregate")
		os.Exit(1)
	}

	report.WriteSalesReport(os.Stdout, summary)

	if *output != "" {
		artifacts, err := writeArtifacts(*output, rows, summary, runID, res.Complete, *jsonOut, *parquetOut)
		if err != nil {
			log.WithError(err).Error("export failed")
			os.Exit(1)
		}
		if cfg.Storage.S3.Enabled {
			if err := uploadArtifacts(ctx, cfg.Storage.S3, artifacts); err != nil {
				log.WithError(err).Error("S3 upload failed")
				os.Exit(1)
			}
		}
	}

	logger.LogRunReport(ctx, log, time.Since(started))
}

type artifact struct {
	path        string
	contentType string
}

func writeArtifacts(prefix string, rows []sales.Row, summary *sales.Summary, runID string, complete, jsonOut, parquetOut bool) ([]artifact, error) {
	log := logger.GetLogger().WithComponent("export")
	var artifacts []artifact

	writeCSV := func(name string, fn func(f *os.File) error) error {
		path := fmt.Sprintf("%s_%s.csv", prefix, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.WithFields(logger.Fields{"file": path}).Info("csv exported")
		logger.IncrementExport()
		artifacts = append(artifacts, artifact{path, "text/csv"})
		return nil
	}

	if err := writeCSV("detailed", func(f *os.File) error { return export.WriteDetailedCSV(f, rows) }); err != nil {
		return nil, err
	}
	if err := writeCSV("by_product", func(f *os.File) error { return export.WriteProductCSV(f, summary) }); err != nil {
		return nil, err
	}
	if err := writeCSV("by_category", func(f *os.File) error { return export.WriteCategoryCSV(f, summary) }); err != nil {
		return nil, err
	}
	if err := writeCSV("trends", func(f *os.File) error { return export.WriteTrendsCSV(f, summary) }); err != nil {
		return nil, err
	}

	if jsonOut {
		path := prefix + "_rows.json"
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
		err = export.WriteRowsJSON(f, rows, runID, complete)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.WithFields(logger.Fields{"file": path}).Info("json exported")
		logger.IncrementExport()
		artifacts = append(artifacts, artifact{path, "application/json"})
	}

	if parquetOut {
		data, err := export.BuildParquet(rows)
		if err != nil {
			return nil, err
		}
		path := prefix + "_rows.parquet"
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.WithFields(logger.Fields{"file": path, "size": len(data)}).Info("parquet exported")
		logger.IncrementExport()
		artifacts = append(artifacts, artifact{path, "application/octet-stream"})
	}

	return artifacts, nil
}

func uploadArtifacts(ctx context.Context, cfg config.S3Config, artifacts []artifact) error {
	uploader, err := export.NewUploader(ctx, cfg)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		data, err := os.ReadFile(a.path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", a.path, err)
		}
		if _, err := uploader.Upload(ctx, filepath.Base(a.path), data, a.contentType); err != nil {
			return err
		}
	}
	return nil
}
