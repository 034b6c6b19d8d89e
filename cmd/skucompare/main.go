package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"salesflow/config"
	"salesflow/internal/amplifier"
	"salesflow/internal/compare"
	"salesflow/internal/report"
	"salesflow/internal/shopify"
	"salesflow/logger"
)

func main() {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	output := flag.String("output", "", "Write the full SKU reconciliation to this CSV file")
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
	if cfg.Amplifier.APIKey == "" {
		log.Error("amplifier API key is required (config or AMPLIFIER_KEY)")
		os.Exit(1)
	}

	started := time.Now()
	ctx := context.Background()
	log.WithFields(logger.Fields{
		"service": cfg.Salesflow.Name,
		"version": cfg.Salesflow.Version,
	}).Info("starting SKU reconciliation")

	shopClient := shopify.NewClient(cfg.Shopify, cfg.HTTP)
	products, shopRes := shopClient.AllProducts(ctx)
	if !shopRes.Complete {
		log.WithError(shopRes.Err).WithFields(logger.Fields{
			"products_fetched": len(products),
		}).Warn("shopify product fetch incomplete, reconciliation covers partial data")
	}

	ampClient := amplifier.NewClient(cfg.Amplifier, cfg.HTTP)
	items, ampRes := ampClient.AllItems(ctx, amplifier.ItemQuery{})
	if !ampRes.Complete {
		log.WithError(ampRes.Err).WithFields(logger.Fields{
			"items_fetched": len(items),
		}).Warn("amplifier item fetch incomplete, reconciliation covers partial data")
	}

	if len(products) == 0 && len(items) == 0 {
		log.Error("nothing to reconcile, both catalogs came back empty")
		os.Exit(1)
	}

	rec := compare.Build(products, items)
	report.WriteCompareReport(os.Stdout, rec)

	if *output != "" {
		if err := writeReconciliationCSV(*output, rec); err != nil {
			log.WithError(err).Error("csv export failed")
			os.Exit(1)
		}
		log.WithFields(logger.Fields{"file": *output}).Info("reconciliation csv exported")
		logger.IncrementExport()
	}

	logger.LogRunReport(ctx, log, time.Since(started))
}

func writeReconciliationCSV(path string, rec *compare.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"SKU", "Status", "Shopify Title", "Shopify Inventory", "Amplifier Name", "Amplifier On Hand"}); err != nil {
		return err
	}

	write := func(sku, status string) error {
		row := []string{sku, status, "", "", "", ""}
		if e, ok := rec.Shopify[sku]; ok {
			row[2] = e.ProductTitle
			row[3] = strconv.Itoa(e.Inventory)
		}
		if e, ok := rec.Amplifier[sku]; ok {
			row[4] = e.Name
			row[5] = strconv.Itoa(e.OnHand)
		}
		return w.Write(row)
	}

	for _, sku := range rec.Both {
		if err := write(sku, "both"); err != nil {
			return err
		}
	}
	for _, sku := range rec.OnlyShopify {
		if err := write(sku, "shopify_only"); err != nil {
			return err
		}
	}
	for _, sku := range rec.OnlyAmplifier {
		if err := write(sku, "amplifier_only"); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
