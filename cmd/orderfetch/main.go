package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"salesflow/config"
	"salesflow/internal/export"
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
	fromDate := flag.String("from", "", "Start date (YYYY-MM-DD)")
	toDate := flag.String("to", "", "End date (YYYY-MM-DD)")
	financial := flag.String("financial-status", "", "Server-side financial status filter (paid, refunded, ...)")
	fulfillment := flag.String("fulfillment-status", "", "Server-side fulfillment status filter")
	price := flag.Float64("price", 0, "Keep only orders with this exact total")
	minPrice := flag.Float64("min-price", 0, "Keep only orders with total >= this amount")
	maxPrice := flag.Float64("max-price", 0, "Keep only orders with total <= this amount")
	fromOrder := flag.String("from-order", "", "Keep orders starting at this order name")
	toOrder := flag.String("to-order", "", "Keep orders up to this order name")
	tag := flag.String("tag", "", "Keep only orders carrying this tag")
	email := flag.String("email", "", "Keep only orders whose customer email contains this")
	csvOut := flag.String("csv", "", "Write matching orders to this CSV file")
	jsonOut := flag.String("json", "", "Write matching orders to this JSON file")
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

	filter := shopify.Filter{
		FromOrder: *fromOrder,
		ToOrder:   *toOrder,
		Tag:       *tag,
		Email:     *email,
	}
	// Price flags only filter when passed explicitly; zero is a valid total.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "price":
			filter.Price = price
		case "min-price":
			filter.MinPrice = minPrice
		case "max-price":
			filter.MaxPrice = maxPrice
		}
	})

	started := time.Now()
	ctx := context.Background()
	log.WithFields(logger.Fields{
		"service": cfg.Salesflow.Name,
		"version": cfg.Salesflow.Version,
	}).Info("starting order fetch")

	client := shopify.NewClient(cfg.Shopify, cfg.HTTP)
	orders, res := client.AllOrders(ctx, shopify.OrderQuery{
		CreatedAtMin:      *fromDate,
		CreatedAtMax:      *toDate,
		FinancialStatus:   *financial,
		FulfillmentStatus: *fulfillment,
	})
	if !res.Complete {
		log.WithError(res.Err).WithFields(logger.Fields{
			"orders_fetched": len(orders),
			"pages":          res.Pages,
		}).Warn("order fetch incomplete, listing covers partial data")
	}

	matched := filter.Apply(orders)
	log.WithFields(logger.Fields{
		"fetched": len(orders),
		"matched": len(matched),
	}).Info("orders filtered")
	if len(matched) == 0 {
		log.Error("no orders matched the given filters")
		os.Exit(1)
	}

	report.WriteOrderSummary(os.Stdout, matched)

	if *csvOut != "" {
		if err := writeFile(*csvOut, func(f *os.File) error { return export.WriteOrdersCSV(f, matched) }); err != nil {
			log.WithError(err).Error("csv export failed")
			os.Exit(1)
		}
		log.WithFields(logger.Fields{"file": *csvOut}).Info("orders csv exported")
		logger.IncrementExport()
	}
	if *jsonOut != "" {
		if err := writeFile(*jsonOut, func(f *os.File) error { return export.WriteOrdersJSON(f, matched) }); err != nil {
			log.WithError(err).Error("json export failed")
			os.Exit(1)
		}
		log.WithFields(logger.Fields{"file": *jsonOut}).Info("orders json exported")
		logger.IncrementExport()
	}

	logger.LogRunReport(ctx, log, time.Since(started))
}

func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}
