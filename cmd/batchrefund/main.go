package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"salesflow/config"
	"salesflow/internal/refund"
	"salesflow/internal/shopify"
	"salesflow/logger"
)

func main() {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	input := flag.String("input", "", "CSV file with one order name/number per row")
	amount := flag.Float64("amount", 0, "Partial refund amount; omit to refund each order's full total")
	note := flag.String("note", "", "Refund note attached to each refund")
	notify := flag.Bool("notify", false, "Send the customer a refund notification")
	restock := flag.Bool("restock", false, "Return refunded items to inventory")
	dryRun := flag.Bool("dry-run", false, "Resolve orders and amounts without creating refunds")
	delay := flag.Duration("delay", 0, "Pause between orders (default from config)")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	if *input == "" && flag.NArg() == 0 {
		log.Error("order names are required: pass -input orders.csv or list them as arguments")
		os.Exit(1)
	}

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

	names := flag.Args()
	if *input != "" {
		fromCSV, err := refund.ReadOrderNamesCSV(*input)
		if err != nil {
			log.WithError(err).Error("failed to read order list")
			os.Exit(1)
		}
		names = append(fromCSV, names...)
	}
	if len(names) == 0 {
		log.Error("input contains no orders")
		os.Exit(1)
	}

	opts := refund.Options{
		Note:    *note,
		Notify:  *notify,
		Restock: *restock,
		DryRun:  *dryRun,
		Delay:   *delay,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "amount" {
			opts.Amount = amount
		}
	})

	if !*dryRun && !*yes && !confirm(len(names), opts.Amount) {
		fmt.Println("Aborted.")
		os.Exit(1)
	}

	started := time.Now()
	ctx := context.Background()
	log.WithFields(logger.Fields{
		"service": cfg.Salesflow.Name,
		"version": cfg.Salesflow.Version,
		"orders":  len(names),
		"dry_run": *dryRun,
	}).Info("starting batch refund")

	client := shopify.NewClient(cfg.Shopify, cfg.HTTP)
	result := refund.NewProcessor(client, cfg.Refund, opts).Run(ctx, names)

	fmt.Printf("\nBatch %s finished: %d succeeded, %d skipped, %d failed\n",
		result.BatchID, result.Succeeded, result.Skipped, result.Failed)
	for _, item := range result.Items {
		switch {
		case item.Err != nil:
			fmt.Printf("  FAILED  %s: %v\n", item.OrderName, item.Err)
		case item.Skipped:
			fmt.Printf("  SKIPPED %s: already refunded\n", item.OrderName)
		default:
			fmt.Printf("  OK      %s: refunded %s\n", item.OrderName, item.Amount)
		}
	}

	logger.LogRunReport(ctx, log, time.Since(started))

	if result.Failed > 0 {
		os.Exit(1)
	}
}

func confirm(count int, amount *float64) bool {
	if amount != nil {
		fmt.Printf("About to refund %.2f on each of %d orders. Continue? [y/N] ", *amount, count)
	} else {
		fmt.Printf("About to fully refund %d orders. Continue? [y/N] ", count)
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
