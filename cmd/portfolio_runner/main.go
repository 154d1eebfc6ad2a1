package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"swingtrader/config"
	"swingtrader/internal/app"
	"swingtrader/internal/portfolio"
	"swingtrader/internal/report"
	"swingtrader/internal/strategy/strategies"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := app.NewLogger(cfg)
	ctx := context.Background()

	assets, err := app.LoadAssets(cfg)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to load price data")
		os.Exit(1)
	}

	symbols := make([]string, 0, len(assets))
	for symbol := range assets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	appLogger.Info(ctx, "Running portfolio aggregation", map[string]interface{}{
		"assets":     symbols,
		"strategies": len(strategies.DefaultSpecs()),
		"capital":    cfg.Portfolio.InitialCapital,
	})

	result, err := portfolio.Run(ctx, assets, strategies.DefaultSpecs(), portfolio.Config{
		InitialCapital:   cfg.Portfolio.InitialCapital,
		CashFraction:     cfg.Portfolio.CashFraction,
		CashAnnualReturn: cfg.Portfolio.CashAnnualReturn,
		RebalanceYearly:  cfg.Portfolio.RebalanceYearly,
		Logger:           appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "Portfolio aggregation failed")
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Backtest.OutputDir, 0755); err != nil {
		appLogger.Error(ctx, err, "Failed to create output directory")
		os.Exit(1)
	}

	reportPath := filepath.Join(cfg.Backtest.OutputDir, "portfolio_results.md")
	if err := report.WritePortfolioReport(reportPath, result, symbols, time.Now()); err != nil {
		appLogger.Error(ctx, err, "Failed to write report")
		os.Exit(1)
	}
	appLogger.Info(ctx, "Portfolio aggregation complete", map[string]interface{}{
		"curves": len(result.Curves), "report": reportPath,
	})
}
