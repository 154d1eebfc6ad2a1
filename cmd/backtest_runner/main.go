package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"swingtrader/config"
	"swingtrader/internal/adapters/sqlite"
	"swingtrader/internal/app"
	"swingtrader/internal/ports"
	"swingtrader/internal/report"
	"swingtrader/internal/strategy/analytics"
	"swingtrader/internal/strategy/backtesting"
	"swingtrader/internal/strategy/strategies"
	"swingtrader/internal/utils"
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

	var repo *sqlite.Repository
	if cfg.Backtest.DBPath != "" {
		repo, err = sqlite.NewRepository(sqlite.Config{DBPath: cfg.Backtest.DBPath, Logger: appLogger})
		if err != nil {
			appLogger.Error(ctx, err, "Failed to open results database")
			os.Exit(1)
		}
		defer repo.Close()
	}

	if err := os.MkdirAll(cfg.Backtest.OutputDir, 0755); err != nil {
		appLogger.Error(ctx, err, "Failed to create output directory")
		os.Exit(1)
	}

	var runs []report.RunSummary
	for symbol, bars := range assets {
		for _, spec := range strategies.DefaultSpecs() {
			appLogger.Info(ctx, "Running backtest", map[string]interface{}{
				"symbol": symbol, "strategy": spec.Name, "bars": len(bars),
			})

			result, err := backtesting.Run(ctx, spec.Factory(), bars, backtesting.Config{
				Symbol:      symbol,
				InitialCash: cfg.Backtest.InitialCash,
				Logger:      appLogger,
			})
			if err != nil {
				appLogger.Error(ctx, err, "Backtest failed", map[string]interface{}{
					"symbol": symbol, "strategy": spec.Name,
				})
				os.Exit(1)
			}

			summary := analytics.Summarize(result.Trades, result.Equity, cfg.Backtest.InitialCash)
			runs = append(runs, report.RunSummary{Asset: symbol, Strategy: spec.Name, Summary: summary})

			tradesPath := filepath.Join(cfg.Backtest.OutputDir, fmt.Sprintf("%s_%s_trades.csv", symbol, spec.Name))
			if err := utils.WriteTradesToCSV(result.Trades, tradesPath); err != nil {
				appLogger.Error(ctx, err, "Failed to write trade log", map[string]interface{}{"path": tradesPath})
				os.Exit(1)
			}

			if repo != nil && len(bars) > 0 {
				rec := &ports.RunRecord{
					Symbol:      symbol,
					Strategy:    spec.Name,
					InitialCash: cfg.Backtest.InitialCash,
					FinalEquity: result.FinalEquity(),
					TradeCount:  len(result.Trades),
					StartDate:   bars[0].Date,
					EndDate:     bars[len(bars)-1].Date,
				}
				if _, err := repo.SaveRun(ctx, rec, result.Trades); err != nil {
					appLogger.Error(ctx, err, "Failed to persist run", map[string]interface{}{
						"symbol": symbol, "strategy": spec.Name,
					})
					os.Exit(1)
				}
			}
		}
	}

	reportPath := filepath.Join(cfg.Backtest.OutputDir, "backtest_results.md")
	if err := report.WriteBacktestReport(reportPath, runs, time.Now()); err != nil {
		appLogger.Error(ctx, err, "Failed to write report")
		os.Exit(1)
	}
	appLogger.Info(ctx, "Backtests complete", map[string]interface{}{
		"runs": len(runs), "report": reportPath,
	})
}
