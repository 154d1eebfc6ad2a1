// Package app wires configuration into the pieces the command-line runners
// share: logger selection and price-data loading.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"swingtrader/config"
	"swingtrader/internal/adapters/logger"
	"swingtrader/internal/domain"
	"swingtrader/internal/ports"
	"swingtrader/internal/utils"
)

// NewLogger selects the logging backend from configuration: plain text via
// the standard library, or structured JSON via zerolog.
func NewLogger(cfg *config.Config) ports.Logger {
	if strings.EqualFold(cfg.LogFormat, "json") {
		return logger.NewZeroLogger(cfg.Level())
	}
	return logger.NewStdLogger(cfg.Level())
}

// LoadAssets reads every CSV in the configured data directory, bounded by
// the configured date range, and validates each series. The asset symbol is
// the filename up to the first underscore (e.g. AAPL_1d.csv -> AAPL).
func LoadAssets(cfg *config.Config) (map[string][]*domain.Bar, error) {
	start, _ := cfg.StartDate()
	end, _ := cfg.EndDate()

	entries, err := os.ReadDir(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", cfg.Data.Dir, err)
	}

	assets := make(map[string][]*domain.Bar)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		symbol := strings.TrimSuffix(name, ".csv")
		if idx := strings.Index(symbol, "_"); idx > 0 {
			symbol = symbol[:idx]
		}

		bars, err := utils.ReadBarsFromCSV(filepath.Join(cfg.Data.Dir, name), symbol, start, end)
		if err != nil {
			return nil, err
		}
		if err := domain.ValidateSeries(bars); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		assets[symbol] = bars
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", cfg.Data.Dir)
	}
	return assets, nil
}
