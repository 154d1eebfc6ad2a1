package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"swingtrader/internal/adapters/logger"
)

// dateLayout is the format for date bounds in config files and env vars.
const dateLayout = "2006-01-02"

// Config holds all application configuration. Values come from a TOML file,
// with SWING_* environment variables (optionally via a .env file) applied on
// top.
type Config struct {
	Data      DataConfig      `toml:"data"`
	Backtest  BacktestConfig  `toml:"backtest"`
	Portfolio PortfolioConfig `toml:"portfolio"`
	LogLevel  string          `toml:"log_level"`
	LogFormat string          `toml:"log_format"` // "text" or "json"
}

// DataConfig locates and bounds the input price series.
type DataConfig struct {
	Dir       string `toml:"dir"`        // Directory of per-asset CSV files
	StartDate string `toml:"start_date"` // Inclusive lower bound (YYYY-MM-DD, empty = unbounded)
	EndDate   string `toml:"end_date"`   // Inclusive upper bound
}

// BacktestConfig drives the per-asset backtest runner.
type BacktestConfig struct {
	InitialCash float64 `toml:"initial_cash"`
	OutputDir   string  `toml:"output_dir"`
	DBPath      string  `toml:"db_path"` // Optional sqlite persistence; empty disables
}

// PortfolioConfig drives the portfolio aggregation runner.
type PortfolioConfig struct {
	InitialCapital   float64 `toml:"initial_capital"`
	CashFraction     float64 `toml:"cash_fraction"`
	CashAnnualReturn float64 `toml:"cash_annual_return"`
	RebalanceYearly  bool    `toml:"rebalance_yearly"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Data: DataConfig{
			Dir:       "stockData",
			StartDate: "2000-01-01",
			EndDate:   "2024-12-31",
		},
		Backtest: BacktestConfig{
			InitialCash: 100000,
			OutputDir:   "reports",
		},
		Portfolio: PortfolioConfig{
			InitialCapital:   100000,
			CashFraction:     0.20,
			CashAnnualReturn: 0.03,
			RebalanceYearly:  false,
		},
		LogLevel:  "INFO",
		LogFormat: "text",
	}
}

// Load reads the TOML file at path (skipped when path is empty or missing),
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	// Load .env if present, then env vars on top of the file values.
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Data.Dir, "SWING_DATA_DIR")
	setStr(&cfg.Data.StartDate, "SWING_START_DATE")
	setStr(&cfg.Data.EndDate, "SWING_END_DATE")
	setFloat(&cfg.Backtest.InitialCash, "SWING_INITIAL_CASH")
	setStr(&cfg.Backtest.OutputDir, "SWING_OUTPUT_DIR")
	setStr(&cfg.Backtest.DBPath, "SWING_DB_PATH")
	setFloat(&cfg.Portfolio.InitialCapital, "SWING_PORTFOLIO_CAPITAL")
	setFloat(&cfg.Portfolio.CashFraction, "SWING_CASH_FRACTION")
	setFloat(&cfg.Portfolio.CashAnnualReturn, "SWING_CASH_ANNUAL_RETURN")
	setBool(&cfg.Portfolio.RebalanceYearly, "SWING_REBALANCE_YEARLY")
	setStr(&cfg.LogLevel, "SWING_LOG_LEVEL")
	setStr(&cfg.LogFormat, "SWING_LOG_FORMAT")
}

// Validate checks the configuration, collecting every problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.Data.Dir == "" {
		errs = append(errs, "data.dir must be set")
	}
	if _, err := c.StartDate(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid data.start_date: %v", err))
	}
	if _, err := c.EndDate(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid data.end_date: %v", err))
	}
	if c.Backtest.InitialCash <= 0 {
		errs = append(errs, "backtest.initial_cash must be positive")
	}
	if c.Portfolio.InitialCapital <= 0 {
		errs = append(errs, "portfolio.initial_capital must be positive")
	}
	if c.Portfolio.CashFraction < 0 || c.Portfolio.CashFraction >= 1 {
		errs = append(errs, "portfolio.cash_fraction must be in [0, 1)")
	}
	if c.Portfolio.CashAnnualReturn < -1 {
		errs = append(errs, "portfolio.cash_annual_return must be greater than -1")
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = append(errs, "log_format must be \"text\" or \"json\"")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StartDate parses the configured lower bound; zero time when unset.
func (c *Config) StartDate() (time.Time, error) {
	return parseDate(c.Data.StartDate)
}

// EndDate parses the configured upper bound; zero time when unset.
func (c *Config) EndDate() (time.Time, error) {
	return parseDate(c.Data.EndDate)
}

// Level returns the parsed log level.
func (c *Config) Level() logger.LogLevel {
	return logger.ParseLevel(c.LogLevel)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// --- Env Var Helpers ---

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
