// Package report renders backtest and portfolio results as Markdown for
// human review. Numeric rounding happens only here, never inside the
// simulation.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"swingtrader/internal/portfolio"
	"swingtrader/internal/strategy/analytics"
)

// unavailable is rendered for metrics that could not be computed.
const unavailable = "N/A"

// RunSummary pairs one asset/strategy run with its computed summary.
type RunSummary struct {
	Asset    string
	Strategy string
	Summary  analytics.Summary
}

// WriteBacktestReport writes per-run summaries as a Markdown table.
func WriteBacktestReport(path string, runs []RunSummary, generated time.Time) error {
	var sb strings.Builder
	sb.WriteString("# Backtest Results\n\n")
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", generated.Format("2006-01-02")))
	sb.WriteString("| Asset | Strategy | Trades | Final Equity [$] | Return [%] | Win Rate [%] | Best Trade [%] | Worst Trade [%] | Avg Trade [%] | Sharpe |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")

	for _, r := range runs {
		s := r.Summary
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.2f | %.1f | %s | %s | %s | %s | %s |\n",
			r.Asset, r.Strategy, s.TradeCount, s.FinalEquity, s.ReturnPct,
			fmtOpt(s.WinRate, "%.1f"),
			fmtOpt(s.BestTradePct, "%.1f"),
			fmtOpt(s.WorstTradePct, "%.1f"),
			fmtOpt(s.AvgTradePct, "%.1f"),
			fmtOpt(s.SharpeRatio, "%.2f"),
		))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// WritePortfolioReport writes portfolio-level metrics as a Markdown table,
// benchmarks first, then strategies ordered by final value descending.
func WritePortfolioReport(path string, res *portfolio.Result, assets []string, generated time.Time) error {
	var sb strings.Builder
	sb.WriteString("# Portfolio Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("**Analysis Date:** %s\n\n", generated.Format("2006-01-02")))
	if len(res.Calendar) > 0 {
		sb.WriteString(fmt.Sprintf("**Data Span:** %s to %s\n\n",
			res.Calendar[0].Format("2006-01-02"),
			res.Calendar[len(res.Calendar)-1].Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("**Portfolio Assets:** %s\n\n", strings.Join(assets, ", ")))
	sb.WriteString("| Strategy | Final Value [$] | CAGR [%] | Max Drawdown [%] |\n")
	sb.WriteString("|---|---|---|---|\n")

	for _, name := range orderedNames(res) {
		m := res.Metrics[name]
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f |\n",
			name, m.FinalValue, m.CAGR*100, m.MaxDrawdown*100))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// orderedNames puts the benchmarks first and sorts the remaining strategies
// by final value descending.
func orderedNames(res *portfolio.Result) []string {
	var names []string
	for name := range res.Metrics {
		if name != portfolio.BenchmarkBuyAndHold && name != portfolio.BenchmarkCashBuyAndHold {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return res.Metrics[names[i]].FinalValue > res.Metrics[names[j]].FinalValue
	})

	ordered := make([]string, 0, len(names)+2)
	for _, bench := range []string{portfolio.BenchmarkBuyAndHold, portfolio.BenchmarkCashBuyAndHold} {
		if _, ok := res.Metrics[bench]; ok {
			ordered = append(ordered, bench)
		}
	}
	return append(ordered, names...)
}

func fmtOpt(v *float64, format string) string {
	if v == nil {
		return unavailable
	}
	return fmt.Sprintf(format, *v)
}
