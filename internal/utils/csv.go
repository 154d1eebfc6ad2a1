package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"swingtrader/internal/domain"
)

// dateLayout is the on-disk date format for daily bars.
const dateLayout = "2006-01-02"

// ReadBarsFromCSV loads a daily bar series from a CSV file with a
// Date,Open,High,Low,Close,Volume header. Rows outside [start, end] are
// dropped when the bounds are non-zero. The returned series is in file
// order; callers validate ordering via domain.ValidateSeries.
func ReadBarsFromCSV(filename, symbol string, start, end time.Time) ([]*domain.Bar, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", filename, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"Date", "Open", "High", "Low", "Close"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", filename, required)
		}
	}

	var bars []*domain.Bar
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row of %s: %w", filename, err)
		}

		raw := record[col["Date"]]
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			// Some exports carry a full timestamp; take the date part.
			ts, tsErr := time.Parse(time.RFC3339, raw)
			if tsErr != nil {
				return nil, fmt.Errorf("%s: bad date %q: %w", filename, raw, err)
			}
			date = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		}
		if !start.IsZero() && date.Before(start) {
			continue
		}
		if !end.IsZero() && date.After(end) {
			continue
		}

		bar := &domain.Bar{Date: date, Symbol: symbol}
		if bar.Open, err = strconv.ParseFloat(record[col["Open"]], 64); err != nil {
			return nil, fmt.Errorf("%s: bad open at %s: %w", filename, raw, err)
		}
		if bar.High, err = strconv.ParseFloat(record[col["High"]], 64); err != nil {
			return nil, fmt.Errorf("%s: bad high at %s: %w", filename, raw, err)
		}
		if bar.Low, err = strconv.ParseFloat(record[col["Low"]], 64); err != nil {
			return nil, fmt.Errorf("%s: bad low at %s: %w", filename, raw, err)
		}
		if bar.Close, err = strconv.ParseFloat(record[col["Close"]], 64); err != nil {
			return nil, fmt.Errorf("%s: bad close at %s: %w", filename, raw, err)
		}
		if idx, ok := col["Volume"]; ok {
			bar.Volume, _ = strconv.ParseFloat(record[idx], 64)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// WriteTradesToCSV writes a trade log for later inspection.
func WriteTradesToCSV(trades []*domain.Trade, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"symbol", "entry_date", "entry_price", "exit_date", "exit_price", "size", "pnl", "return_pct", "duration_days", "exit_reason"})

	for _, t := range trades {
		writer.Write([]string{
			t.Symbol,
			t.EntryDate.Format(dateLayout),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			t.ExitDate.Format(dateLayout),
			strconv.FormatFloat(t.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(t.Size, 'f', -1, 64),
			strconv.FormatFloat(t.PNL, 'f', -1, 64),
			strconv.FormatFloat(t.ReturnPct, 'f', -1, 64),
			strconv.Itoa(t.Duration),
			string(t.ExitReason),
		})
	}
	return writer.Error()
}
