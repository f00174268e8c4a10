package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chidi150c/bartest/internal/bars"
)

// IngestCSV reads a generic OHLCV CSV (headers: time|timestamp, open, high,
// low, close, volume — case-insensitive, extra columns ignored), sorts it
// ascending by datetime, and bulk-inserts it into periodStr's table. replace
// selects BulkInsert's overwrite-vs-preserve behavior on conflict.
func (s *SQLiteStore) IngestCSV(symbol, periodStr, csvPath string, replace bool) (int, error) {
	data, err := loadCSV(csvPath, symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: ingest %s: %v", bars.ErrInvalidInput, csvPath, err)
	}
	return s.BulkInsert(symbol, periodStr, data, replace)
}

// LoadCSV reads and sorts a generic OHLCV CSV without touching a database,
// for callers (the backtest CLI) that want to replay a CSV feed directly.
func LoadCSV(csvPath, symbol string) ([]bars.Bar, error) {
	data, err := loadCSV(csvPath, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s: %v", bars.ErrInvalidInput, csvPath, err)
	}
	return data, nil
}

func loadCSV(path, symbol string) ([]bars.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []bars.Bar
	var headers []string
	rowIdx := 0

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rowIdx == 0 {
			headers = rec
			rowIdx++
			continue
		}
		row := map[string]string{}
		for j, h := range headers {
			k := strings.ToLower(strings.TrimSpace(h))
			if j < len(rec) {
				row[k] = strings.TrimSpace(rec[j])
			}
		}
		ts := firstNonEmpty(row, "time", "timestamp", "datetime")
		op := firstNonEmpty(row, "open")
		hp := firstNonEmpty(row, "high")
		lp := firstNonEmpty(row, "low")
		cp := firstNonEmpty(row, "close")
		vp := firstNonEmpty(row, "volume", "vol")
		if ts == "" || op == "" || cp == "" {
			continue
		}
		dt, err := bars.ParseDateTime(ts)
		if err != nil {
			continue
		}
		o, _ := strconv.ParseFloat(op, 64)
		h, _ := strconv.ParseFloat(hp, 64)
		l, _ := strconv.ParseFloat(lp, 64)
		c, _ := strconv.ParseFloat(cp, 64)
		v, _ := strconv.ParseFloat(vp, 64)
		out = append(out, bars.Bar{DateTime: dt, Open: o, High: h, Low: l, Close: c, Volume: v, Symbol: symbol})
		rowIdx++
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func firstNonEmpty(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v
		}
	}
	return ""
}
