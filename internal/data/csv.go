package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"caltrack-baseline/internal/model"
)

// ReadMeterCSV parses a meter-period file with columns start, end, usage.
// Timestamps accept RFC3339 or plain dates; a blank usage field marks a
// missing read (kept, not dropped; sufficiency counts it).
func ReadMeterCSV(path string) ([]model.MeterPeriod, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseMeterCSV(f)
}

func parseMeterCSV(r io.Reader) ([]model.MeterPeriod, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("meter CSV is empty")
	}

	var periods []model.MeterPeriod
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("meter CSV row %d: expected start,end,usage, got %d fields", i+1, len(row))
		}
		start, err := parseTimestamp(row[0])
		if err != nil {
			return nil, fmt.Errorf("meter CSV row %d start: %w", i+1, err)
		}
		end, err := parseTimestamp(row[1])
		if err != nil {
			return nil, fmt.Errorf("meter CSV row %d end: %w", i+1, err)
		}
		p := model.MeterPeriod{Start: start, End: end}
		if s := strings.TrimSpace(row[2]); s != "" {
			usage, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("meter CSV row %d usage: %w", i+1, err)
			}
			p.Usage = &usage
		}
		periods = append(periods, p)
	}
	return periods, nil
}

// ReadTemperatureCSV parses a temperature file with columns timestamp, value
// (degrees F).
func ReadTemperatureCSV(path string) (model.TemperatureSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseTemperatureCSV(f)
}

func parseTemperatureCSV(r io.Reader) (model.TemperatureSeries, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("temperature CSV is empty")
	}

	var series model.TemperatureSeries
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("temperature CSV row %d: expected timestamp,value, got %d fields", i+1, len(row))
		}
		ts, err := parseTimestamp(row[0])
		if err != nil {
			return nil, fmt.Errorf("temperature CSV row %d timestamp: %w", i+1, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("temperature CSV row %d value: %w", i+1, err)
		}
		series = append(series, model.TemperatureSample{Timestamp: ts, Value: value})
	}
	return series, nil
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, err := parseTimestamp(row[0])
	return err != nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
