package models

import (
	"fmt"
	"time"

	"caltrack-baseline/internal/config"
	"caltrack-baseline/internal/model"
)

// FitRequest is the POST /api/v1/baseline/fit payload. Meter and temperature
// series arrive unaligned; the server performs calendar alignment. Config is
// a partial override merged onto the documented defaults.
type FitRequest struct {
	Meter       []MeterPeriodPayload       `json:"meter" binding:"required"`
	Temperature []TemperatureSamplePayload `json:"temperature"`
	Config      *config.Config             `json:"config"`

	// IncludeCandidates controls whether the response carries the full
	// annotated candidate table or just the winner and verdict.
	IncludeCandidates bool `json:"include_candidates"`
}

// SufficiencyRequest is the POST /api/v1/baseline/sufficiency payload.
type SufficiencyRequest struct {
	Meter       []MeterPeriodPayload       `json:"meter" binding:"required"`
	Temperature []TemperatureSamplePayload `json:"temperature"`
	Config      *config.Config             `json:"config"`
}

type MeterPeriodPayload struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
	Usage *float64  `json:"usage"`
}

type TemperatureSamplePayload struct {
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Value     float64   `json:"value"`
}

// ToDomain converts the payload into domain series.
func ToDomain(meter []MeterPeriodPayload, temps []TemperatureSamplePayload) ([]model.MeterPeriod, model.TemperatureSeries, error) {
	if len(meter) == 0 {
		return nil, nil, fmt.Errorf("meter series is empty")
	}
	periods := make([]model.MeterPeriod, len(meter))
	for i, p := range meter {
		periods[i] = model.MeterPeriod{Start: p.Start, End: p.End, Usage: p.Usage}
	}
	series := make(model.TemperatureSeries, len(temps))
	for i, t := range temps {
		series[i] = model.TemperatureSample{Timestamp: t.Timestamp, Value: t.Value}
	}
	return periods, series, nil
}

// ResolveConfig merges a request's partial config onto the defaults and
// validates the result.
func ResolveConfig(override *config.Config) (*config.Config, error) {
	cfg := config.Default()
	if override != nil {
		cfg = config.Merge(cfg, override)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
