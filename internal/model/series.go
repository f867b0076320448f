package model

import (
	"fmt"
	"sort"
	"time"
)

// TemperatureSample is one outdoor temperature observation in degrees F.
type TemperatureSample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// TemperatureSeries is an ordered sequence of temperature samples.
// Invariant: strictly increasing timestamps, no duplicates.
type TemperatureSeries []TemperatureSample

func (s TemperatureSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Timestamp.After(s[i-1].Timestamp) {
			return &MalformedInputError{
				Reason: fmt.Sprintf("temperature timestamps not strictly increasing at index %d (%s followed by %s)",
					i, s[i-1].Timestamp.Format(time.RFC3339), s[i].Timestamp.Format(time.RFC3339)),
			}
		}
	}
	return nil
}

// MeterPeriod is one billing or reporting interval.
// Usage is nil when the meter read is missing.
type MeterPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Usage *float64  `json:"usage"`
}

func (p MeterPeriod) DurationDays() float64 {
	return p.End.Sub(p.Start).Hours() / 24
}

// AlignedPeriod pairs a meter period with the temperature samples that fall
// inside [Start, End). Alignment is performed by the data-loading collaborator;
// the modeling core treats it as read-only.
type AlignedPeriod struct {
	MeterPeriod
	Temperatures []TemperatureSample `json:"temperatures"`
}

// AlignedSeries is the input artifact for sufficiency evaluation and model
// fitting. Periods are non-overlapping and chronologically ordered.
type AlignedSeries struct {
	Periods []AlignedPeriod `json:"periods"`
}

// Granularity distinguishes daily from billing-period series. Several
// qualification and sufficiency thresholds differ between the two.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityBilling Granularity = "billing"
)

// Granularity classifies the series by its median period length. Periods of
// up to a day and a half count as daily; anything longer is billing data.
func (s *AlignedSeries) Granularity() Granularity {
	if len(s.Periods) == 0 {
		return GranularityBilling
	}
	lengths := make([]float64, len(s.Periods))
	for i, p := range s.Periods {
		lengths[i] = p.DurationDays()
	}
	sort.Float64s(lengths)
	if lengths[len(lengths)/2] <= 1.5 {
		return GranularityDaily
	}
	return GranularityBilling
}

// Validate checks the structural invariants of the series. Violations are
// programming errors on the caller's side and are reported as
// MalformedInputError, never silently repaired.
func (s *AlignedSeries) Validate() error {
	for i, p := range s.Periods {
		if !p.End.After(p.Start) {
			return &MalformedInputError{
				Reason: fmt.Sprintf("period %d has non-positive length (%s to %s)",
					i, p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339)),
			}
		}
		// Negative usage is a data problem, not a structural one; the
		// sufficiency evaluator reports it.
	}
	for i := 1; i < len(s.Periods); i++ {
		if s.Periods[i].Start.Before(s.Periods[i-1].End) {
			return &MalformedInputError{
				Reason: fmt.Sprintf("periods %d and %d overlap or are out of order", i-1, i),
			}
		}
	}
	for i, p := range s.Periods {
		if err := TemperatureSeries(p.Temperatures).Validate(); err != nil {
			return &MalformedInputError{
				Reason: fmt.Sprintf("period %d: %v", i, err),
			}
		}
		for _, t := range p.Temperatures {
			if t.Timestamp.Before(p.Start) || !t.Timestamp.Before(p.End) {
				return &MalformedInputError{
					Reason: fmt.Sprintf("period %d contains temperature sample outside [start, end) at %s",
						i, t.Timestamp.Format(time.RFC3339)),
				}
			}
		}
	}
	return nil
}
