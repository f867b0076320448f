package data

import (
	"sort"

	"caltrack-baseline/internal/model"
)

// Align attaches temperature samples to the meter periods that contain them
// and returns the read-only AlignedSeries the modeling core consumes.
// Samples are matched to [Start, End); samples outside every period are
// dropped. The result is validated so structural problems surface here, at
// the boundary, rather than deep inside the core.
func Align(periods []model.MeterPeriod, temps model.TemperatureSeries) (*model.AlignedSeries, error) {
	if err := temps.Validate(); err != nil {
		return nil, err
	}

	sorted := make([]model.MeterPeriod, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	series := &model.AlignedSeries{
		Periods: make([]model.AlignedPeriod, len(sorted)),
	}

	// Both sides are chronologically ordered, so one pass over the samples
	// suffices.
	ti := 0
	for i, p := range sorted {
		series.Periods[i].MeterPeriod = p
		for ti < len(temps) && temps[ti].Timestamp.Before(p.Start) {
			ti++
		}
		for ti < len(temps) && temps[ti].Timestamp.Before(p.End) {
			series.Periods[i].Temperatures = append(series.Periods[i].Temperatures, temps[ti])
			ti++
		}
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
