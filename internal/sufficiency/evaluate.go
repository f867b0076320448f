package sufficiency

import (
	"fmt"
	"math"

	"caltrack-baseline/internal/model"
)

// Check codes, reported in this fixed order regardless of which checks fire.
const (
	CodeExtremeMissingData    = "extreme_missing_data"
	CodeLargeGap              = "large_gap"
	CodeExtremeGap            = "extreme_gap"
	CodeNegativeUsage         = "negative_usage"
	CodeLimitedCoolingSpread  = "limited_cooling_spread"
	CodeLimitedHeatingSpread  = "limited_heating_spread"
	CodeTooFewPeriods         = "too_few_periods"
	CodeNoTemperatureCoverage = "no_temperature_coverage"
)

// Config carries the sufficiency thresholds. Zero values are not defaulted
// here; internal/config owns the documented defaults.
type Config struct {
	// MaxMissingFraction is the tolerated fraction of periods with missing
	// usage or missing temperature coverage. Exceeding it disqualifies.
	MaxMissingFraction float64

	// GapWarnDays and GapMaxDays bound gaps between consecutive periods.
	// Gaps above GapWarnDays warn; gaps above GapMaxDays disqualify.
	GapWarnDays float64
	GapMaxDays  float64

	// Minimum period counts by granularity. Below the applicable minimum the
	// regression lacks degrees of freedom and the series is disqualified.
	MinPeriodsDaily   int
	MinPeriodsBilling int

	// Sweep bounds used by the extreme-temperature coverage check. A series
	// whose temperatures never cross into the swept range on one side cannot
	// constrain that side's balance-point search.
	LowestCoolingBalancePoint  float64
	HighestHeatingBalancePoint float64
}

// Evaluate runs the fixed battery of sufficiency checks against the series.
// Disqualifications and warnings accumulate; a failed check never aborts the
// rest. Only structural violations of the series invariants return an error.
func Evaluate(series *model.AlignedSeries, cfg Config) (model.SufficiencyVerdict, error) {
	if err := series.Validate(); err != nil {
		return model.SufficiencyVerdict{}, err
	}

	verdict := model.SufficiencyVerdict{
		Criteria: map[string]float64{},
	}

	checkMissingData(series, cfg, &verdict)
	checkContiguity(series, cfg, &verdict)
	checkNegativeUsage(series, &verdict)
	checkTemperatureSpread(series, cfg, &verdict)
	checkPeriodCount(series, cfg, &verdict)

	verdict.Pass = len(verdict.Disqualifications) == 0
	return verdict, nil
}

func checkMissingData(series *model.AlignedSeries, cfg Config, v *model.SufficiencyVerdict) {
	n := len(series.Periods)
	if n == 0 {
		v.Criteria["missing_fraction"] = 1
		v.Disqualifications = append(v.Disqualifications, model.VerdictEntry{
			Code:    CodeExtremeMissingData,
			Message: "series contains no periods",
		})
		return
	}
	missing := 0
	for _, p := range series.Periods {
		if p.Usage == nil || len(p.Temperatures) == 0 {
			missing++
		}
	}
	frac := float64(missing) / float64(n)
	v.Criteria["missing_fraction"] = frac
	if frac > cfg.MaxMissingFraction {
		v.Disqualifications = append(v.Disqualifications, model.VerdictEntry{
			Code: CodeExtremeMissingData,
			Message: fmt.Sprintf("%.1f%% of periods are missing usage or temperature coverage (limit %.1f%%)",
				frac*100, cfg.MaxMissingFraction*100),
		})
	}
}

func checkContiguity(series *model.AlignedSeries, cfg Config, v *model.SufficiencyVerdict) {
	maxGap := 0.0
	for i := 1; i < len(series.Periods); i++ {
		gap := series.Periods[i].Start.Sub(series.Periods[i-1].End).Hours() / 24
		if gap > maxGap {
			maxGap = gap
		}
		if gap > cfg.GapMaxDays {
			v.Disqualifications = append(v.Disqualifications, model.VerdictEntry{
				Code: CodeExtremeGap,
				Message: fmt.Sprintf("gap of %.1f days between periods %d and %d exceeds hard cap of %.0f days",
					gap, i-1, i, cfg.GapMaxDays),
			})
		} else if gap > cfg.GapWarnDays {
			v.Warnings = append(v.Warnings, model.VerdictEntry{
				Code: CodeLargeGap,
				Message: fmt.Sprintf("gap of %.1f days between periods %d and %d exceeds %.0f days",
					gap, i-1, i, cfg.GapWarnDays),
			})
		}
	}
	v.Criteria["max_gap_days"] = maxGap
}

func checkNegativeUsage(series *model.AlignedSeries, v *model.SufficiencyVerdict) {
	negative := 0
	for i, p := range series.Periods {
		if p.Usage != nil && *p.Usage < 0 {
			negative++
			v.Disqualifications = append(v.Disqualifications, model.VerdictEntry{
				Code:    CodeNegativeUsage,
				Message: fmt.Sprintf("period %d has negative usage %.3f", i, *p.Usage),
			})
		}
	}
	v.Criteria["n_negative_usage"] = float64(negative)
}

func checkTemperatureSpread(series *model.AlignedSeries, cfg Config, v *model.SufficiencyVerdict) {
	minTemp := math.Inf(1)
	maxTemp := math.Inf(-1)
	samples := 0
	for _, p := range series.Periods {
		for _, t := range p.Temperatures {
			samples++
			if t.Value < minTemp {
				minTemp = t.Value
			}
			if t.Value > maxTemp {
				maxTemp = t.Value
			}
		}
	}
	if samples == 0 {
		v.Warnings = append(v.Warnings, model.VerdictEntry{
			Code:    CodeNoTemperatureCoverage,
			Message: "series contains no temperature samples; only an intercept-only model is fittable",
		})
		return
	}
	v.Criteria["min_temperature"] = minTemp
	v.Criteria["max_temperature"] = maxTemp

	// Spread problems warn rather than disqualify: intercept-only models
	// remain fittable without balance-point variation.
	if maxTemp <= cfg.LowestCoolingBalancePoint {
		v.Warnings = append(v.Warnings, model.VerdictEntry{
			Code: CodeLimitedCoolingSpread,
			Message: fmt.Sprintf("maximum temperature %.1f never exceeds the lowest cooling balance point %.0f; cooling terms cannot be constrained",
				maxTemp, cfg.LowestCoolingBalancePoint),
		})
	}
	if minTemp >= cfg.HighestHeatingBalancePoint {
		v.Warnings = append(v.Warnings, model.VerdictEntry{
			Code: CodeLimitedHeatingSpread,
			Message: fmt.Sprintf("minimum temperature %.1f never drops below the highest heating balance point %.0f; heating terms cannot be constrained",
				minTemp, cfg.HighestHeatingBalancePoint),
		})
	}
}

func checkPeriodCount(series *model.AlignedSeries, cfg Config, v *model.SufficiencyVerdict) {
	n := len(series.Periods)
	v.Criteria["n_periods"] = float64(n)

	minimum := cfg.MinPeriodsBilling
	if series.Granularity() == model.GranularityDaily {
		minimum = cfg.MinPeriodsDaily
	}
	v.Criteria["min_periods_required"] = float64(minimum)
	if n < minimum {
		v.Disqualifications = append(v.Disqualifications, model.VerdictEntry{
			Code:    CodeTooFewPeriods,
			Message: fmt.Sprintf("series has %d periods but at least %d are required for %s data", n, minimum, series.Granularity()),
		})
	}
}
