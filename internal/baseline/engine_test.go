package baseline

import (
	"math"
	"reflect"
	"testing"
	"time"

	"caltrack-baseline/internal/config"
	"caltrack-baseline/internal/model"
	"caltrack-baseline/internal/sufficiency"
)

// yearOfDailyData builds 365 daily periods with sinusoidal temperatures
// (about 25F to 95F) and usage driven by heating below 60F and cooling above
// 70F, plus a small deterministic wobble.
func yearOfDailyData() *model.AlignedSeries {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &model.AlignedSeries{}
	for d := 0; d < 365; d++ {
		dayStart := start.AddDate(0, 0, d)
		temp := 60 + 35*math.Sin(2*math.Pi*float64(d-105)/365)
		usage := 12.0
		if temp > 70 {
			usage += 1.5 * (temp - 70)
		}
		if temp < 60 {
			usage += 2.0 * (60 - temp)
		}
		usage += 0.4 * math.Sin(float64(d)*1.7)
		u := usage
		s.Periods = append(s.Periods, model.AlignedPeriod{
			MeterPeriod: model.MeterPeriod{Start: dayStart, End: dayStart.AddDate(0, 0, 1), Usage: &u},
			Temperatures: []model.TemperatureSample{
				{Timestamp: dayStart.Add(12 * time.Hour), Value: temp},
			},
		})
	}
	return s
}

// coarseConfig keeps the default thresholds but sweeps in 5-degree steps so
// tests stay quick. The true balance points (70 cooling, 60 heating) sit on
// the grid.
func coarseConfig() *config.Config {
	cfg := config.Default()
	cfg.Sweep.CoolingStep = 5
	cfg.Sweep.HeatingStep = 5
	return cfg
}

func TestYearWithSeasonalSwingSelectsCombinedForm(t *testing.T) {
	result, err := New(coarseConfig()).Run(yearOfDailyData())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.Sufficiency.Pass {
		t.Fatalf("expected sufficiency pass, got %v", result.Sufficiency.Disqualifications)
	}
	if result.Granularity != model.GranularityDaily {
		t.Fatalf("granularity = %v, want daily", result.Granularity)
	}
	if result.Selected == nil {
		t.Fatal("expected a selected model")
	}
	s := result.Selected
	if s.Form != model.FormCDDHDD {
		t.Fatalf("selected form = %v, want cdd_hdd", s.Form)
	}
	if s.Statistics.RSquared <= 0.6 {
		t.Fatalf("r-squared = %v, want > 0.6", s.Statistics.RSquared)
	}
	if s.Coefficients[model.TermCDD] <= 0 || s.Coefficients[model.TermHDD] <= 0 {
		t.Fatalf("expected positive coefficients, got %v", s.Coefficients)
	}
}

func TestThreePeriodBillingSeriesFailsSufficiency(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &model.AlignedSeries{}
	for m := 0; m < 3; m++ {
		u := 300.0
		pStart := start.AddDate(0, m, 0)
		pEnd := start.AddDate(0, m+1, 0)
		p := model.AlignedPeriod{
			MeterPeriod: model.MeterPeriod{Start: pStart, End: pEnd, Usage: &u},
		}
		for d := 0; pStart.AddDate(0, 0, d).Before(pEnd); d++ {
			p.Temperatures = append(p.Temperatures, model.TemperatureSample{
				Timestamp: pStart.AddDate(0, 0, d).Add(12 * time.Hour),
				Value:     40 + float64(d),
			})
		}
		s.Periods = append(s.Periods, p)
	}

	result, err := New(config.Default()).Run(s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Sufficiency.Pass {
		t.Fatal("expected sufficiency failure")
	}
	if result.Selected != nil {
		t.Fatal("selected model must be nil when sufficiency fails")
	}
	found := false
	for _, d := range result.Sufficiency.Disqualifications {
		if d.Code == sufficiency.CodeTooFewPeriods {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s disqualification, got %v",
			sufficiency.CodeTooFewPeriods, result.Sufficiency.Disqualifications)
	}
}

func TestExtremeMissingDataGatesSelection(t *testing.T) {
	series := yearOfDailyData()
	for d := 0; d < len(series.Periods); d += 3 {
		series.Periods[d].Usage = nil // ~33% missing
	}
	result, err := New(coarseConfig()).Run(series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Sufficiency.Pass {
		t.Fatal("expected sufficiency failure")
	}
	if result.Selected != nil {
		t.Fatal("selected model must be nil when sufficiency fails")
	}
	found := false
	for _, d := range result.Sufficiency.Disqualifications {
		if d.Code == sufficiency.CodeExtremeMissingData {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s disqualification, got %v",
			sufficiency.CodeExtremeMissingData, result.Sufficiency.Disqualifications)
	}
}

func TestAggregateEnforcesSufficiencyGate(t *testing.T) {
	winner := &model.CandidateModel{Form: model.FormCDDOnly}
	failed := model.SufficiencyVerdict{
		Pass: false,
		Disqualifications: []model.VerdictEntry{
			{Code: sufficiency.CodeNegativeUsage, Message: "negative usage"},
		},
	}
	result := Aggregate(failed, []model.CandidateModel{*winner}, winner, model.GranularityDaily)
	if result.Selected != nil {
		t.Fatal("aggregate must force the winner to nil on a failed verdict")
	}
	if len(result.Candidates) != 1 {
		t.Fatal("candidates must be preserved for auditability")
	}

	passed := model.SufficiencyVerdict{Pass: true}
	result = Aggregate(passed, []model.CandidateModel{*winner}, winner, model.GranularityDaily)
	if result.Selected == nil {
		t.Fatal("aggregate must keep the winner on a passing verdict")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	series := yearOfDailyData()
	engine := New(coarseConfig())
	first, err := engine.Run(series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := engine.Run(series)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input and config must produce identical results")
	}
}

func TestConstantUsageSelectsInterceptOnly(t *testing.T) {
	series := yearOfDailyData()
	for i := range series.Periods {
		u := 15.0
		series.Periods[i].Usage = &u
	}
	result, err := New(coarseConfig()).Run(series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Selected == nil {
		t.Fatal("expected the intercept-only fallback to be selected")
	}
	if result.Selected.Form != model.FormInterceptOnly {
		t.Fatalf("selected form = %v, want intercept_only", result.Selected.Form)
	}
}
