package sufficiency

import (
	"errors"
	"testing"
	"time"

	"caltrack-baseline/internal/model"
)

func testConfig() Config {
	return Config{
		MaxMissingFraction:         0.10,
		GapWarnDays:                3,
		GapMaxDays:                 37,
		MinPeriodsDaily:            10,
		MinPeriodsBilling:          12,
		LowestCoolingBalancePoint:  30,
		HighestHeatingBalancePoint: 90,
	}
}

// dailySeries builds n contiguous daily periods with usage 10 and a noon
// temperature sample cycling between 40 and 80.
func dailySeries(n int) *model.AlignedSeries {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &model.AlignedSeries{}
	for d := 0; d < n; d++ {
		dayStart := start.AddDate(0, 0, d)
		u := 10.0
		temp := 40.0
		if d%2 == 1 {
			temp = 80
		}
		s.Periods = append(s.Periods, model.AlignedPeriod{
			MeterPeriod: model.MeterPeriod{Start: dayStart, End: dayStart.AddDate(0, 0, 1), Usage: &u},
			Temperatures: []model.TemperatureSample{
				{Timestamp: dayStart.Add(12 * time.Hour), Value: temp},
			},
		})
	}
	return s
}

func hasCode(entries []model.VerdictEntry, code string) bool {
	for _, e := range entries {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestCleanSeriesPasses(t *testing.T) {
	v, err := Evaluate(dailySeries(30), testConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Pass {
		t.Fatalf("expected pass, got disqualifications %v", v.Disqualifications)
	}
	if len(v.Disqualifications) != 0 || len(v.Warnings) != 0 {
		t.Fatalf("expected clean verdict, got warnings=%v disq=%v", v.Warnings, v.Disqualifications)
	}
	for _, key := range []string{"missing_fraction", "max_gap_days", "n_periods", "min_temperature", "max_temperature"} {
		if _, ok := v.Criteria[key]; !ok {
			t.Fatalf("criteria missing %q: %v", key, v.Criteria)
		}
	}
}

func TestTooFewPeriodsDisqualifies(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &model.AlignedSeries{}
	for m := 0; m < 3; m++ {
		u := 100.0
		pStart := start.AddDate(0, m, 0)
		pEnd := start.AddDate(0, m+1, 0)
		s.Periods = append(s.Periods, model.AlignedPeriod{
			MeterPeriod: model.MeterPeriod{Start: pStart, End: pEnd, Usage: &u},
			Temperatures: []model.TemperatureSample{
				{Timestamp: pStart.Add(12 * time.Hour), Value: 55},
			},
		})
	}
	v, err := Evaluate(s, testConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Pass {
		t.Fatal("expected fail")
	}
	if !hasCode(v.Disqualifications, CodeTooFewPeriods) {
		t.Fatalf("expected %s, got %v", CodeTooFewPeriods, v.Disqualifications)
	}
}

func TestExtremeMissingDataDisqualifies(t *testing.T) {
	s := dailySeries(20)
	// Blank out 30% of the usage values; everything else stays healthy.
	for d := 0; d < 6; d++ {
		s.Periods[d*3].Usage = nil
	}
	v, err := Evaluate(s, testConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !hasCode(v.Disqualifications, CodeExtremeMissingData) {
		t.Fatalf("expected %s, got %v", CodeExtremeMissingData, v.Disqualifications)
	}
	if frac := v.Criteria["missing_fraction"]; frac != 0.3 {
		t.Fatalf("missing_fraction = %v, want 0.3", frac)
	}
	if hasCode(v.Disqualifications, CodeTooFewPeriods) || hasCode(v.Disqualifications, CodeNegativeUsage) {
		t.Fatalf("unrelated checks fired: %v", v.Disqualifications)
	}
}

func TestNegativeUsageDisqualifies(t *testing.T) {
	s := dailySeries(15)
	bad := -5.0
	s.Periods[7].Usage = &bad
	v, err := Evaluate(s, testConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if v.Pass {
		t.Fatal("expected fail")
	}
	if !hasCode(v.Disqualifications, CodeNegativeUsage) {
		t.Fatalf("expected %s, got %v", CodeNegativeUsage, v.Disqualifications)
	}
}

func TestGapWarningAndHardCap(t *testing.T) {
	shift := func(s *model.AlignedSeries, from int, days int) {
		for i := from; i < len(s.Periods); i++ {
			p := &s.Periods[i]
			p.Start = p.Start.AddDate(0, 0, days)
			p.End = p.End.AddDate(0, 0, days)
			for j := range p.Temperatures {
				p.Temperatures[j].Timestamp = p.Temperatures[j].Timestamp.AddDate(0, 0, days)
			}
		}
	}

	warned := dailySeries(20)
	shift(warned, 10, 5)
	v, err := Evaluate(warned, testConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Pass {
		t.Fatalf("a 5-day gap should only warn, got %v", v.Disqualifications)
	}
	if !hasCode(v.Warnings, CodeLargeGap) {
		t.Fatalf("expected %s warning, got %v", CodeLargeGap, v.Warnings)
	}

	broken := dailySeries(20)
	shift(broken, 10, 60)
	v, err = Evaluate(broken, testConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !hasCode(v.Disqualifications, CodeExtremeGap) {
		t.Fatalf("expected %s, got %v", CodeExtremeGap, v.Disqualifications)
	}
}

func TestLimitedTemperatureSpreadWarns(t *testing.T) {
	cold := dailySeries(15)
	for i := range cold.Periods {
		cold.Periods[i].Temperatures[0].Value = 25
	}
	v, err := Evaluate(cold, testConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !v.Pass {
		t.Fatalf("spread problems must not disqualify, got %v", v.Disqualifications)
	}
	if !hasCode(v.Warnings, CodeLimitedCoolingSpread) {
		t.Fatalf("expected %s warning, got %v", CodeLimitedCoolingSpread, v.Warnings)
	}

	hot := dailySeries(15)
	for i := range hot.Periods {
		hot.Periods[i].Temperatures[0].Value = 95
	}
	v, err = Evaluate(hot, testConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !hasCode(v.Warnings, CodeLimitedHeatingSpread) {
		t.Fatalf("expected %s warning, got %v", CodeLimitedHeatingSpread, v.Warnings)
	}
}

func TestMalformedInputIsAnError(t *testing.T) {
	s := dailySeries(5)
	s.Periods[1].Start = s.Periods[0].Start // overlap
	_, err := Evaluate(s, testConfig())
	var malformed *model.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
}
