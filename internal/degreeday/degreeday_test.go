package degreeday

import (
	"errors"
	"testing"
	"time"

	"caltrack-baseline/internal/model"
)

func samplesAt(values ...float64) []model.TemperatureSample {
	start := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	out := make([]model.TemperatureSample, len(values))
	for i, v := range values {
		out[i] = model.TemperatureSample{Timestamp: start.AddDate(0, 0, i), Value: v}
	}
	return out
}

func TestComputeCooling(t *testing.T) {
	dd, err := Compute(samplesAt(70, 80, 60), 65, Cooling)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 5 + 15 + 0
	if dd != 20 {
		t.Fatalf("cooling degree days = %v, want 20", dd)
	}
}

func TestComputeHeating(t *testing.T) {
	dd, err := Compute(samplesAt(50, 62, 70), 60, Heating)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// 10 + 0 + 0
	if dd != 10 {
		t.Fatalf("heating degree days = %v, want 10", dd)
	}
}

func TestDailyMeanGrouping(t *testing.T) {
	day := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := []model.TemperatureSample{
		{Timestamp: day.Add(6 * time.Hour), Value: 70},
		{Timestamp: day.Add(18 * time.Hour), Value: 80},
	}
	dd, err := Compute(samples, 70, Cooling)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	// Daily mean is 75, not two separate exceedances.
	if dd != 5 {
		t.Fatalf("cooling degree days = %v, want 5", dd)
	}
}

func TestMonotonicityInBalancePoint(t *testing.T) {
	samples := samplesAt(35, 48, 55, 61, 67, 72, 78, 84, 89)
	prev := -1.0
	for bp := 90.0; bp >= 30; bp-- {
		dd, err := Compute(samples, bp, Cooling)
		if err != nil {
			t.Fatalf("compute at %v: %v", bp, err)
		}
		if prev >= 0 && dd < prev {
			t.Fatalf("CDD not monotone: %v at bp %v is below %v at bp %v", dd, bp, prev, bp+1)
		}
		prev = dd
	}

	prev = -1.0
	for bp := 30.0; bp <= 90; bp++ {
		dd, err := Compute(samples, bp, Heating)
		if err != nil {
			t.Fatalf("compute at %v: %v", bp, err)
		}
		if prev >= 0 && dd < prev {
			t.Fatalf("HDD not monotone: %v at bp %v is below %v at bp %v", dd, bp, prev, bp-1)
		}
		prev = dd
	}
}

func TestEmptyPeriodIsUndefined(t *testing.T) {
	_, err := Compute(nil, 65, Cooling)
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
}

func TestInvalidBalancePoint(t *testing.T) {
	for _, bp := range []float64{20, 95, -10} {
		_, err := Compute(samplesAt(70), bp, Cooling)
		var invalid *model.InvalidBalancePointError
		if !errors.As(err, &invalid) {
			t.Fatalf("bp %v: expected InvalidBalancePointError, got %v", bp, err)
		}
	}
	if err := ValidateBalancePoint(30); err != nil {
		t.Fatalf("bp 30 should be valid, got %v", err)
	}
	if err := ValidateBalancePoint(90); err != nil {
		t.Fatalf("bp 90 should be valid, got %v", err)
	}
}

func TestUnknownKind(t *testing.T) {
	if _, err := Compute(samplesAt(70), 65, Kind("tepid")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
