package degreeday

import (
	"errors"
	"fmt"

	"caltrack-baseline/internal/model"
)

// Balance points outside this range are rejected; the CalTRACK sweep never
// goes beyond it and values outside it indicate a configuration mistake.
const (
	MinBalancePoint = 30.0
	MaxBalancePoint = 90.0
)

// Kind selects which side of the balance point accumulates demand.
type Kind string

const (
	Cooling Kind = "cooling"
	Heating Kind = "heating"
)

// ErrUndefined signals a period with no temperature coverage. Degree-days for
// such a period are undefined, not zero; treating them as zero would silently
// bias a fit toward its intercept.
var ErrUndefined = errors.New("degree days undefined: period has no temperature samples")

// ValidateBalancePoint rejects balance points outside [MinBalancePoint,
// MaxBalancePoint]. Sweep setup calls this before any fitting work begins.
func ValidateBalancePoint(bp float64) error {
	if bp < MinBalancePoint || bp > MaxBalancePoint {
		return &model.InvalidBalancePointError{
			BalancePoint: bp,
			Min:          MinBalancePoint,
			Max:          MaxBalancePoint,
		}
	}
	return nil
}

// Compute returns total degree-days over one period's temperature samples.
// Samples are grouped into UTC calendar days and averaged first, so sub-daily
// and daily series both yield per-period totals on the same scale.
func Compute(samples []model.TemperatureSample, balancePoint float64, kind Kind) (float64, error) {
	if err := ValidateBalancePoint(balancePoint); err != nil {
		return 0, err
	}
	if kind != Cooling && kind != Heating {
		return 0, fmt.Errorf("unknown degree day kind %q", kind)
	}
	if len(samples) == 0 {
		return 0, ErrUndefined
	}

	type dayAccum struct {
		sum   float64
		count int
	}
	days := map[string]*dayAccum{}
	order := make([]string, 0, len(samples))
	for _, s := range samples {
		day := s.Timestamp.UTC().Format("2006-01-02")
		acc, ok := days[day]
		if !ok {
			acc = &dayAccum{}
			days[day] = acc
			order = append(order, day)
		}
		acc.sum += s.Value
		acc.count++
	}

	total := 0.0
	for _, day := range order {
		acc := days[day]
		mean := acc.sum / float64(acc.count)
		switch kind {
		case Cooling:
			if mean > balancePoint {
				total += mean - balancePoint
			}
		case Heating:
			if mean < balancePoint {
				total += balancePoint - mean
			}
		}
	}
	return total, nil
}
