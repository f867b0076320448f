package model

import "fmt"

// MalformedInputError reports a structural violation of AlignedSeries
// invariants (unordered periods, negative-length interval, misattributed
// temperature samples). It always aborts the whole operation.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return "malformed input: " + e.Reason
}

// InvalidBalancePointError reports a configured balance point outside the
// sane range. It is surfaced at sweep setup, before any fitting work begins.
type InvalidBalancePointError struct {
	BalancePoint float64
	Min, Max     float64
}

func (e *InvalidBalancePointError) Error() string {
	return fmt.Sprintf("invalid balance point %.1f: must be within [%.0f, %.0f]",
		e.BalancePoint, e.Min, e.Max)
}
