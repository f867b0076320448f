package model

// ModelForm identifies which degree-day regressors participate in a
// candidate model. The set is fixed by the CalTRACK specification; do not
// extend it without a specification change.
type ModelForm string

const (
	FormInterceptOnly ModelForm = "intercept_only"
	FormCDDOnly       ModelForm = "cdd_only"
	FormHDDOnly       ModelForm = "hdd_only"
	FormCDDHDD        ModelForm = "cdd_hdd"
)

// Regressor term names, stable across CSV/JSON output.
const (
	TermCDD = "cdd"
	TermHDD = "hdd"
)

// AllForms returns the closed form set in canonical order (simplest first).
// Candidate ordering and the selector's complexity tiers both rely on it.
func AllForms() []ModelForm {
	return []ModelForm{FormInterceptOnly, FormCDDOnly, FormHDDOnly, FormCDDHDD}
}

func (f ModelForm) Valid() bool {
	switch f {
	case FormInterceptOnly, FormCDDOnly, FormHDDOnly, FormCDDHDD:
		return true
	}
	return false
}

// Complexity ranks forms for selection: CDD+HDD outranks the single-term
// forms, which outrank intercept-only. The two single-term forms share a tier.
func (f ModelForm) Complexity() int {
	switch f {
	case FormCDDHDD:
		return 3
	case FormCDDOnly, FormHDDOnly:
		return 2
	default:
		return 1
	}
}

// Terms lists the degree-day regressors active for the form.
func (f ModelForm) Terms() []string {
	switch f {
	case FormCDDOnly:
		return []string{TermCDD}
	case FormHDDOnly:
		return []string{TermHDD}
	case FormCDDHDD:
		return []string{TermCDD, TermHDD}
	default:
		return nil
	}
}

// FitStatistics holds goodness-of-fit metrics for one candidate. Defined is
// false for degenerate regressions (singular design matrix, too few usable
// periods); the numeric fields are meaningless in that case.
type FitStatistics struct {
	RSquared float64 `json:"r_squared"`
	CVRMSE   float64 `json:"cvrmse"`
	MAE      float64 `json:"mae"`
	NPeriods int     `json:"n_periods"`
	Defined  bool    `json:"defined"`
}

// Qualification is the selector's audit trail for one candidate. Reasons
// explains every failed rule; Notes records checks that were skipped rather
// than evaluated (e.g. significance with no residual degrees of freedom).
type Qualification struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
	Notes   []string `json:"notes,omitempty"`
}

// CandidateModel is one fitted regression of a specific form and
// balance-point choice. Instances are immutable after selection; a re-fit
// produces a new value.
type CandidateModel struct {
	Form                ModelForm          `json:"form"`
	CoolingBalancePoint *float64           `json:"cooling_balance_point,omitempty"`
	HeatingBalancePoint *float64           `json:"heating_balance_point,omitempty"`
	Intercept           float64            `json:"intercept"`
	Coefficients        map[string]float64 `json:"coefficients,omitempty"`
	PValues             map[string]float64 `json:"p_values,omitempty"`
	Statistics          FitStatistics      `json:"statistics"`
	Qualification       Qualification      `json:"qualification"`
}

// CombinedBalancePoint sums the candidate's balance points, treating absent
// ones as zero. It is the final, deterministic tie-break in selection.
func (c CandidateModel) CombinedBalancePoint() float64 {
	total := 0.0
	if c.CoolingBalancePoint != nil {
		total += *c.CoolingBalancePoint
	}
	if c.HeatingBalancePoint != nil {
		total += *c.HeatingBalancePoint
	}
	return total
}
