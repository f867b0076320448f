package modeling

import (
	"fmt"
	"math"
	"sort"

	"caltrack-baseline/internal/model"
)

// QualificationConfig carries the selection thresholds for one granularity.
type QualificationConfig struct {
	// MinRSquared applies to forms with degree-day terms. Intercept-only is
	// exempt: its R-squared is zero by construction and it exists precisely
	// as the fallback when nothing explains variance.
	MinRSquared float64

	// MaxCVRMSE applies to every candidate.
	MaxCVRMSE float64

	// SignificanceLevel is the two-sided p-value cutoff for degree-day
	// coefficients. Zero or negative disables the check (it is then noted as
	// skipped on each candidate rather than silently dropped).
	SignificanceLevel float64
}

// Select applies the qualification rules to every candidate and picks a
// winner among the survivors. All candidates come back annotated with their
// qualification trail, in the input order, so a nil winner is fully
// explainable. The input slice is not mutated.
func Select(candidates []model.CandidateModel, cfg QualificationConfig) (*model.CandidateModel, []model.CandidateModel) {
	annotated := make([]model.CandidateModel, len(candidates))
	for i, cand := range candidates {
		cand.Qualification = qualify(cand, cfg)
		annotated[i] = cand
	}

	qualified := make([]model.CandidateModel, 0, len(annotated))
	for _, cand := range annotated {
		if cand.Qualification.Passed {
			qualified = append(qualified, cand)
		}
	}
	if len(qualified) == 0 {
		return nil, annotated
	}

	// Rank: most complex qualifying form first, then best fit. Exact ties
	// break on CVRMSE (lower is better), then on combined balance-point
	// magnitude so repeated runs always agree. sort.SliceStable keeps the
	// deterministic sweep order authoritative beyond that.
	sort.SliceStable(qualified, func(i, j int) bool {
		a, b := qualified[i], qualified[j]
		if a.Form.Complexity() != b.Form.Complexity() {
			return a.Form.Complexity() > b.Form.Complexity()
		}
		if a.Statistics.RSquared != b.Statistics.RSquared {
			return a.Statistics.RSquared > b.Statistics.RSquared
		}
		if a.Statistics.CVRMSE != b.Statistics.CVRMSE {
			return a.Statistics.CVRMSE < b.Statistics.CVRMSE
		}
		return a.CombinedBalancePoint() < b.CombinedBalancePoint()
	})

	winner := qualified[0]
	return &winner, annotated
}

// qualify runs every rule and accumulates reasons; a candidate failing one
// rule is still evaluated against the rest for a complete audit trail.
func qualify(cand model.CandidateModel, cfg QualificationConfig) model.Qualification {
	q := model.Qualification{}

	if !cand.Statistics.Defined {
		q.Reasons = append(q.Reasons,
			fmt.Sprintf("insufficient variation: regression degenerate with %d usable periods", cand.Statistics.NPeriods))
		return q
	}

	for _, term := range cand.Form.Terms() {
		if coeff, ok := cand.Coefficients[term]; ok && coeff < 0 {
			q.Reasons = append(q.Reasons,
				fmt.Sprintf("%s coefficient %.4f is negative", term, coeff))
		}
	}

	if len(cand.Form.Terms()) > 0 && cand.Statistics.RSquared < cfg.MinRSquared {
		q.Reasons = append(q.Reasons,
			fmt.Sprintf("r-squared %.4f below minimum %.4f", cand.Statistics.RSquared, cfg.MinRSquared))
	}

	if math.IsNaN(cand.Statistics.CVRMSE) {
		q.Reasons = append(q.Reasons, "cvrmse undefined (mean usage is zero)")
	} else if cand.Statistics.CVRMSE > cfg.MaxCVRMSE {
		q.Reasons = append(q.Reasons,
			fmt.Sprintf("cvrmse %.4f above maximum %.4f", cand.Statistics.CVRMSE, cfg.MaxCVRMSE))
	}

	applySignificance(cand, cfg, &q)

	q.Passed = len(q.Reasons) == 0
	return q
}

func applySignificance(cand model.CandidateModel, cfg QualificationConfig, q *model.Qualification) {
	terms := cand.Form.Terms()
	if len(terms) == 0 {
		return
	}
	if cfg.SignificanceLevel <= 0 {
		q.Notes = append(q.Notes, "significance check skipped: disabled by configuration")
		return
	}
	for _, term := range terms {
		p, ok := cand.PValues[term]
		if !ok || math.IsNaN(p) {
			q.Notes = append(q.Notes,
				fmt.Sprintf("significance check skipped for %s: statistic unavailable", term))
			continue
		}
		if p >= cfg.SignificanceLevel {
			q.Reasons = append(q.Reasons,
				fmt.Sprintf("%s coefficient not distinguishable from zero (p=%.4f, level %.2f)", term, p, cfg.SignificanceLevel))
		}
	}
}
