package baseline

import "caltrack-baseline/internal/model"

// Aggregate assembles the terminal ModelResult. This is the single place the
// sufficiency gate is enforced: a failed verdict forces the winner to nil no
// matter what the fitter and selector produced, so callers wiring the
// components by hand cannot bypass the gate.
func Aggregate(verdict model.SufficiencyVerdict, candidates []model.CandidateModel, winner *model.CandidateModel, granularity model.Granularity) model.ModelResult {
	if !verdict.Pass {
		winner = nil
	}
	return model.ModelResult{
		Selected:    winner,
		Candidates:  candidates,
		Sufficiency: verdict,
		Granularity: granularity,
	}
}
