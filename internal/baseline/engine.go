package baseline

import (
	"fmt"

	"caltrack-baseline/internal/config"
	"caltrack-baseline/internal/model"
	"caltrack-baseline/internal/modeling"
	"caltrack-baseline/internal/sufficiency"
)

// Engine runs the full baseline pipeline: sufficiency evaluation, the
// candidate sweep, selection, and result assembly.
type Engine struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{cfg: cfg}
}

// Run produces a ModelResult for one aligned series. A series failing
// sufficiency skips the sweep entirely: the verdict already explains the
// failure and fitting disqualified data would only waste work. Structural
// and configuration errors abort the run; nothing partial is returned.
func (e *Engine) Run(series *model.AlignedSeries) (*model.ModelResult, error) {
	if series == nil {
		return nil, fmt.Errorf("series is nil")
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	verdict, err := sufficiency.Evaluate(series, e.cfg.SufficiencyConfig())
	if err != nil {
		return nil, err
	}

	granularity := series.Granularity()
	if !verdict.Pass {
		result := Aggregate(verdict, nil, nil, granularity)
		return &result, nil
	}

	candidates, err := modeling.FitCandidates(series, e.cfg.SweepConfig())
	if err != nil {
		return nil, err
	}

	winner, annotated := modeling.Select(candidates, e.cfg.QualificationConfig(granularity))
	result := Aggregate(verdict, annotated, winner, granularity)
	return &result, nil
}
