package modeling

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"caltrack-baseline/internal/degreeday"
	"caltrack-baseline/internal/model"
)

// SweepConfig describes the candidate sweep: which forms to attempt and
// which balance points to trial per degree-day type. Workers bounds the
// fitting parallelism; zero or one means serial.
type SweepConfig struct {
	Forms                []model.ModelForm
	CoolingBalancePoints []float64
	HeatingBalancePoints []float64
	Workers              int
}

// candidateJob is one (form, balance points) combination to fit.
type candidateJob struct {
	form     model.ModelForm
	coolingB *float64
	heatingB *float64
}

// FitCandidates fits every candidate in the sweep and returns them in a
// deterministic order: form (simplest first), then heating balance point
// ascending, then cooling balance point ascending. The order is stable
// regardless of worker count because downstream tie-breaks depend on it.
//
// The intercept-only form is always included as a fallback baseline even
// when absent from cfg.Forms. Balance points are validated up front so a
// bad configuration fails before any fitting work begins.
func FitCandidates(series *model.AlignedSeries, cfg SweepConfig) ([]model.CandidateModel, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	for _, bp := range cfg.CoolingBalancePoints {
		if err := degreeday.ValidateBalancePoint(bp); err != nil {
			return nil, err
		}
	}
	for _, bp := range cfg.HeatingBalancePoints {
		if err := degreeday.ValidateBalancePoint(bp); err != nil {
			return nil, err
		}
	}
	for _, f := range cfg.Forms {
		if !f.Valid() {
			return nil, fmt.Errorf("unknown model form %q", f)
		}
	}

	jobs := buildJobs(cfg)
	cache := newDegreeDayCache(series)

	results := make([]model.CandidateModel, len(jobs))
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	// Each job writes only its own slot, so collection needs no coordination
	// and the output order never depends on scheduling.
	var wg sync.WaitGroup
	jobCh := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				results[idx] = fitCandidate(series, jobs[idx], cache)
			}
		}()
	}
	for i := range jobs {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()

	return results, nil
}

// buildJobs materializes the sweep in canonical order. For the CDD+HDD form
// only physically plausible combinations (cooling balance point >= heating
// balance point) are attempted.
func buildJobs(cfg SweepConfig) []candidateJob {
	requested := map[model.ModelForm]bool{model.FormInterceptOnly: true}
	for _, f := range cfg.Forms {
		requested[f] = true
	}

	var jobs []candidateJob
	for _, form := range model.AllForms() {
		if !requested[form] {
			continue
		}
		switch form {
		case model.FormInterceptOnly:
			jobs = append(jobs, candidateJob{form: form})
		case model.FormCDDOnly:
			for i := range cfg.CoolingBalancePoints {
				bp := cfg.CoolingBalancePoints[i]
				jobs = append(jobs, candidateJob{form: form, coolingB: &bp})
			}
		case model.FormHDDOnly:
			for i := range cfg.HeatingBalancePoints {
				bp := cfg.HeatingBalancePoints[i]
				jobs = append(jobs, candidateJob{form: form, heatingB: &bp})
			}
		case model.FormCDDHDD:
			for i := range cfg.HeatingBalancePoints {
				hbp := cfg.HeatingBalancePoints[i]
				for j := range cfg.CoolingBalancePoints {
					cbp := cfg.CoolingBalancePoints[j]
					if cbp < hbp {
						continue
					}
					jobs = append(jobs, candidateJob{form: form, coolingB: &cbp, heatingB: &hbp})
				}
			}
		}
	}
	return jobs
}

// degreeDayCache memoizes per-period degree-day columns per balance point.
// The CDD+HDD sweep revisits every balance point many times; without the
// cache the Cartesian product recomputes identical columns thousands of
// times.
type degreeDayCache struct {
	mu      sync.Mutex
	series  *model.AlignedSeries
	cooling map[float64]ddColumn
	heating map[float64]ddColumn
}

// ddColumn holds one degree-day regressor column. defined[i] is false when
// period i has no temperature coverage.
type ddColumn struct {
	values  []float64
	defined []bool
}

func newDegreeDayCache(series *model.AlignedSeries) *degreeDayCache {
	return &degreeDayCache{
		series:  series,
		cooling: map[float64]ddColumn{},
		heating: map[float64]ddColumn{},
	}
}

func (c *degreeDayCache) column(bp float64, kind degreeday.Kind) ddColumn {
	c.mu.Lock()
	defer c.mu.Unlock()
	store := c.cooling
	if kind == degreeday.Heating {
		store = c.heating
	}
	if col, ok := store[bp]; ok {
		return col
	}
	col := ddColumn{
		values:  make([]float64, len(c.series.Periods)),
		defined: make([]bool, len(c.series.Periods)),
	}
	for i, p := range c.series.Periods {
		dd, err := degreeday.Compute(p.Temperatures, bp, kind)
		if errors.Is(err, degreeday.ErrUndefined) {
			continue
		}
		// Balance points were validated at sweep setup; any other error here
		// would be a bug, and a zero column is the conservative fallback.
		if err != nil {
			continue
		}
		col.values[i] = dd
		col.defined[i] = true
	}
	store[bp] = col
	return col
}

// fitCandidate builds the regressor matrix for one job and solves it.
// Periods with missing usage or with undefined degree-days for any active
// term are excluded from the regression.
func fitCandidate(series *model.AlignedSeries, job candidateJob, cache *degreeDayCache) model.CandidateModel {
	cand := model.CandidateModel{
		Form:                job.form,
		CoolingBalancePoint: job.coolingB,
		HeatingBalancePoint: job.heatingB,
	}

	var coolCol, heatCol ddColumn
	useCDD := job.coolingB != nil
	useHDD := job.heatingB != nil
	if useCDD {
		coolCol = cache.column(*job.coolingB, degreeday.Cooling)
	}
	if useHDD {
		heatCol = cache.column(*job.heatingB, degreeday.Heating)
	}

	var y []float64
	var cddVals, hddVals []float64
	for i, p := range series.Periods {
		if p.Usage == nil {
			continue
		}
		if useCDD && !coolCol.defined[i] {
			continue
		}
		if useHDD && !heatCol.defined[i] {
			continue
		}
		y = append(y, *p.Usage)
		if useCDD {
			cddVals = append(cddVals, coolCol.values[i])
		}
		if useHDD {
			hddVals = append(hddVals, heatCol.values[i])
		}
	}

	n := len(y)
	k := 1
	if useCDD {
		k++
	}
	if useHDD {
		k++
	}
	if n <= k {
		cand.Statistics = model.FitStatistics{NPeriods: n, Defined: false}
		return cand
	}

	x := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		col := 1
		if useCDD {
			x.Set(i, col, cddVals[i])
			col++
		}
		if useHDD {
			x.Set(i, col, hddVals[i])
		}
	}

	res := fitOLS(x, y)
	cand.Statistics = model.FitStatistics{NPeriods: n, Defined: res.defined}
	if !res.defined {
		return cand
	}

	cand.Intercept = res.coeffs[0]
	cand.Coefficients = map[string]float64{}
	cand.PValues = map[string]float64{}
	col := 1
	if useCDD {
		cand.Coefficients[model.TermCDD] = res.coeffs[col]
		cand.PValues[model.TermCDD] = res.pValues[col]
		col++
	}
	if useHDD {
		cand.Coefficients[model.TermHDD] = res.coeffs[col]
		cand.PValues[model.TermHDD] = res.pValues[col]
	}
	cand.Statistics.RSquared = res.rSquared
	cand.Statistics.CVRMSE = res.cvrmse
	cand.Statistics.MAE = res.mae
	return cand
}
