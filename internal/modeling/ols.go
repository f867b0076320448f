package modeling

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// olsResult holds one ordinary-least-squares solve. coeffs[0] is the
// intercept; the remaining entries follow the regressor column order.
type olsResult struct {
	coeffs   []float64
	pValues  []float64 // per coefficient; NaN when not computable
	rSquared float64
	cvrmse   float64
	mae      float64
	n        int
	dof      int
	defined  bool
}

// fitOLS solves y = Xb by QR decomposition. rows is n, cols includes the
// intercept column. A rank-deficient or near-singular design comes back with
// defined=false instead of an error so one bad candidate cannot abort the
// sweep.
func fitOLS(x *mat.Dense, y []float64) olsResult {
	n, k := x.Dims()
	if n <= k {
		return olsResult{n: n, defined: false}
	}

	yv := mat.NewVecDense(n, y)
	var qr mat.QR
	qr.Factorize(x)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yv); err != nil {
		// Singular or badly conditioned design (e.g. a degree-day column with
		// no variation). Degenerate, not fatal.
		return olsResult{n: n, defined: false}
	}

	coeffs := make([]float64, k)
	for j := 0; j < k; j++ {
		coeffs[j] = beta.AtVec(j)
	}

	// Residual diagnostics.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	sse := 0.0
	sae := 0.0
	meanY := 0.0
	for i := 0; i < n; i++ {
		meanY += y[i]
	}
	meanY /= float64(n)
	tss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		sse += r * r
		sae += math.Abs(r)
		d := y[i] - meanY
		tss += d * d
	}

	res := olsResult{
		coeffs:  coeffs,
		n:       n,
		dof:     n - k,
		mae:     sae / float64(n),
		defined: true,
	}

	if tss > 0 {
		res.rSquared = 1 - sse/tss
	}
	rmse := math.Sqrt(sse / float64(n))
	if meanY != 0 {
		res.cvrmse = rmse / math.Abs(meanY)
	} else {
		res.cvrmse = math.NaN()
	}

	res.pValues = coefficientPValues(x, coeffs, sse, res.dof)
	return res
}

// coefficientPValues computes two-sided p-values from OLS t-statistics.
// Entries are NaN when the statistic is unavailable (no residual degrees of
// freedom or an ill-conditioned normal matrix); a zero coefficient with zero
// standard error maps to p=1 since it is indistinguishable from zero.
func coefficientPValues(x *mat.Dense, coeffs []float64, sse float64, dof int) []float64 {
	k := len(coeffs)
	p := make([]float64, k)
	for j := range p {
		p[j] = math.NaN()
	}
	if dof <= 0 {
		return p
	}
	sigma2 := sse / float64(dof)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return p
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	for j := 0; j < k; j++ {
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		if se <= 0 || math.IsNaN(se) || math.IsInf(se, 0) {
			// Zero residual variance: a zero coefficient is indistinguishable
			// from zero, a nonzero one is exact.
			if math.Abs(coeffs[j]) < 1e-12 {
				p[j] = 1
			} else {
				p[j] = 0
			}
			continue
		}
		t := math.Abs(coeffs[j] / se)
		p[j] = 2 * tDist.Survival(t)
	}
	return p
}
