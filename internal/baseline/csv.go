package baseline

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"caltrack-baseline/internal/model"
)

// WriteCandidatesCSV writes the annotated candidate table. This is the
// primary audit artifact: one row per candidate, qualification trail
// included, in the deterministic sweep order.
func WriteCandidatesCSV(path string, candidates []model.CandidateModel) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"form",
		"cooling_balance_point",
		"heating_balance_point",
		"intercept",
		"cdd_coefficient",
		"hdd_coefficient",
		"r_squared",
		"cvrmse",
		"mae",
		"n_periods",
		"defined",
		"qualified",
		"reasons",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, c := range candidates {
		row := []string{
			string(c.Form),
			fmtBalancePoint(c.CoolingBalancePoint),
			fmtBalancePoint(c.HeatingBalancePoint),
			fmtFloat(c.Intercept),
			fmtCoefficient(c, model.TermCDD),
			fmtCoefficient(c, model.TermHDD),
			fmtFloat(c.Statistics.RSquared),
			fmtFloat(c.Statistics.CVRMSE),
			fmtFloat(c.Statistics.MAE),
			strconv.Itoa(c.Statistics.NPeriods),
			strconv.FormatBool(c.Statistics.Defined),
			strconv.FormatBool(c.Qualification.Passed),
			strings.Join(c.Qualification.Reasons, "; "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtBalancePoint(bp *float64) string {
	if bp == nil {
		return ""
	}
	return strconv.FormatFloat(*bp, 'f', 1, 64)
}

func fmtCoefficient(c model.CandidateModel, term string) string {
	v, ok := c.Coefficients[term]
	if !ok {
		return ""
	}
	return fmtFloat(v)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
