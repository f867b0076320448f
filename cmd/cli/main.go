package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"caltrack-baseline/internal/baseline"
	"caltrack-baseline/internal/config"
	"caltrack-baseline/internal/data"
	"caltrack-baseline/internal/model"
	"caltrack-baseline/internal/sufficiency"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "fit":
		cmdFit(os.Args[2:])
	case "sufficiency":
		cmdSufficiency(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli fit --meter meter.csv --temps temps.csv [--config config.yaml] [--out results/candidates.csv] [--json-out results/result.json]")
	fmt.Println("  cli sufficiency --meter meter.csv --temps temps.csv [--config config.yaml]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - fit sweeps degree-day candidates and prints the selected baseline model")
	fmt.Println("  - sufficiency only runs the data-sufficiency checks and prints the verdict")
}

func cmdFit(args []string) {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	meterPath := fs.String("meter", "", "Path to meter CSV (start,end,usage)")
	tempsPath := fs.String("temps", "", "Path to temperature CSV (timestamp,value)")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	outPath := fs.String("out", "results/candidates.csv", "Output CSV path for the candidate table")
	jsonOut := fs.String("json-out", "", "Optional path for the full result as JSON")
	_ = fs.Parse(args)

	series, cfg := loadInputs(*meterPath, *tempsPath, *cfgPath)

	result, err := baseline.New(cfg).Run(series)
	if err != nil {
		fatal(err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := baseline.WriteCandidatesCSV(*outPath, result.Candidates); err != nil {
		fatal(err)
	}
	if *jsonOut != "" {
		raw, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fatal(err)
		}
		if err := os.WriteFile(*jsonOut, raw, 0o644); err != nil {
			fatal(err)
		}
	}

	fmt.Printf("Wrote %d candidates to %s\n", len(result.Candidates), *outPath)
	printVerdict(result.Sufficiency)
	if result.Selected == nil {
		fmt.Println("No qualifying model; see the candidate table for per-candidate reasons.")
		return
	}
	s := result.Selected
	fmt.Printf("Selected form=%s", s.Form)
	if s.CoolingBalancePoint != nil {
		fmt.Printf(" cooling_bp=%.0f", *s.CoolingBalancePoint)
	}
	if s.HeatingBalancePoint != nil {
		fmt.Printf(" heating_bp=%.0f", *s.HeatingBalancePoint)
	}
	fmt.Printf("\nIntercept=%.4f", s.Intercept)
	for term, coeff := range s.Coefficients {
		fmt.Printf(" %s=%.4f", term, coeff)
	}
	fmt.Printf("\nR2=%.4f CVRMSE=%.4f MAE=%.4f n=%d\n",
		s.Statistics.RSquared, s.Statistics.CVRMSE, s.Statistics.MAE, s.Statistics.NPeriods)
}

func cmdSufficiency(args []string) {
	fs := flag.NewFlagSet("sufficiency", flag.ExitOnError)
	meterPath := fs.String("meter", "", "Path to meter CSV (start,end,usage)")
	tempsPath := fs.String("temps", "", "Path to temperature CSV (timestamp,value)")
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	_ = fs.Parse(args)

	series, cfg := loadInputs(*meterPath, *tempsPath, *cfgPath)

	verdict, err := sufficiency.Evaluate(series, cfg.SufficiencyConfig())
	if err != nil {
		fatal(err)
	}
	printVerdict(verdict)
	if !verdict.Pass {
		os.Exit(1)
	}
}

func loadInputs(meterPath, tempsPath, cfgPath string) (*model.AlignedSeries, *config.Config) {
	if meterPath == "" || tempsPath == "" {
		fmt.Println("--meter and --temps are required")
		os.Exit(2)
	}

	periods, err := data.ReadMeterCSV(meterPath)
	if err != nil {
		fatal(err)
	}
	temps, err := data.ReadTemperatureCSV(tempsPath)
	if err != nil {
		fatal(err)
	}
	series, err := data.Align(periods, temps)
	if err != nil {
		fatal(err)
	}

	cfg := config.Default()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			fatal(err)
		}
	}
	return series, cfg
}

func printVerdict(v model.SufficiencyVerdict) {
	fmt.Printf("Sufficiency pass=%v (%d warnings, %d disqualifications)\n",
		v.Pass, len(v.Warnings), len(v.Disqualifications))
	for _, w := range v.Warnings {
		fmt.Printf("  warn %s: %s\n", w.Code, w.Message)
	}
	for _, d := range v.Disqualifications {
		fmt.Printf("  fail %s: %s\n", d.Code, d.Message)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
