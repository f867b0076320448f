package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"caltrack-baseline/internal/degreeday"
	"caltrack-baseline/internal/model"
	"caltrack-baseline/internal/modeling"
	"caltrack-baseline/internal/sufficiency"
)

// Config is the on-disk configuration shape (YAML). Every field has a
// documented default; a config file only needs to name what it overrides.
type Config struct {
	// Forms lists the candidate model forms to attempt. The intercept-only
	// fallback is always fitted even when left out here.
	Forms []string `yaml:"forms"`

	// Workers bounds fitting parallelism. 0 or 1 fits serially; results are
	// identical either way.
	Workers int `yaml:"workers"`

	Sweep       SweepSettings       `yaml:"sweep"`
	Sufficiency SufficiencySettings `yaml:"sufficiency"`

	// Qualification thresholds by series granularity.
	Daily   Thresholds `yaml:"daily"`
	Billing Thresholds `yaml:"billing"`
}

// SweepSettings defines the balance-point search grid in degrees F.
type SweepSettings struct {
	CoolingMin  float64 `yaml:"cooling_min"`
	CoolingMax  float64 `yaml:"cooling_max"`
	CoolingStep float64 `yaml:"cooling_step"`
	HeatingMin  float64 `yaml:"heating_min"`
	HeatingMax  float64 `yaml:"heating_max"`
	HeatingStep float64 `yaml:"heating_step"`
}

// SufficiencySettings defines the data-sufficiency thresholds.
type SufficiencySettings struct {
	MaxMissingFraction float64 `yaml:"max_missing_fraction"`
	GapWarnDays        float64 `yaml:"gap_warn_days"`
	GapMaxDays         float64 `yaml:"gap_max_days"`
	MinPeriodsDaily    int     `yaml:"min_periods_daily"`
	MinPeriodsBilling  int     `yaml:"min_periods_billing"`
}

// Thresholds are the granularity-aware qualification cutoffs.
// Set significance_level to -1 to disable the significance check.
type Thresholds struct {
	MinRSquared       float64 `yaml:"min_r_squared"`
	MaxCVRMSE         float64 `yaml:"max_cvrmse"`
	SignificanceLevel float64 `yaml:"significance_level"`
}

// Default returns the documented defaults. The daily minimum period count is
// 90% of a 365-day baseline year; billing requires twelve periods.
func Default() *Config {
	return &Config{
		Forms: []string{
			string(model.FormInterceptOnly),
			string(model.FormCDDOnly),
			string(model.FormHDDOnly),
			string(model.FormCDDHDD),
		},
		Workers: 1,
		Sweep: SweepSettings{
			CoolingMin:  30,
			CoolingMax:  90,
			CoolingStep: 1,
			HeatingMin:  30,
			HeatingMax:  90,
			HeatingStep: 1,
		},
		Sufficiency: SufficiencySettings{
			MaxMissingFraction: 0.10,
			GapWarnDays:        3,
			GapMaxDays:         37,
			MinPeriodsDaily:    328,
			MinPeriodsBilling:  12,
		},
		Daily:   Thresholds{MinRSquared: 0.1, MaxCVRMSE: 1.0, SignificanceLevel: 0.1},
		Billing: Thresholds{MinRSquared: 0.05, MaxCVRMSE: 0.5, SignificanceLevel: 0.1},
	}
}

// Load reads a YAML config, overlays it on the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config without validating it. Useful for
// debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var override Config
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return nil, err
	}
	return Merge(Default(), &override), nil
}

// Merge overlays non-zero fields from override onto base and returns the
// merged copy.
func Merge(base, override *Config) *Config {
	out := *base
	if len(override.Forms) > 0 {
		out.Forms = override.Forms
	}
	if override.Workers != 0 {
		out.Workers = override.Workers
	}
	out.Sweep = mergeSweep(base.Sweep, override.Sweep)
	out.Sufficiency = mergeSufficiency(base.Sufficiency, override.Sufficiency)
	out.Daily = mergeThresholds(base.Daily, override.Daily)
	out.Billing = mergeThresholds(base.Billing, override.Billing)
	return &out
}

func mergeSweep(base, override SweepSettings) SweepSettings {
	out := base
	if override.CoolingMin != 0 {
		out.CoolingMin = override.CoolingMin
	}
	if override.CoolingMax != 0 {
		out.CoolingMax = override.CoolingMax
	}
	if override.CoolingStep != 0 {
		out.CoolingStep = override.CoolingStep
	}
	if override.HeatingMin != 0 {
		out.HeatingMin = override.HeatingMin
	}
	if override.HeatingMax != 0 {
		out.HeatingMax = override.HeatingMax
	}
	if override.HeatingStep != 0 {
		out.HeatingStep = override.HeatingStep
	}
	return out
}

func mergeSufficiency(base, override SufficiencySettings) SufficiencySettings {
	out := base
	if override.MaxMissingFraction != 0 {
		out.MaxMissingFraction = override.MaxMissingFraction
	}
	if override.GapWarnDays != 0 {
		out.GapWarnDays = override.GapWarnDays
	}
	if override.GapMaxDays != 0 {
		out.GapMaxDays = override.GapMaxDays
	}
	if override.MinPeriodsDaily != 0 {
		out.MinPeriodsDaily = override.MinPeriodsDaily
	}
	if override.MinPeriodsBilling != 0 {
		out.MinPeriodsBilling = override.MinPeriodsBilling
	}
	return out
}

func mergeThresholds(base, override Thresholds) Thresholds {
	out := base
	if override.MinRSquared != 0 {
		out.MinRSquared = override.MinRSquared
	}
	if override.MaxCVRMSE != 0 {
		out.MaxCVRMSE = override.MaxCVRMSE
	}
	if override.SignificanceLevel != 0 {
		out.SignificanceLevel = override.SignificanceLevel
	}
	return out
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	for _, f := range c.Forms {
		if !model.ModelForm(f).Valid() {
			return fmt.Errorf("unknown model form %q", f)
		}
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if c.Sweep.CoolingStep <= 0 || c.Sweep.HeatingStep <= 0 {
		return errors.New("sweep steps must be > 0")
	}
	if c.Sweep.CoolingMin > c.Sweep.CoolingMax {
		return errors.New("sweep cooling_min must be <= cooling_max")
	}
	if c.Sweep.HeatingMin > c.Sweep.HeatingMax {
		return errors.New("sweep heating_min must be <= heating_max")
	}
	for _, bp := range []float64{c.Sweep.CoolingMin, c.Sweep.CoolingMax, c.Sweep.HeatingMin, c.Sweep.HeatingMax} {
		if err := degreeday.ValidateBalancePoint(bp); err != nil {
			return err
		}
	}
	if c.Sufficiency.MaxMissingFraction < 0 || c.Sufficiency.MaxMissingFraction > 1 {
		return errors.New("sufficiency max_missing_fraction must be in [0, 1]")
	}
	if c.Sufficiency.GapMaxDays < c.Sufficiency.GapWarnDays {
		return errors.New("sufficiency gap_max_days must be >= gap_warn_days")
	}
	if c.Sufficiency.MinPeriodsDaily < 1 || c.Sufficiency.MinPeriodsBilling < 1 {
		return errors.New("sufficiency minimum period counts must be >= 1")
	}
	return nil
}

// SweepConfig materializes the balance-point grid for the fitter.
func (c *Config) SweepConfig() modeling.SweepConfig {
	forms := make([]model.ModelForm, 0, len(c.Forms))
	for _, f := range c.Forms {
		forms = append(forms, model.ModelForm(f))
	}
	return modeling.SweepConfig{
		Forms:                forms,
		CoolingBalancePoints: gridPoints(c.Sweep.CoolingMin, c.Sweep.CoolingMax, c.Sweep.CoolingStep),
		HeatingBalancePoints: gridPoints(c.Sweep.HeatingMin, c.Sweep.HeatingMax, c.Sweep.HeatingStep),
		Workers:              c.Workers,
	}
}

// SufficiencyConfig adapts the settings for the evaluator.
func (c *Config) SufficiencyConfig() sufficiency.Config {
	return sufficiency.Config{
		MaxMissingFraction:         c.Sufficiency.MaxMissingFraction,
		GapWarnDays:                c.Sufficiency.GapWarnDays,
		GapMaxDays:                 c.Sufficiency.GapMaxDays,
		MinPeriodsDaily:            c.Sufficiency.MinPeriodsDaily,
		MinPeriodsBilling:          c.Sufficiency.MinPeriodsBilling,
		LowestCoolingBalancePoint:  c.Sweep.CoolingMin,
		HighestHeatingBalancePoint: c.Sweep.HeatingMax,
	}
}

// QualificationConfig picks the threshold set for the series granularity.
func (c *Config) QualificationConfig(g model.Granularity) modeling.QualificationConfig {
	t := c.Billing
	if g == model.GranularityDaily {
		t = c.Daily
	}
	return modeling.QualificationConfig{
		MinRSquared:       t.MinRSquared,
		MaxCVRMSE:         t.MaxCVRMSE,
		SignificanceLevel: t.SignificanceLevel,
	}
}

func gridPoints(min, max, step float64) []float64 {
	var pts []float64
	for bp := min; bp <= max+1e-9; bp += step {
		pts = append(pts, bp)
	}
	return pts
}
