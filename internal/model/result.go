package model

// VerdictEntry is one warning or disqualification raised by a sufficiency
// check. Code is stable for programmatic use; Message is human-readable.
type VerdictEntry struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SufficiencyVerdict is the outcome of the data-sufficiency battery.
// Pass is true iff no disqualifications were produced. Criteria carries the
// computed metric behind each check for auditability.
type SufficiencyVerdict struct {
	Pass              bool               `json:"pass"`
	Warnings          []VerdictEntry     `json:"warnings,omitempty"`
	Disqualifications []VerdictEntry     `json:"disqualifications,omitempty"`
	Criteria          map[string]float64 `json:"criteria,omitempty"`
}

// ModelResult is the terminal artifact of a baseline run. Selected is nil
// when no candidate qualified or the series failed sufficiency; Candidates
// always carries the full annotated sweep so a nil winner is explainable
// per candidate.
type ModelResult struct {
	Selected    *CandidateModel    `json:"selected,omitempty"`
	Candidates  []CandidateModel   `json:"candidates"`
	Sufficiency SufficiencyVerdict `json:"sufficiency"`
	Granularity Granularity        `json:"granularity"`
}
