package models

import "caltrack-baseline/internal/model"

// ErrorDetail carries a stable machine code plus a human-readable message.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// FitResponse wraps a baseline run. RunID can be used with
// GET /api/v1/baseline/runs/:id to re-read the full result while it remains
// cached.
type FitResponse struct {
	RunID       string                   `json:"run_id"`
	Granularity model.Granularity        `json:"granularity"`
	Sufficiency model.SufficiencyVerdict `json:"sufficiency"`
	Selected    *model.CandidateModel    `json:"selected,omitempty"`
	Candidates  []model.CandidateModel   `json:"candidates,omitempty"`

	// NCandidates is always present even when the candidate table is elided.
	NCandidates int `json:"n_candidates"`
}

// SufficiencyResponse wraps a standalone sufficiency evaluation.
type SufficiencyResponse struct {
	Granularity model.Granularity        `json:"granularity"`
	Verdict     model.SufficiencyVerdict `json:"verdict"`
}

// FormInfo describes one candidate model form for GET /api/v1/baseline/forms.
type FormInfo struct {
	Name        string   `json:"name"`
	Terms       []string `json:"terms"`
	Complexity  int      `json:"complexity"`
	Description string   `json:"description"`
}

type FormsResponse struct {
	Forms []FormInfo `json:"forms"`
}
