package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"caltrack-baseline/internal/api/models"
	"caltrack-baseline/internal/baseline"
	"caltrack-baseline/internal/data"
	"caltrack-baseline/internal/metrics"
	"caltrack-baseline/internal/model"
	"caltrack-baseline/internal/sufficiency"
)

// BaselineHandler serves model-fitting and sufficiency requests.
type BaselineHandler struct {
	runs      *data.RunCache
	collector *metrics.Collector
}

func NewBaselineHandler(runs *data.RunCache, collector *metrics.Collector) *BaselineHandler {
	return &BaselineHandler{runs: runs, collector: collector}
}

// Fit handles POST /api/v1/baseline/fit.
func (h *BaselineHandler) Fit(c *gin.Context) {
	var req models.FitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	cfg, err := models.ResolveConfig(req.Config)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}

	series, ok := h.alignRequest(c, req.Meter, req.Temperature)
	if !ok {
		return
	}

	start := time.Now()
	result, err := baseline.New(cfg).Run(series)
	if err != nil {
		h.collector.RunsTotal.WithLabelValues("error").Inc()
		var malformed *model.MalformedInputError
		var badBP *model.InvalidBalancePointError
		switch {
		case errors.As(err, &malformed):
			respondError(c, http.StatusBadRequest, "MALFORMED_INPUT", err)
		case errors.As(err, &badBP):
			respondError(c, http.StatusBadRequest, "INVALID_BALANCE_POINT", err)
		default:
			respondError(c, http.StatusInternalServerError, "FIT_ERROR", err)
		}
		return
	}
	h.observeRun(result, time.Since(start))

	runID := uuid.NewString()
	h.runs.Set(runID, result)

	resp := models.FitResponse{
		RunID:       runID,
		Granularity: result.Granularity,
		Sufficiency: result.Sufficiency,
		Selected:    result.Selected,
		NCandidates: len(result.Candidates),
	}
	if req.IncludeCandidates {
		resp.Candidates = result.Candidates
	}
	c.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/v1/baseline/runs/:id, serving the full cached
// result including the candidate table.
func (h *BaselineHandler) GetRun(c *gin.Context) {
	id := c.Param("id")
	result, ok := h.runs.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RUN_NOT_FOUND",
				Message: "run is unknown or has expired from the cache",
			},
		})
		return
	}
	c.JSON(http.StatusOK, models.FitResponse{
		RunID:       id,
		Granularity: result.Granularity,
		Sufficiency: result.Sufficiency,
		Selected:    result.Selected,
		Candidates:  result.Candidates,
		NCandidates: len(result.Candidates),
	})
}

// Sufficiency handles POST /api/v1/baseline/sufficiency, running only the
// data-sufficiency battery.
func (h *BaselineHandler) Sufficiency(c *gin.Context) {
	var req models.SufficiencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}

	cfg, err := models.ResolveConfig(req.Config)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_CONFIG", err)
		return
	}

	series, ok := h.alignRequest(c, req.Meter, req.Temperature)
	if !ok {
		return
	}

	verdict, err := sufficiency.Evaluate(series, cfg.SufficiencyConfig())
	if err != nil {
		respondError(c, http.StatusBadRequest, "MALFORMED_INPUT", err)
		return
	}
	for _, d := range verdict.Disqualifications {
		h.collector.SufficiencyFailures.WithLabelValues(d.Code).Inc()
	}

	c.JSON(http.StatusOK, models.SufficiencyResponse{
		Granularity: series.Granularity(),
		Verdict:     verdict,
	})
}

func (h *BaselineHandler) alignRequest(c *gin.Context, meter []models.MeterPeriodPayload, temps []models.TemperatureSamplePayload) (*model.AlignedSeries, bool) {
	periods, series, err := models.ToDomain(meter, temps)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return nil, false
	}
	aligned, err := data.Align(periods, series)
	if err != nil {
		respondError(c, http.StatusBadRequest, "MALFORMED_INPUT", err)
		return nil, false
	}
	return aligned, true
}

func (h *BaselineHandler) observeRun(result *model.ModelResult, elapsed time.Duration) {
	h.collector.RunDuration.Observe(elapsed.Seconds())
	h.collector.CandidatesPerRun.Observe(float64(len(result.Candidates)))
	for _, d := range result.Sufficiency.Disqualifications {
		h.collector.SufficiencyFailures.WithLabelValues(d.Code).Inc()
	}
	switch {
	case !result.Sufficiency.Pass:
		h.collector.RunsTotal.WithLabelValues("insufficient_data").Inc()
	case result.Selected == nil:
		h.collector.RunsTotal.WithLabelValues("no_qualifying_model").Inc()
	default:
		h.collector.RunsTotal.WithLabelValues("selected").Inc()
		h.collector.SelectedForm.WithLabelValues(string(result.Selected.Form)).Inc()
	}
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}
