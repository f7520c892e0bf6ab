// Package api exposes the waterfall over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"SPVWaterfall/internal/model"
	"SPVWaterfall/internal/recorder"
	"SPVWaterfall/internal/scenario"
	"SPVWaterfall/internal/service"
	"SPVWaterfall/internal/waterfall"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 500
	maxBodyBytes     = 64 << 10
)

// AllocateRequest is the JSON body shared by the allocate, sweep and attachment
// endpoints. Omitted rates fall back to the defaults.
type AllocateRequest struct {
	Senior        decimal.Decimal  `json:"senior"`
	Mezzanine     decimal.Decimal  `json:"mezzanine"`
	Equity        decimal.Decimal  `json:"equity"`
	Premiums      decimal.Decimal  `json:"premiums"`
	Losses        decimal.Decimal  `json:"losses"`
	RateSenior    *decimal.Decimal `json:"rate_senior,omitempty"`
	RateMezzanine *decimal.Decimal `json:"rate_mezzanine,omitempty"`
}

// Input converts the request into a waterfall input.
func (r AllocateRequest) Input() model.WaterfallInput {
	rates := model.DefaultRateSchedule()
	if r.RateSenior != nil {
		rates.Senior = *r.RateSenior
	}
	if r.RateMezzanine != nil {
		rates.Mezzanine = *r.RateMezzanine
	}
	return model.WaterfallInput{
		Capital: model.TrancheCapital{Senior: r.Senior, Mezzanine: r.Mezzanine, Equity: r.Equity},
		Outcome: model.MarketOutcome{Premiums: r.Premiums, Losses: r.Losses},
		Rates:   rates,
	}
}

// SweepRequest adds a loss grid to an allocation request.
type SweepRequest struct {
	AllocateRequest
	LossFrom decimal.Decimal `json:"loss_from"`
	LossTo   decimal.Decimal `json:"loss_to"`
	Steps    int             `json:"steps"`
}

// SweepResponse lists one result per grid point.
type SweepResponse struct {
	Points []scenario.SweepPoint `json:"points"`
}

// ScenarioResponse is a preset together with its evaluated result.
type ScenarioResponse struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Input       model.WaterfallInput  `json:"input"`
	Result      model.WaterfallResult `json:"result"`
}

// RunsResponse lists recorded runs, newest first.
type RunsResponse struct {
	Runs []recorder.RunRecord `json:"runs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the waterfall endpoints.
type Handler struct {
	service *service.WaterfallService
}

func NewHandler(svc *service.WaterfallService) *Handler {
	return &Handler{service: svc}
}

func (h *Handler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.service.Run(r.Context(), req.Input(), recorder.SourceAPI)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req SweepRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := req.Input()
	if err := h.service.CheckSweep(in, req.LossFrom, req.LossTo); err != nil {
		writeServiceError(w, err)
		return
	}

	points, err := scenario.LossSweep(in, req.LossFrom, req.LossTo, req.Steps)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SweepResponse{Points: points})
}

func (h *Handler) Attachment(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := req.Input()
	if err := h.service.Check(in); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, waterfall.AttachmentPoints(in.Capital, in.Rates, in.Outcome.Premiums))
}

func (h *Handler) ListScenarios(w http.ResponseWriter, _ *http.Request) {
	presets := scenario.Presets()
	out := make([]ScenarioResponse, 0, len(presets))
	for _, s := range presets {
		out = append(out, evaluate(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	s, err := scenario.Lookup(mux.Vars(r)["name"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluate(s))
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	runs, err := h.service.RecentRuns(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if runs == nil {
		runs = []recorder.RunRecord{}
	}
	writeJSON(w, http.StatusOK, RunsResponse{Runs: runs})
}

func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Presets are fixed and valid, so they bypass the service.
func evaluate(s scenario.Scenario) ScenarioResponse {
	return ScenarioResponse{
		Name:        s.Name,
		Description: s.Description,
		Input:       s.Input,
		Result:      waterfall.Allocate(s.Input),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, waterfall.ErrInvalidInput),
		errors.Is(err, waterfall.ErrOutOfRange),
		errors.Is(err, scenario.ErrInvalidSweep):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scenario.ErrUnknownScenario):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("[ERROR] api: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}
