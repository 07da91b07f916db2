package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ruteri/go-padnet/padalloc"
	"github.com/ruteri/go-padnet/services"
	"github.com/ruteri/go-padnet/simulation"
)

// SimulationRequest is the JSON body of a simulation run request. Zero-valued
// fields fall back to the standard experiment defaults.
type SimulationRequest struct {
	PadCount   int             `json:"pad_count"`
	Gap        int             `json:"gap"`
	Executions int             `json:"executions"`
	Seed       int64           `json:"seed"`
	Policy     padalloc.Policy `json:"policy"`
	Workers    int             `json:"workers"`
}

// StatusResponse reports the progress of the run currently executing, if any.
type StatusResponse struct {
	Running   bool  `json:"running"`
	Completed int64 `json:"completed"`
	Total     int64 `json:"total"`
}

// SimulationHandler exposes Monte-Carlo runs and their stored results over
// HTTP. Runs execute synchronously within the request; concurrent requests
// queue behind a single in-flight run so progress reporting stays
// unambiguous.
type SimulationHandler struct {
	store services.ResultStore
	log   *slog.Logger

	runMu   sync.Mutex
	statsMu sync.Mutex
	current *simulation.Runner
}

// NewSimulationHandler creates a handler persisting results to the given
// store.
func NewSimulationHandler(store services.ResultStore, log *slog.Logger) *SimulationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SimulationHandler{store: store, log: log}
}

// RegisterRoutes registers the simulation API under /api/v1.
func (h *SimulationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/simulations", h.handleRunSimulation)
	r.Get("/api/v1/simulations", h.handleListSimulations)
	r.Get("/api/v1/status", h.handleStatus)
}

func (h *SimulationHandler) handleRunSimulation(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	runner, err := simulation.NewRunner(cfg, h.log)
	if err != nil {
		if errors.Is(err, padalloc.ErrInvalidConfiguration) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.runMu.Lock()
	defer h.runMu.Unlock()

	h.setCurrent(runner)
	defer h.setCurrent(nil)

	report, err := runner.Run(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for _, record := range services.RecordsFromReport(report) {
		if err := h.store.SaveRecord(r.Context(), record); err != nil {
			h.log.Error("Failed to persist run record", "err", err, "scenario", record.Scenario)
			http.Error(w, "failed to persist results", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (h *SimulationHandler) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListRecords(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*services.RunRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *SimulationHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	var resp StatusResponse
	h.statsMu.Lock()
	if h.current != nil {
		resp.Running = true
		resp.Completed, resp.Total = h.current.Progress()
	}
	h.statsMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *SimulationHandler) setCurrent(runner *simulation.Runner) {
	h.statsMu.Lock()
	h.current = runner
	h.statsMu.Unlock()
}

// toConfig merges the request over the default parameters. Zero means "use
// the default"; negative values are rejected rather than silently replaced.
func (req *SimulationRequest) toConfig() (*simulation.Config, error) {
	for name, v := range map[string]int{
		"pad_count":  req.PadCount,
		"gap":        req.Gap,
		"executions": req.Executions,
		"workers":    req.Workers,
	} {
		if v < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative", padalloc.ErrInvalidConfiguration, name)
		}
	}

	cfg := simulation.DefaultConfig()
	if req.PadCount > 0 {
		cfg.PadCount = req.PadCount
	}
	if req.Gap > 0 {
		cfg.Gap = req.Gap
	}
	if req.Executions > 0 {
		cfg.Executions = req.Executions
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}
	if req.Policy != "" {
		cfg.Policy = req.Policy
	}
	if req.Workers > 0 {
		cfg.Workers = req.Workers
	}
	return cfg, nil
}
