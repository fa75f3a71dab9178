package api

import (
	"net/http"
	"time"

	"github.com/tranvu/roitrack/internal/baseline"
	"github.com/tranvu/roitrack/internal/period"
	"github.com/tranvu/roitrack/internal/scheduler"
	"github.com/tranvu/roitrack/internal/scheduler/jobs"
	"github.com/tranvu/roitrack/pkg/logger"
)

// StatusHandler serves the read-only status endpoints.
type StatusHandler struct {
	store  *baseline.Store
	sched  *scheduler.Scheduler
	logger *logger.Logger
}

// NewStatusHandler creates the status handler.
func NewStatusHandler(store *baseline.Store, sched *scheduler.Scheduler, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		store:  store,
		sched:  sched,
		logger: log,
	}
}

// baselineView is the API shape of one stored baseline.
type baselineView struct {
	Period     string `json:"period"`
	AnchoredAt string `json:"anchored_at"`
	Equity     string `json:"equity"`
	Balance    string `json:"balance"`
}

// GetBaselines returns the stored per-period baselines in report order.
func (h *StatusHandler) GetBaselines(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Loading baselines failed")
		http.Error(w, "failed to load baselines", http.StatusInternalServerError)
		return
	}

	views := make([]baselineView, 0, len(state))
	for _, k := range period.Keys {
		rec, ok := state[k]
		if !ok {
			continue
		}
		views = append(views, baselineView{
			Period:     string(k),
			AnchoredAt: rec.AnchoredAt.Format(time.RFC3339),
			Equity:     rec.Equity.String(),
			Balance:    rec.Balance.String(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"baselines": views})
}

// GetJobs returns the report job's execution history.
func (h *StatusHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]scheduler.JobResult)
	for _, name := range h.sched.JobNames() {
		history, err := h.sched.History(name)
		if err != nil {
			continue
		}
		out[name] = history
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": out})
}

// TriggerReport kicks off an immediate report run.
func (h *StatusHandler) TriggerReport(w http.ResponseWriter, r *http.Request) {
	if err := h.sched.RunJob(jobs.ReportJobName); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"status": "started"})
}
