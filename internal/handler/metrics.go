package handler

import (
	"fmt"
	"net/http"

	"github.com/checkmark/checkmark/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "checkmark_users_registered_total %d\n", snap.UsersRegistered)

	writeMetric(w, "checkmark_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "checkmark_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)

	writeMetric(w, "checkmark_auth_rejected_total{reason=\"missing_token\"} %d\n", snap.AuthMissingToken)
	writeMetric(w, "checkmark_auth_rejected_total{reason=\"expired\"} %d\n", snap.AuthExpiredToken)
	writeMetric(w, "checkmark_auth_rejected_total{reason=\"invalid_token\"} %d\n", snap.AuthInvalidToken)

	writeMetric(w, "checkmark_todos_created_total %d\n", snap.TodosCreated)
	writeMetric(w, "checkmark_todos_updated_total %d\n", snap.TodosUpdated)
	writeMetric(w, "checkmark_todos_deleted_total %d\n", snap.TodosDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
