package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nla-gaming/revmon/internal/domain"
	"github.com/nla-gaming/revmon/internal/repository"
)

// Handler holds dependencies for API handlers. The repository and cache
// are injected at construction; the current reporting period is
// configuration, never a literal inside a query.
type Handler struct {
	repo     domain.Repository
	cache    domain.Cache
	period   string
	statsTTL time.Duration
	version  string
}

// NewHandler creates a new API handler.
func NewHandler(repo domain.Repository, cache domain.Cache, reporting domain.ReportingConfig, version string) *Handler {
	return &Handler{
		repo:     repo,
		cache:    cache,
		period:   reporting.CurrentPeriod,
		statsTTL: reporting.StatsCacheTTL,
		version:  version,
	}
}

// ListOperators handles GET /operators.
func (h *Handler) ListOperators(w http.ResponseWriter, r *http.Request) {
	operators, err := h.repo.ListOperators(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeList(w, operators, len(operators))
}

// GetOperator handles GET /operators/{id}.
func (h *Handler) GetOperator(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "operator id must be an integer")
		return
	}

	detail, err := h.repo.GetOperator(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Debug("operator not found", "operator_id", id)
		writeError(w, http.StatusNotFound, "Operator not found")
		return
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	writeData(w, detail)
}

// ListReports handles GET /reports with optional operator_id,
// start_date, end_date and has_anomaly filters.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	var filter domain.ReportFilter

	operatorID, ok := optionalInt(w, r, "operator_id")
	if !ok {
		return
	}
	filter.OperatorID = operatorID

	if filter.StartDate, ok = optionalDate(w, r, "start_date"); !ok {
		return
	}
	if filter.EndDate, ok = optionalDate(w, r, "end_date"); !ok {
		return
	}
	filter.AnomalyOnly = r.URL.Query().Get("has_anomaly") == "true"

	reports, err := h.repo.ListReports(r.Context(), filter)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeList(w, reports, len(reports))
}

// GetReport handles GET /reports/{id}.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "report id must be an integer")
		return
	}

	report, err := h.repo.GetReport(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Debug("report not found", "report_id", id)
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	writeData(w, report)
}

// ListAnomalies handles GET /anomalies with optional anomaly_type and
// min_confidence filters. Only flagged reports are ever returned.
func (h *Handler) ListAnomalies(w http.ResponseWriter, r *http.Request) {
	filter := domain.AnomalyFilter{
		AnomalyType: r.URL.Query().Get("anomaly_type"),
	}

	if raw := r.URL.Query().Get("min_confidence"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_confidence must be a number")
			return
		}
		filter.MinConfidence = &min
	}

	anomalies, err := h.repo.ListAnomalies(r.Context(), filter)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeList(w, anomalies, len(anomalies))
}

// ListTransactions handles GET /transactions with optional operator_id,
// suspicious_only and limit parameters. An invalid or missing limit
// falls back to the default cap rather than erroring.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	var filter domain.TransactionFilter

	operatorID, ok := optionalInt(w, r, "operator_id")
	if !ok {
		return
	}
	filter.OperatorID = operatorID
	filter.SuspiciousOnly = r.URL.Query().Get("suspicious_only") == "true"

	filter.Limit = domain.DefaultTransactionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	transactions, err := h.repo.ListTransactions(r.Context(), filter)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeList(w, transactions, len(transactions))
}

// Stats handles GET /stats. The full envelope is cached for a short TTL
// keyed by the reporting period; dashboard reads dominate report writes
// by orders of magnitude.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	cacheKey := "stats:" + h.period

	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), cacheKey); err == nil && cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	stats, err := h.repo.DashboardStats(r.Context(), h.period)
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	body, err := json.Marshal(Envelope{Success: true, Data: stats})
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	if h.cache != nil && h.statsTTL > 0 {
		if err := h.cache.Set(r.Context(), cacheKey, body, h.statsTTL); err != nil {
			slog.Warn("failed to cache stats response", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// AnomalyTypes handles GET /anomaly-types.
func (h *Handler) AnomalyTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.repo.AnomalyTypeSummary(r.Context())
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	writeData(w, types)
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	if h.repo != nil {
		if err := h.repo.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Index handles GET / with a short endpoint listing.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Revenue Monitoring System API",
		"version": h.version,
		"endpoints": map[string]string{
			"operators":     "/operators",
			"reports":       "/reports",
			"anomalies":     "/anomalies",
			"transactions":  "/transactions",
			"stats":         "/stats",
			"anomaly_types": "/anomaly-types",
		},
	})
}

// storeError maps an infrastructure fault to a generic 500 envelope.
// Internal detail (including query text) is logged, never returned.
func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("store query failed",
		"error", err,
		"path", r.URL.Path,
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// optionalInt parses an optional integer query parameter. A malformed
// value writes a 400 envelope and reports ok=false.
func optionalInt(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer")
		return nil, false
	}
	return &n, true
}

// optionalDate validates an optional YYYY-MM-DD query parameter. A
// malformed value writes a 400 envelope and reports ok=false.
func optionalDate(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", true
	}
	if !domain.ValidDate(raw) {
		writeError(w, http.StatusBadRequest, name+" must be a YYYY-MM-DD date")
		return "", false
	}
	return raw, true
}
