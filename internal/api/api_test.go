package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/nla-gaming/revmon/internal/cache"
	"github.com/nla-gaming/revmon/internal/domain"
	"github.com/nla-gaming/revmon/internal/repository"
	"github.com/nla-gaming/revmon/internal/seed"
)

const testPeriod = "2024-12-01"

func newTestServer(t *testing.T, mutate func(*domain.Config)) *Server {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "revmon-api-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpPath) })

	cfg := domain.DefaultConfig()
	cfg.Repository.SQLitePath = tmpPath
	cfg.Reporting.CurrentPeriod = testPeriod
	cfg.RateLimit.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	repo, err := repository.New(cfg.Repository)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	if err := seed.Apply(context.Background(), repo, testPeriod); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return NewServer(cfg, repo, c, "test")
}

func doRequest(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON from %s: %v", path, err)
	}
	return rec, env
}

func TestAPI(t *testing.T) {
	srv := newTestServer(t, nil)

	t.Run("Index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body["message"] != "Revenue Monitoring System API" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})

	t.Run("Health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body["status"] != "healthy" {
			t.Errorf("expected healthy, got %s", body["status"])
		}
	})

	t.Run("ListOperators", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/operators")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !env.Success {
			t.Error("expected success envelope")
		}
		if env.Count == nil || *env.Count != 6 {
			t.Errorf("expected count 6, got %v", env.Count)
		}
	})

	t.Run("GetOperatorDetail", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/operators/5")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		raw, _ := json.Marshal(env.Data)
		var detail domain.OperatorDetail
		if err := json.Unmarshal(raw, &detail); err != nil {
			t.Fatalf("invalid detail payload: %v", err)
		}
		if detail.Name != "Galaxy Gaming" {
			t.Errorf("expected Galaxy Gaming, got %s", detail.Name)
		}
		// Reporting stopped at suspension, so only three reports exist.
		if len(detail.RecentReports) != 3 {
			t.Errorf("expected 3 recent reports, got %d", len(detail.RecentReports))
		}
	})

	t.Run("GetOperatorNotFound", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/operators/999")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if env.Success || env.Error != "Operator not found" {
			t.Errorf("unexpected envelope: %+v", env)
		}
	})

	t.Run("GetOperatorBadID", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/operators/abc")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if env.Success {
			t.Error("expected failure envelope")
		}
	})

	t.Run("ListReportsFiltered", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/reports?has_anomaly=true")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if env.Count == nil || *env.Count != 8 {
			t.Errorf("expected count 8, got %v", env.Count)
		}
	})

	t.Run("ListReportsBadOperatorID", func(t *testing.T) {
		rec, _ := doRequest(t, srv, "/reports?operator_id=abc")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("ListReportsBadDate", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/reports?start_date=last-tuesday")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if env.Error == "" {
			t.Error("expected error message")
		}
	})

	t.Run("GetReportNotFound", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/reports/99999")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if env.Error != "Report not found" {
			t.Errorf("unexpected error: %s", env.Error)
		}
	})

	t.Run("AnomaliesMinConfidence", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/anomalies?min_confidence=80")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if env.Count == nil || *env.Count != 1 {
			t.Fatalf("expected count 1, got %v", env.Count)
		}

		raw, _ := json.Marshal(env.Data)
		var anomalies []domain.RevenueReport
		if err := json.Unmarshal(raw, &anomalies); err != nil {
			t.Fatalf("invalid anomalies payload: %v", err)
		}
		a := anomalies[0]
		if a.OperatorName != "Lucky Star Casino" {
			t.Errorf("expected Lucky Star Casino, got %s", a.OperatorName)
		}
		if a.AnomalyConfidence == nil || *a.AnomalyConfidence != 92 {
			t.Errorf("expected confidence 92, got %v", a.AnomalyConfidence)
		}
	})

	t.Run("AnomaliesBadConfidence", func(t *testing.T) {
		rec, _ := doRequest(t, srv, "/anomalies?min_confidence=high")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("AnomalyTypes", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/anomaly-types")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		raw, _ := json.Marshal(env.Data)
		var types []domain.AnomalyTypeCount
		if err := json.Unmarshal(raw, &types); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if len(types) != 3 {
			t.Errorf("expected 3 anomaly types, got %d", len(types))
		}
	})

	t.Run("TransactionsDefaultLimit", func(t *testing.T) {
		_, env := doRequest(t, srv, "/transactions")
		if env.Count == nil || *env.Count != domain.DefaultTransactionLimit {
			t.Errorf("expected count %d, got %v", domain.DefaultTransactionLimit, env.Count)
		}
	})

	t.Run("TransactionsInvalidLimitFallsBack", func(t *testing.T) {
		// An unparseable limit falls back to the default cap rather
		// than returning 400.
		rec, env := doRequest(t, srv, "/transactions?limit=lots")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if env.Count == nil || *env.Count != domain.DefaultTransactionLimit {
			t.Errorf("expected count %d, got %v", domain.DefaultTransactionLimit, env.Count)
		}
	})

	t.Run("TransactionsExplicitLimit", func(t *testing.T) {
		_, env := doRequest(t, srv, "/transactions?limit=5")
		if env.Count == nil || *env.Count != 5 {
			t.Errorf("expected count 5, got %v", env.Count)
		}
	})

	t.Run("TransactionsSuspiciousOnly", func(t *testing.T) {
		_, env := doRequest(t, srv, "/transactions?suspicious_only=true")

		raw, _ := json.Marshal(env.Data)
		var transactions []domain.Transaction
		if err := json.Unmarshal(raw, &transactions); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		for _, tx := range transactions {
			if !tx.SuspiciousFlag {
				t.Errorf("transaction %d not suspicious", tx.TransactionID)
			}
		}
	})

	t.Run("Stats", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/stats")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		raw, _ := json.Marshal(env.Data)
		var stats domain.DashboardStats
		if err := json.Unmarshal(raw, &stats); err != nil {
			t.Fatalf("invalid stats payload: %v", err)
		}
		if stats.Overview.TotalOperators != 6 {
			t.Errorf("expected 6 total operators, got %d", stats.Overview.TotalOperators)
		}
		if stats.Overview.CurrentMonthRevenue != 35000000 {
			t.Errorf("expected revenue 35000000, got %.2f", stats.Overview.CurrentMonthRevenue)
		}
	})

	t.Run("StatsRepeatedReadsIdentical", func(t *testing.T) {
		first := httptest.NewRecorder()
		srv.Router().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/stats", nil))

		second := httptest.NewRecorder()
		srv.Router().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/stats", nil))

		if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
			t.Error("expected byte-identical stats responses")
		}
	})

	t.Run("UnknownEndpoint", func(t *testing.T) {
		rec, env := doRequest(t, srv, "/nope")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if env.Success || env.Error != "Endpoint not found" {
			t.Errorf("unexpected envelope: %+v", env)
		}
	})

	t.Run("CORSHeaders", func(t *testing.T) {
		rec, _ := doRequest(t, srv, "/operators")
		if rec.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("expected CORS headers")
		}
	})
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *domain.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMinute = 2
		cfg.Reporting.StatsCacheTTL = time.Second
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/operators", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request limited, got %v", codes)
	}
}
