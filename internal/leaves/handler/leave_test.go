package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"github.com/zermoser/mos-e-form/internal/leaves/repository"
	"github.com/zermoser/mos-e-form/internal/leaves/service"
	"github.com/zermoser/mos-e-form/internal/leaves/validator"
	"github.com/zermoser/mos-e-form/pkg/config"
	"github.com/zermoser/mos-e-form/pkg/logger"
)

func newTestRouter() *httprouter.Router {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}

	svc := service.NewLeaveService(
		repository.NewMemoryLeaveRepository(),
		validator.NewLeaveValidator(),
		nil,
		cfg,
	)

	router := httprouter.New()
	NewLeaveHandler(svc, cfg.Log).RegisterRoutes(router)
	return router
}

func doRequest(router *httprouter.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createLeave(t *testing.T, router *httprouter.Router) string {
	t.Helper()

	body := `{"full_name":"Somchai Jaidee","leave_date":"2025-07-18","reason":"Family errand"}`
	rec := doRequest(router, http.MethodPost, "/api/v1/leaves", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Data.ID == "" {
		t.Fatal("expected created leave request to carry an id")
	}
	if created.Data.Status != "pending" {
		t.Fatalf("status = %q, want pending", created.Data.Status)
	}
	return created.Data.ID
}

func TestCreateLeaveEndpoint(t *testing.T) {
	router := newTestRouter()
	createLeave(t, router)
}

func TestUpdateLeaveStatusEndpoint(t *testing.T) {
	router := newTestRouter()
	id := createLeave(t, router)

	rec := doRequest(router, http.MethodPatch, "/api/v1/leaves/id/"+id+"/status", `{"status":"approved"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Status != "approved" {
		t.Errorf("status = %q, want approved", resp.Data.Status)
	}

	// Re-deciding must be rejected with 409.
	rec = doRequest(router, http.MethodPatch, "/api/v1/leaves/id/"+id+"/status", `{"status":"rejected"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateLeaveStatusEndpointBadStatus(t *testing.T) {
	router := newTestRouter()
	id := createLeave(t, router)

	rec := doRequest(router, http.MethodPatch, "/api/v1/leaves/id/"+id+"/status", `{"status":"pending"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListLeavesEndpoint(t *testing.T) {
	router := newTestRouter()
	id := createLeave(t, router)

	if rec := doRequest(router, http.MethodPatch, "/api/v1/leaves/id/"+id+"/status", `{"status":"rejected"}`); rec.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", rec.Code, rec.Body.String())
	}

	rec := doRequest(router, http.MethodGet, "/api/v1/leaves?status=rejected", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data       []json.RawMessage `json:"data"`
		TotalCount int64             `json:"total_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalCount != 1 || len(resp.Data) != 1 {
		t.Errorf("unexpected listing: total=%d len=%d", resp.TotalCount, len(resp.Data))
	}
}
