package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/deploytrack/deploytrack/internal/api"
	"github.com/deploytrack/deploytrack/internal/delay"
	"github.com/deploytrack/deploytrack/internal/store"
)

// --- test helpers -----------------------------------------------------------

const sampleJSON = `{
  "deployments": [
    {"Name": "release-a", "Type": "sprint",
     "PlannedDeploymentDate": "2024-03-01T00:00:00Z",
     "DeploymentDate": "2024-03-03T00:00:00Z"},
    {"Name": "release-b", "Type": "hotfix",
     "PlannedDeploymentDate": "2024-03-01T00:00:00Z"}
  ],
  "lastUpdated": "2024-03-10T00:00:00Z"
}`

// newHandler builds a handler over a store backed by a temp file holding
// content; an empty content means the file does not exist.
func newHandler(t *testing.T, content string) http.Handler {
	t.Helper()
	p := filepath.Join(t.TempDir(), "deployments.json")
	if content != "" {
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write data file: %v", err)
		}
	}
	return api.New(store.New(p), delay.DivisorAll)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/deployments -------------------------------------------------------

func TestDeployments_OK(t *testing.T) {
	h := newHandler(t, sampleJSON)
	rr := get(t, h, "/api/deployments")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}

	var c delay.Collection
	decode(t, rr, &c)
	if len(c.Deployments) != 2 {
		t.Errorf("deployments: got %d, want 2", len(c.Deployments))
	}
	if c.LastUpdated != "2024-03-10T00:00:00Z" {
		t.Errorf("lastUpdated: got %q", c.LastUpdated)
	}
}

func TestDeployments_MissingFile(t *testing.T) {
	h := newHandler(t, "")
	rr := get(t, h, "/api/deployments")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["error"] == "" {
		t.Errorf("body should carry an error key, got %s", rr.Body.String())
	}
}

func TestDeployments_MalformedFile(t *testing.T) {
	h := newHandler(t, "{broken")
	rr := get(t, h, "/api/deployments")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["error"] == "" {
		t.Errorf("body should carry an error key, got %s", rr.Body.String())
	}
}

func TestDeployments_MethodNotAllowed(t *testing.T) {
	h := newHandler(t, sampleJSON)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/deployments", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/summary -----------------------------------------------------------

func TestSummary_OK(t *testing.T) {
	h := newHandler(t, sampleJSON)
	rr := get(t, h, "/api/summary")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.SummaryResponse
	decode(t, rr, &resp)

	if resp.TotalDeployments != 2 || resp.Processed != 1 || resp.Skipped != 1 {
		t.Errorf("counts: got %+v", resp)
	}
	if resp.Sprints != 1 || resp.Hotfixes != 1 {
		t.Errorf("types: got %+v", resp)
	}
	if resp.TotalDelayDays != 2 {
		t.Errorf("total delay: got %d, want 2", resp.TotalDelayDays)
	}
	// Divisor "all": 2 days over 2 records.
	if resp.AverageDelayDays != 1.0 {
		t.Errorf("average: got %v, want 1.0", resp.AverageDelayDays)
	}
}

// --- /deployments.json ------------------------------------------------------

func TestRawFile_OK(t *testing.T) {
	h := newHandler(t, sampleJSON)
	rr := get(t, h, "/deployments.json")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if rr.Body.String() != sampleJSON {
		t.Errorf("raw body differs from file content")
	}
}

func TestRawFile_Missing(t *testing.T) {
	h := newHandler(t, "")
	rr := get(t, h, "/deployments.json")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
}

// --- /health and / ----------------------------------------------------------

func TestHealth(t *testing.T) {
	h := newHandler(t, "")
	rr := get(t, h, "/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "healthy" || resp.Service == "" {
		t.Errorf("health: got %+v", resp)
	}
}

func TestIndex_ListsRoutes(t *testing.T) {
	h := newHandler(t, "")
	rr := get(t, h, "/")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp api.IndexResponse
	decode(t, rr, &resp)
	for _, route := range []string{"/api/deployments", "/deployments.json", "/health"} {
		if _, ok := resp.Endpoints[route]; !ok {
			t.Errorf("index missing route %s", route)
		}
	}
}

func TestUnknownPath_JSON404(t *testing.T) {
	h := newHandler(t, sampleJSON)
	rr := get(t, h, "/nope")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rr.Code)
	}
	var resp map[string]string
	decode(t, rr, &resp)
	if resp["error"] == "" {
		t.Errorf("404 body should be a JSON error, got %s", rr.Body.String())
	}
}
