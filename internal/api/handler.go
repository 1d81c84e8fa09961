package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deploytrack/deploytrack/internal/delay"
	"github.com/deploytrack/deploytrack/internal/store"
)

// serviceName appears in the /health and / payloads.
const serviceName = "Deployment Data API"

// Handler is the HTTP handler for all data-server routes. It reads the
// collection through the cached file store and returns JSON responses.
type Handler struct {
	store   *store.FileStore
	divisor delay.Divisor
	mux     *http.ServeMux
}

// New creates a Handler wired to the given store and registers all routes.
// divisor selects the average-delay divisor for /api/summary and /metrics.
func New(st *store.FileStore, divisor delay.Divisor) http.Handler {
	h := &Handler{store: st, divisor: divisor, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/deployments", h.deployments)
	h.mux.HandleFunc("/api/summary", h.summary)
	h.mux.HandleFunc("/deployments.json", h.rawFile)
	h.mux.HandleFunc("/metrics", h.metrics)
	h.mux.HandleFunc("/health", h.health)
	h.mux.HandleFunc("/", h.index)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// deployments returns GET /api/deployments — the full parsed collection.
func (h *Handler) deployments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	c, err := h.store.Get()
	if err != nil {
		code, msg := storeErrStatus(err)
		jsonErr(w, code, msg)
		return
	}
	jsonResp(w, http.StatusOK, c)
}

// summary returns GET /api/summary — delay statistics over the collection.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	c, err := h.store.Get()
	if err != nil {
		code, msg := storeErrStatus(err)
		jsonErr(w, code, msg)
		return
	}

	sum := delay.Summarize(c)
	jsonResp(w, http.StatusOK, SummaryResponse{
		TotalDeployments: sum.Total,
		Processed:        sum.Processed,
		Skipped:          sum.Total - sum.Processed,
		Sprints:          sum.Sprints,
		Hotfixes:         sum.Hotfixes,
		TotalDelayDays:   sum.TotalDelay,
		AverageDelayDays: sum.AverageDelay(h.divisor),
		LastUpdated:      c.LastUpdated,
	})
}

// rawFile returns GET /deployments.json — the file bytes, unparsed.
func (h *Handler) rawFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := h.store.Raw()
	if errors.Is(err, store.ErrNotFound) {
		jsonErr(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

// health returns GET /health — static status payload.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "healthy", Service: serviceName})
}

// index returns GET / — the route listing. Unknown paths land here via the
// catch-all pattern and get a JSON 404.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, IndexResponse{
		Service: serviceName,
		Endpoints: map[string]string{
			"/api/deployments":  "Get deployments as JSON",
			"/api/summary":      "Get delay statistics",
			"/deployments.json": "Get raw JSON file",
			"/metrics":          "Prometheus metrics",
			"/ws/stream":        "WebSocket stream of collection updates",
			"/health":           "Health check",
		},
	})
}

// --- helpers ----------------------------------------------------------------

// storeErrStatus maps store error kinds to the HTTP status and message the
// API contract promises: 404 for a missing file, 500 for malformed JSON.
func storeErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Deployments file not found"
	case errors.Is(err, store.ErrMalformed):
		return http.StatusInternalServerError, "Invalid JSON in deployments file"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
