// CLAUDE:SUMMARY HTTP routes: SVG chart endpoints compatible with the original app, JSON API, health, Prometheus metrics.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ralsina/nombres/pkg/chart"
	"github.com/ralsina/nombres/pkg/gender"
	"github.com/ralsina/nombres/pkg/kit"
	"github.com/ralsina/nombres/pkg/query"
	"github.com/ralsina/nombres/pkg/store"
)

// Deps is everything the router needs, constructed once in main and passed
// down explicitly.
type Deps struct {
	Resolver *query.Resolver
	Store    *store.Store
	Probe    *gender.Probe
}

// NewRouter returns an http.Handler with all routes. The /query and /chart
// endpoints keep the original app's contract: SVG responses, p/a/g and n
// parameters, CORS enabled.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	h := &handler{
		query:   queryEndpoint(d.Resolver),
		history: historyEndpoint(d.Store),
		store:   d.Store,
		probe:   d.Probe,
	}

	mux.HandleFunc("GET /query", h.handleQueryChart)
	mux.HandleFunc("GET /chart", h.handleHistoryChart)
	mux.HandleFunc("GET /v1/query", h.handleQueryJSON)
	mux.HandleFunc("GET /v1/history", h.handleHistoryJSON)
	mux.HandleFunc("GET /v1/health", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return cors(mux)
}

type handler struct {
	query   kit.Endpoint
	history kit.Endpoint
	store   *store.Store
	probe   *gender.Probe
}

// --- charts (original contract) ---

func (h *handler) handleQueryChart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resolveQuery(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := chart.RenderRanking(w, resp.Results); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *handler) handleHistoryChart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resolveHistory(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	series := make([]chart.Series, 0, len(resp.Series))
	for _, s := range resp.Series {
		series = append(series, chart.Series{Name: s.Name, Counts: s.Counts})
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := chart.RenderHistory(w, series); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- JSON API ---

func (h *handler) handleQueryJSON(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resolveQuery(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleHistoryJSON(w http.ResponseWriter, r *http.Request) {
	resp, err := h.resolveHistory(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) resolveQuery(r *http.Request) (queryResponse, error) {
	resp, err := h.query(r.Context(), &queryReq{
		Prefix: r.URL.Query().Get("p"),
		Year:   r.URL.Query().Get("a"),
		Gender: r.URL.Query().Get("g"),
	})
	if err != nil {
		return queryResponse{}, err
	}
	return resp.(queryResponse), nil
}

func (h *handler) resolveHistory(r *http.Request) (historyResponse, error) {
	resp, err := h.history(r.Context(), &historyReq{Names: splitNames(r.URL.Query().Get("n"))})
	if err != nil {
		return historyResponse{}, err
	}
	return resp.(historyResponse), nil
}

// --- health ---

type healthResponse struct {
	Status          string `json:"status"`
	Names           int    `json:"names"`
	Classifications int    `json:"classifications"`
	LastIngest      *int64 `json:"last_ingest,omitempty"`
	ClassifierProbe int    `json:"classifier_probe,omitempty"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := healthResponse{Status: "ok"}

	if run, err := h.store.LastIngestRun(ctx); err == nil && run != nil {
		resp.Names = run.Names
		resp.LastIngest = &run.FinishedAt
	}
	if n, err := h.store.ClassificationCount(ctx); err == nil {
		resp.Classifications = n
	}
	if h.probe != nil {
		resp.ClassifierProbe = h.probe.LastStatus()
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients; the charts are
// embedded cross-origin exactly like the original app's.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
