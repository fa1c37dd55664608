package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralsina/nombres/pkg/gender"
	"github.com/ralsina/nombres/pkg/names"
	"github.com/ralsina/nombres/pkg/query"
	"github.com/ralsina/nombres/pkg/store"
)

// stubLookup answers every token from a fixed table and omits the rest.
type stubLookup struct {
	results map[string]gender.Result
}

func (s *stubLookup) Lookup(_ context.Context, tokens []string) ([]gender.Result, error) {
	var out []gender.Result
	for _, t := range tokens {
		if r, ok := s.results[t]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "names.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	agg := names.NewAggregate()
	agg.Add("Juan", 1146821, 2000)
	agg.Add("Juan Carlos", 303012, 2000)
	agg.Add("Juana", 162899, 2000)
	agg.Add("María", 90000, 1980)
	agg.Add("María", 10000, 1981)
	if err := st.CommitSnapshot(context.Background(), "test", agg); err != nil {
		t.Fatalf("CommitSnapshot: %v", err)
	}

	lookup := &stubLookup{results: map[string]gender.Result{
		"juan":  {Name: "juan", Gender: "male", Probability: 0.99},
		"juana": {Name: "juana", Gender: "female", Probability: 0.99},
		"maria": {Name: "maria", Gender: "female", Probability: 0.99},
	}}
	classifier := gender.NewClassifier(st, lookup, nil)
	resolver := query.NewResolver(st, classifier, nil)

	return NewRouter(Deps{Resolver: resolver, Store: st})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestQueryJSON(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/v1/query?p=jua")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Title   string `json:"title"`
		Results []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []struct {
		name  string
		count int
	}{
		{"juan", 1449833},
		{"juan carlos", 303012},
		{"juana", 162899},
	}
	if len(resp.Results) != len(want) {
		t.Fatalf("results = %+v, want %d rows", resp.Results, len(want))
	}
	for i, w := range want {
		if resp.Results[i].Name != w.name || resp.Results[i].Count != w.count {
			t.Errorf("results[%d] = %+v, want %+v", i, resp.Results[i], w)
		}
	}
	if resp.Title != "¿Puede ser ... Juan? ¿O capaz que Juan Carlos? ¡Contáme más!" {
		t.Errorf("title = %q", resp.Title)
	}
}

func TestQueryJSONGenderFilter(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/v1/query?p=jua&g=f")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Name != "juana" {
		t.Errorf("f results = %+v, want only juana", resp.Results)
	}

	rec = get(t, h, "/v1/query?p=jua&g=m")
	resp = queryResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].Name != "juan" || resp.Results[1].Name != "juan carlos" {
		t.Errorf("m results = %+v, want juan and juan carlos", resp.Results)
	}
}

func TestQueryJSONBadYearIgnored(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/v1/query?a=banana")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp queryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// An unparsable year falls back to the global ranking.
	if len(resp.Results) == 0 || resp.Results[0].Name != "juan" {
		t.Errorf("results = %+v, want the global ranking", resp.Results)
	}
}

func TestQueryJSONEmptyResult(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/v1/query?p=zzz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"results":[]`) {
		t.Errorf("empty result must serialize as [], got %s", body)
	}
	if !strings.Contains(body, "¡No esssistís!") {
		t.Errorf("empty result title missing, got %s", body)
	}
}

func TestQueryChartSVG(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/query?p=jua")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Errorf("body is not SVG: %.80q", rec.Body.String())
	}
}

func TestHistoryJSON(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/v1/history?n=María,zzz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Series) != 2 {
		t.Fatalf("series = %+v, want 2", resp.Series)
	}
	if resp.Series[0].Name != "maria" {
		t.Errorf("series[0].Name = %q, want maria (normalized)", resp.Series[0].Name)
	}
	if len(resp.Series[0].Counts) != 2 || resp.Series[0].Counts[0].Year != 1980 {
		t.Errorf("maria counts = %+v", resp.Series[0].Counts)
	}
	if len(resp.Series[1].Counts) != 0 {
		t.Errorf("unknown name counts = %+v, want empty", resp.Series[1].Counts)
	}
}

func TestHistoryJSONNoNames(t *testing.T) {
	h := newTestRouter(t)
	if rec := get(t, h, "/v1/history"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHistoryChartSVG(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/chart?n=juan")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Errorf("body is not SVG: %.80q", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Names == 0 {
		t.Error("names = 0, want the ingested name count")
	}
	if resp.LastIngest == nil {
		t.Error("last_ingest missing after an ingest run")
	}
}

func TestClassifyEndpoint(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "names.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	lookup := &stubLookup{results: map[string]gender.Result{
		"juan":  {Name: "juan", Gender: "male", Probability: 0.99},
		"maria": {Name: "maria", Gender: "female", Probability: 0.99},
	}}
	cl := gender.NewClassifier(st, lookup, nil)

	resp, err := classifyEndpoint(cl)(context.Background(), &classifyReq{
		Names: []string{"Juan Carlos", "María", "Acsa"},
	})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	got := resp.(classifyResponse)

	if len(got.M) != 2 || got.M[0] != "juan carlos" || got.M[1] != "acsa" {
		t.Errorf("M = %v, want [juan carlos acsa]", got.M)
	}
	if len(got.F) != 2 || got.F[0] != "maria" || got.F[1] != "acsa" {
		t.Errorf("F = %v, want [maria acsa]", got.F)
	}

	if _, err := classifyEndpoint(cl)(context.Background(), &classifyReq{}); err == nil {
		t.Error("want error for empty name list")
	}
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t)

	rec := get(t, h, "/v1/query")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/v1/query", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", rec.Code)
	}
}
