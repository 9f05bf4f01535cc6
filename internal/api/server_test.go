package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/engramhq/engram/internal/engine"
	"github.com/engramhq/engram/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *engine.Engine) {
	t.Helper()
	eng := testutil.NewTestEngine(t)
	cfg := testutil.NewTestConfig()
	return NewServer(eng, cfg), eng
}

func doRequest(s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var r *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	return w
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d want 200", w.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/api/v1/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d want 200", w.Code)
	}
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected success response, got %+v", resp)
	}
}

func TestGetMemoryNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/api/v1/memories/does-not-exist", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d want 404", w.Code)
	}
}

func TestGetMemoryFound(t *testing.T) {
	s, eng := newTestServer(t)
	id, err := eng.Add(context.Background(), engine.AddInput{Content: "findable", Kind: "factual"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	w := doRequest(s, http.MethodGet, "/api/v1/memories/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d want 200", w.Code)
	}
}

func TestRecallHandlerRequiresQuery(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodPost, "/api/v1/recall", map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d want 400 for a missing query", w.Code)
	}
}

func TestRecallHandlerReturnsMatches(t *testing.T) {
	s, eng := newTestServer(t)
	if _, err := eng.Add(context.Background(), engine.AddInput{Content: "searchable content", Kind: "factual"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	w := doRequest(s, http.MethodPost, "/api/v1/recall", map[string]interface{}{"query": "searchable", "k": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d want 200, body=%s", w.Code, w.Body.String())
	}

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Errorf("expected success response, got %+v", resp)
	}
}

func TestExportHandlerRequiresPath(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodPost, "/api/v1/export", map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d want 400 for a missing path", w.Code)
	}
}

func TestExportHandlerWritesFile(t *testing.T) {
	s, eng := newTestServer(t)
	if _, err := eng.Add(context.Background(), engine.AddInput{Content: "exportable", Kind: "factual"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	dest := testutil.TempDir(t) + "/snapshot.db"
	w := doRequest(s, http.MethodPost, "/api/v1/export", map[string]interface{}{"path": dest})
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d want 200, body=%s", w.Code, w.Body.String())
	}
}
