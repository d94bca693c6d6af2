package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TFMV/edgesketch/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(DefaultConfig(), logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func createSession(t *testing.T, ts *httptest.Server, body string) createResponse {
	t.Helper()
	resp := do(t, http.MethodPost, ts.URL+"/api/sessions", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created createResponse
	decode(t, resp, &created)
	return created
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	created := createSession(t, ts, `{"source": "1 2 a\n2 3 b\n1234 5", "seed": 1}`)
	if created.ID == "" {
		t.Fatal("empty session id")
	}
	if len(created.Diagnostics) != 1 || created.Diagnostics[0].Line != 3 {
		t.Errorf("diagnostics = %+v", created.Diagnostics)
	}

	var scene models.Scene
	decode(t, do(t, http.MethodGet, ts.URL+"/api/sessions/"+created.ID, ""), &scene)
	if len(scene.Nodes) != 5 || len(scene.Edges) != 3 {
		t.Errorf("scene has %d nodes, %d edges", len(scene.Nodes), len(scene.Edges))
	}

	resp := do(t, http.MethodPost, ts.URL+"/api/sessions/"+created.ID+"/frames?n=10", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("frames status = %d", resp.StatusCode)
	}
	decode(t, resp, &scene)
	if scene.Frame != 10 {
		t.Errorf("frame = %d, want 10", scene.Frame)
	}

	var health map[string]interface{}
	decode(t, do(t, http.MethodGet, ts.URL+"/healthz", ""), &health)
	if health["status"] != "ok" || health["sessions"] != float64(1) {
		t.Errorf("health = %v", health)
	}

	if resp := do(t, http.MethodDelete, ts.URL+"/api/sessions/"+created.ID, ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/sessions/"+created.ID, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestUpdateSource(t *testing.T) {
	ts := newTestServer(t)
	created := createSession(t, ts, `{"source": "1 2", "seed": 3}`)
	base := ts.URL + "/api/sessions/" + created.ID

	var out diagnosticsResponse
	decode(t, do(t, http.MethodPut, base+"/source", `{"source": "9 10 x", "fixedCountMode": true, "fixedCount": 3}`), &out)
	if len(out.Diagnostics) != 0 {
		t.Errorf("diagnostics = %+v", out.Diagnostics)
	}

	var scene models.Scene
	decode(t, do(t, http.MethodGet, base, ""), &scene)
	if len(scene.Nodes) != 3 || len(scene.Edges) != 0 {
		t.Errorf("scene has %d nodes, %d edges, want 3 and 0", len(scene.Nodes), len(scene.Edges))
	}

	decode(t, do(t, http.MethodPost, base+"/refresh", ""), &out)
	decode(t, do(t, http.MethodGet, base, ""), &scene)
	if len(scene.Nodes) != 3 {
		t.Errorf("refresh left %d nodes", len(scene.Nodes))
	}

	decode(t, do(t, http.MethodPut, base+"/source", `{"source": "9 10 x\n1234 5", "fixedCountMode": false}`), &out)
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Line != 2 {
		t.Errorf("diagnostics = %+v, want one on line 2", out.Diagnostics)
	}
	decode(t, do(t, http.MethodGet, base, ""), &scene)
	if len(scene.Nodes) != 4 || len(scene.Edges) != 2 {
		t.Errorf("scene has %d nodes, %d edges, want 4 and 2", len(scene.Nodes), len(scene.Edges))
	}
}

func TestPointerAndZoom(t *testing.T) {
	ts := newTestServer(t)
	created := createSession(t, ts, `{"source": "a b", "seed": 1}`)
	base := ts.URL + "/api/sessions/" + created.ID

	var scene models.Scene
	decode(t, do(t, http.MethodPost, base+"/pointer", `{"type": "down", "x": -9000, "y": -9000}`), &scene)
	if scene.Interaction != models.InteractionPanning {
		t.Fatalf("interaction = %s, want panning", scene.Interaction)
	}
	decode(t, do(t, http.MethodPost, base+"/pointer", `{"type": "move", "x": -8990, "y": -9000}`), &scene)
	if scene.View.PanX != 10 {
		t.Errorf("pan x = %g, want 10", scene.View.PanX)
	}
	decode(t, do(t, http.MethodPost, base+"/pointer", `{"type": "up"}`), &scene)
	if scene.Interaction != models.InteractionIdle {
		t.Errorf("interaction = %s after up", scene.Interaction)
	}

	var view models.ViewState
	decode(t, do(t, http.MethodPost, base+"/zoom", `{"direction": "in"}`), &view)
	if view.TargetScale <= 1 || view.Scale != 1 {
		t.Errorf("view after zoom in = %+v", view)
	}

	if resp := do(t, http.MethodPost, base+"/pointer", `{"type": "tap"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown pointer type status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, base+"/zoom", `{"direction": "sideways"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad zoom direction status = %d", resp.StatusCode)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)
	created := createSession(t, ts, `{"sample": true, "seed": 2}`)
	base := ts.URL + "/api/sessions/" + created.ID + "/render"

	tests := []struct {
		query       string
		status      int
		contentType string
	}{
		{"", http.StatusOK, "image/svg+xml"},
		{"?format=svg&directed=true", http.StatusOK, "image/svg+xml"},
		{"?format=png", http.StatusOK, "image/png"},
		{"?format=ascii", http.StatusOK, "text/plain; charset=utf-8"},
		{"?format=json", http.StatusOK, "application/json"},
		{"?format=dot&directed=1", http.StatusOK, "text/vnd.graphviz"},
		{"?format=webgl", http.StatusBadRequest, "application/json"},
		{"?directed=maybe", http.StatusBadRequest, "application/json"},
		{"?noise=2", http.StatusBadRequest, "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := do(t, http.MethodGet, base+tt.query, "")
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("content type = %q, want %q", ct, tt.contentType)
			}
		})
	}
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t)

	if resp := do(t, http.MethodPost, ts.URL+"/api/sessions", `{"source": `); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, ts.URL+"/api/sessions/nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodDelete, ts.URL+"/api/sessions/nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown session delete status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodPatch, ts.URL+"/api/sessions", ""); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d", resp.StatusCode)
	}

	created := createSession(t, ts, `{}`)
	for _, n := range []string{"0", "601", "abc"} {
		resp := do(t, http.MethodPost, ts.URL+"/api/sessions/"+created.ID+"/frames?n="+n, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("frames?n=%s status = %d", n, resp.StatusCode)
		}
	}
}

func TestUpload(t *testing.T) {
	ts := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("dataFile", "graph.csv")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, "source,target,label\n1,2,x\n2,3,y\nonly\n")
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/sessions/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	var created createResponse
	decode(t, resp, &created)
	if created.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", created.Dropped)
	}

	var scene models.Scene
	decode(t, do(t, http.MethodGet, ts.URL+"/api/sessions/"+created.ID, ""), &scene)
	if len(scene.Edges) != 2 {
		t.Errorf("uploaded graph has %d edges, want 2", len(scene.Edges))
	}
}

func TestSampleSource(t *testing.T) {
	if lines := strings.Count(SampleSource, "\n") + 1; lines != 7 {
		t.Errorf("sample has %d lines, want 7", lines)
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	a := s.Create(nil)
	b := s.Create(nil)
	if a.ID == b.ID {
		t.Fatal("session ids collide")
	}
	if got, err := s.Get(a.ID); err != nil || got != a {
		t.Errorf("Get(%s) = %v, %v", a.ID, got, err)
	}
	if err := s.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(a.ID); err != ErrSessionNotFound {
		t.Errorf("Get after delete error = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}
