package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spanlane/pkg/cache"
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/export/otlp"
	"github.com/matzehuels/spanlane/pkg/pipeline"
	"github.com/matzehuels/spanlane/pkg/schema"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(&bytes.Buffer{})
	runner := pipeline.NewRunner(fc, cache.NewScopedKeyer(nil, "server:"), logger)

	defaults := pipeline.Options{}
	defaults.SetRenderDefaults()
	ts := httptest.NewServer(newServer(runner, defaults, logger).routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	return resp, buf.Bytes()
}

func TestServerModels(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var list []modelInfo
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 || list[0].Name != "page-load" {
		t.Errorf("models = %+v", list)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("response should carry a request id")
	}
}

func TestServerTraceSVG(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/api/models/page-load/trace.svg?seed=7&time_mode=linear")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(body, []byte("<svg")) {
		t.Error("body is not an SVG document")
	}
	if seed := resp.Header.Get("X-Spanlane-Seed"); seed != "7" {
		t.Errorf("seed header = %q", seed)
	}
	if resp.Header.Get("X-Cache") != "miss" {
		t.Error("first request should miss the cache")
	}

	resp, again := get(t, ts, "/api/models/page-load/trace.svg?seed=7&time_mode=linear")
	if resp.Header.Get("X-Cache") != "hit" {
		t.Error("second request should hit the cache")
	}
	if !bytes.Equal(body, again) {
		t.Error("cached artifact differs from the first render")
	}
}

func TestServerUnseededRequestsResample(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/api/models/fan-out/trace.svg")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Spanlane-Seed") == "" {
		t.Error("unseeded requests should report the drawn seed")
	}
}

func TestServerLayoutAndOTLP(t *testing.T) {
	ts := newTestServer(t)

	_, body := get(t, ts, "/api/models/graphql/layout.json?seed=2&scale=2")
	l, err := schema.UnmarshalLayout(body)
	if err != nil {
		t.Fatal(err)
	}
	if l.Model != "graphql" || l.Seed != 2 || l.Scale != 2 {
		t.Errorf("layout model %q seed %d scale %v", l.Model, l.Seed, l.Scale)
	}

	_, body = get(t, ts, "/api/models/graphql/trace.otlp.json?seed=2")
	data, err := otlp.Unmarshal(body)
	if err != nil {
		t.Fatal(err)
	}
	spans := 0
	for _, rs := range data.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			spans += len(ss.Spans)
		}
	}
	if spans != len(l.Spans) {
		t.Errorf("otlp has %d spans, layout %d", spans, len(l.Spans))
	}
}

func TestServerTreeSVG(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/models/retrying-client/tree.svg?seed=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !bytes.Contains(body, []byte("<svg")) {
		t.Error("tree route should return SVG")
	}
}

func TestServerErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path   string
		status int
		code   errors.Code
	}{
		{"/api/models/nope/trace.svg", http.StatusNotFound, errors.ErrCodeModelNotFound},
		{"/api/models/page-load/trace.svg?time_mode=sideways", http.StatusBadRequest, errors.ErrCodeInvalidTimeMode},
		{"/api/models/page-load/trace.svg?seed=abc", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/api/models/page-load/trace.svg?scale=500", http.StatusBadRequest, errors.ErrCodeInvalidScale},
		{"/api/models/page-load/trace.svg?style=neon", http.StatusBadRequest, errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorBody
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatal(err)
			}
			if e.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if e.RequestID == "" {
				t.Error("error body should carry the request id")
			}
		})
	}
}

func TestServerKeepsClientRequestID(t *testing.T) {
	ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/models", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestServerIndex(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/")
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}
	for _, want := range []string{"page-load", "linear", "Resample"} {
		if !bytes.Contains(body, []byte(want)) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeModelNotFound, "x"), http.StatusNotFound},
		{fmt.Errorf("invalid options: %w", errors.New(errors.ErrCodeInvalidScale, "x")), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("127.0.0.1:9000"); got != "127.0.0.1:9000" {
		t.Errorf("displayAddr kept host = %q", got)
	}
}
