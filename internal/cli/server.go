package cli

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/observability"
	"github.com/matzehuels/spanlane/pkg/pipeline"
	"github.com/matzehuels/spanlane/pkg/schema"
)

const requestIDHeader = "X-Request-ID"

// server is the HTTP viewer. Every request runs its own pipeline; only the
// runner's cache is shared.
type server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
}

func newServer(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *server {
	return &server{runner: runner, defaults: defaults, logger: logger.WithPrefix("http")}
}

// artifact describes one downloadable route under /api/models/{name}.
type artifact struct {
	vizType     string
	format      string
	contentType string
}

var artifacts = map[string]artifact{
	"trace.svg":       {schema.VizTypeLanes, pipeline.FormatSVG, "image/svg+xml"},
	"layout.json":     {schema.VizTypeLanes, pipeline.FormatJSON, "application/json"},
	"trace.otlp.json": {schema.VizTypeLanes, pipeline.FormatOTLP, "application/json"},
	"tree.svg":        {schema.VizTypeTree, pipeline.FormatSVG, "image/svg+xml"},
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Route("/api/models", func(r chi.Router) {
		r.Get("/", s.handleModels)
		for name, a := range artifacts {
			r.Get("/{name}/"+name, s.handleArtifact(a))
		}
	})
	return r
}

// requestID tags each request with a UUID and a request-scoped logger.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// observe reports every request to the server hooks and logs it.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		loggerFromContext(r.Context()).Debug("request", "method", r.Method, "route", route, "status", status, "elapsed", elapsed)
	})
}

type modelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *server) handleModels(w http.ResponseWriter, r *http.Request) {
	entries := s.runner.Catalog()
	list := make([]modelInfo, len(entries))
	for i, e := range entries {
		list[i] = modelInfo{Name: e.Name, Description: e.Description}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) handleArtifact(a artifact) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.options(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Model = chi.URLParam(r, "name")
		opts.VizType = a.vizType
		opts.Formats = []string{a.format}
		opts.Logger = loggerFromContext(r.Context())

		result, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", a.contentType)
		w.Header().Set("X-Spanlane-Seed", strconv.FormatUint(result.Trace.Seed, 10))
		if result.CacheInfo.RenderHit {
			w.Header().Set("X-Cache", "hit")
		} else {
			w.Header().Set("X-Cache", "miss")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifacts[a.format])
	}
}

// options overlays query parameters on the server defaults.
func (s *server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = slices.Clone(s.defaults.Formats)
	q := r.URL.Query()

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidScale, "scale must be a number, got %q", v)
		}
		opts.Scale = scale
	}
	if v := q.Get("time_mode"); v != "" {
		opts.TimeMode = v
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("no_arrows"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "no_arrows must be a boolean, got %q", v)
		}
		opts.NoArrows = b
	}
	opts.Detailed = q.Has("detailed")
	return opts, nil
}

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: w.Header().Get(requestIDHeader),
	})
}

// statusFor maps coded errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeModelNotFound), errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintln(w, `{"error":"encode response"}`)
	}
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Models    []modelInfo
		TimeModes []string
		Styles    []string
		Defaults  pipeline.Options
	}{
		TimeModes: schema.TimeModes,
		Styles:    schema.Styles,
		Defaults:  s.defaults,
	}
	for _, e := range s.runner.Catalog() {
		data.Models = append(data.Models, modelInfo{Name: e.Name, Description: e.Description})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		loggerFromContext(r.Context()).Error("render index", "err", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>spanlane</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
form { display: flex; gap: 1em; align-items: center; margin-bottom: 1em; }
#trace { border: 1px solid #ddd; max-width: 100%; }
.dim { color: #888; font-size: 0.9em; }
</style>
</head>
<body>
<h1>spanlane</h1>
<form id="controls">
  <label>Model
    <select name="model">
    {{range .Models}}<option value="{{.Name}}" title="{{.Description}}">{{.Name}}</option>
    {{end}}</select>
  </label>
  <label>Time
    <select name="time_mode">
    {{range .TimeModes}}<option{{if eq . $.Defaults.TimeMode}} selected{{end}}>{{.}}</option>
    {{end}}</select>
  </label>
  <label>Style
    <select name="style">
    {{range .Styles}}<option{{if eq . $.Defaults.Style}} selected{{end}}>{{.}}</option>
    {{end}}</select>
  </label>
  <label>Scale <input name="scale" type="number" min="0.1" max="100" step="0.1" value="{{.Defaults.Scale}}"></label>
  <button type="button" id="resample">Resample</button>
  <span class="dim">seed <span id="seed"></span></span>
</form>
<img id="trace" alt="trace">
<p class="dim">
  <a id="layout" href="#">layout.json</a> ·
  <a id="otlp" href="#">trace.otlp.json</a> ·
  <a id="tree" href="#">tree.svg</a>
</p>
<script>
const form = document.getElementById("controls");
let seed = Math.floor(Math.random() * 1e9) + 1;

function refresh() {
  const f = new FormData(form);
  const q = new URLSearchParams({seed, time_mode: f.get("time_mode"), style: f.get("style"), scale: f.get("scale")});
  const base = "/api/models/" + encodeURIComponent(f.get("model")) + "/";
  document.getElementById("trace").src = base + "trace.svg?" + q;
  document.getElementById("layout").href = base + "layout.json?" + q;
  document.getElementById("otlp").href = base + "trace.otlp.json?" + q;
  document.getElementById("tree").href = base + "tree.svg?" + q;
  document.getElementById("seed").textContent = seed;
}

form.addEventListener("change", refresh);
document.getElementById("resample").addEventListener("click", () => {
  seed = Math.floor(Math.random() * 1e9) + 1;
  refresh();
});
refresh();
</script>
</body>
</html>
`))
