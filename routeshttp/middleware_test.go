package routeshttp

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uuidV4Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), tag("outer"), tag("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name           string
		config         RequestIDConfig
		incomingHeader string
		wantHeader     string
		wantGenerated  bool
	}{
		{
			name:          "generates UUID v4 by default",
			config:        RequestIDConfig{},
			wantGenerated: true,
		},
		{
			name:           "does not trust incoming by default",
			config:         RequestIDConfig{},
			incomingHeader: "existing-id",
			wantGenerated:  true,
		},
		{
			name:           "trusts incoming when configured",
			config:         RequestIDConfig{TrustIncoming: true},
			incomingHeader: "existing-id",
			wantHeader:     "existing-id",
		},
		{
			name:       "custom generate func",
			config:     RequestIDConfig{GenerateFunc: func(_ *http.Request) string { return "custom-id" }},
			wantHeader: "custom-id",
		},
		{
			name:       "custom header name",
			config:     RequestIDConfig{HeaderName: "X-Trace-ID", GenerateFunc: func(_ *http.Request) string { return "trace-123" }},
			wantHeader: "trace-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headerName := tt.config.HeaderName
			if headerName == "" {
				headerName = "X-Request-ID"
			}

			var fromContext string
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromContext = RequestIDFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.incomingHeader != "" {
				req.Header.Set(headerName, tt.incomingHeader)
			}
			w := httptest.NewRecorder()
			RequestID(tt.config)(inner).ServeHTTP(w, req)

			got := w.Header().Get(headerName)
			if tt.wantGenerated {
				assert.Regexp(t, uuidV4Regex, got)
			} else {
				assert.Equal(t, tt.wantHeader, got)
			}
			assert.Equal(t, got, fromContext)
		})
	}

	t.Run("no id stored without middleware", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		assert.Empty(t, RequestIDFromContext(req.Context()))
	})
}

func TestRecovery(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	t.Run("panic becomes 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		Recovery(RecoveryConfig{})(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("recovered value reaches the log func", func(t *testing.T) {
		var recovered any
		cfg := RecoveryConfig{LogFunc: func(r *http.Request, err any) { recovered = err }}

		w := httptest.NewRecorder()
		Recovery(cfg)(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "boom", recovered)
	})

	t.Run("healthy handlers pass through", func(t *testing.T) {
		w := httptest.NewRecorder()
		Recovery(RecoveryConfig{})(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})
}

func TestAccessLog(t *testing.T) {
	t.Run("logs method path status and size", func(t *testing.T) {
		var buf strings.Builder
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte("short"))
		})

		w := httptest.NewRecorder()
		AccessLog(AccessLogConfig{Logger: logger})(inner).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forum/10", nil))

		out := buf.String()
		assert.Contains(t, out, "method=GET")
		assert.Contains(t, out, "path=/forum/10")
		assert.Contains(t, out, "status=418")
		assert.Contains(t, out, "bytes=5")
	})

	t.Run("implicit 200 is reported", func(t *testing.T) {
		var buf strings.Builder
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		w := httptest.NewRecorder()
		AccessLog(AccessLogConfig{Logger: logger})(okHandler()).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, buf.String(), "status=200")
	})

	t.Run("includes the request id when present", func(t *testing.T) {
		var buf strings.Builder
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		h := Chain(okHandler(),
			RequestID(RequestIDConfig{GenerateFunc: func(*http.Request) string { return "req-1" }}),
			AccessLog(AccessLogConfig{Logger: logger}),
		)
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, buf.String(), "request_id=req-1")
	})
}

func TestMetrics(t *testing.T) {
	t.Run("counts requests by method and code", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		h := Metrics(WithRegistry(registry))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/missing" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte("ok"))
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

		families, err := registry.Gather()
		require.NoError(t, err)

		byName := make(map[string]bool, len(families))
		for _, f := range families {
			byName[f.GetName()] = true
		}
		assert.True(t, byName["traverse_http_requests_total"])
		assert.True(t, byName["traverse_http_request_duration_seconds"])

		counter := `
# HELP traverse_http_requests_total Total number of requests served
# TYPE traverse_http_requests_total counter
traverse_http_requests_total{code="200",method="GET"} 2
traverse_http_requests_total{code="404",method="GET"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(counter), "traverse_http_requests_total"))
	})

	t.Run("namespace and subsystem are configurable", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		h := Metrics(
			WithRegistry(registry),
			WithNamespace("myapp"),
			WithSubsystem("web"),
		)(okHandler())

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		count, err := testutil.GatherAndCount(registry, "myapp_web_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
