package routeshttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gotraverse/traverse/routes"
)

// defaultMaxRewrites bounds internal re-dispatch so that pages rewriting to
// each other cannot loop forever.
const defaultMaxRewrites = 10

// Config configures a Handler.
type Config struct {
	// MaxRewrites caps the number of internal path rewrites a single
	// request may go through. Defaults to 10 when zero.
	MaxRewrites int

	// ErrorLog is an optional callback invoked with the request and the
	// application error before a 500 response is written. When nil, no
	// logging is performed.
	ErrorLog func(r *http.Request, err error)
}

// Handler resolves requests against a site. It implements http.Handler.
type Handler struct {
	site *routes.Site
	cfg  Config
}

// NewHandler wraps the site in an http.Handler.
func NewHandler(site *routes.Site, cfg Config) *Handler {
	if cfg.MaxRewrites <= 0 {
		cfg.MaxRewrites = defaultMaxRewrites
	}
	return &Handler{site: site, cfg: cfg}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	values, err := mergeValues(r)
	if err != nil {
		writeErrorPage(w, http.StatusBadRequest)
		return
	}

	ctx := WithRequest(r.Context(), r)
	path := r.URL.Path

	for rewrites := 0; ; rewrites++ {
		result, err := h.site.ResolveMethod(ctx, r.Method, SplitPath(path), values)
		if err == nil {
			writeResult(w, r, result)
			return
		}

		var rw *PathRewrite
		if errors.As(err, &rw) {
			if rewrites >= h.cfg.MaxRewrites {
				h.logError(r, fmt.Errorf("routeshttp: rewrite limit reached at %q", rw.Path))
				writeErrorPage(w, http.StatusInternalServerError)
				return
			}
			path = rw.Path
			continue
		}

		h.writeError(w, r, err)
		return
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, routes.ErrNotFound):
		writeErrorPage(w, http.StatusNotFound)
	case errors.Is(err, routes.ErrMethodNotAllowed):
		writeErrorPage(w, http.StatusMethodNotAllowed)
	default:
		h.logError(r, err)
		writeErrorPage(w, http.StatusInternalServerError)
	}
}

func (h *Handler) logError(r *http.Request, err error) {
	if h.cfg.ErrorLog != nil {
		h.cfg.ErrorLog(r, err)
	}
}

// SplitPath turns a URL path into resolution segments. Leading, trailing and
// repeated slashes produce no segments, so "/forum//10/" becomes
// ["forum", "10"] and "/" becomes nil.
func SplitPath(path string) []string {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// mergeValues flattens the query string and, for form-encoded bodies, the
// posted form into the named-value bag. For repeated keys the last value
// wins, and body values override query values.
func mergeValues(r *http.Request) (map[string]string, error) {
	values := make(map[string]string)
	for key, vals := range r.URL.Query() {
		if len(vals) > 0 {
			values[key] = vals[len(vals)-1]
		}
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		for key, vals := range r.PostForm {
			if len(vals) > 0 {
				values[key] = vals[len(vals)-1]
			}
		}
	}
	return values, nil
}

// Responder is a result value that writes its own response.
type Responder interface {
	Respond(w http.ResponseWriter, r *http.Request)
}

// writeResult maps a resolution result onto the response: Responder values
// render themselves, strings are served as HTML, byte slices as raw bytes,
// and everything else as JSON.
func writeResult(w http.ResponseWriter, r *http.Request, result any) {
	switch v := result.(type) {
	case Responder:
		v.Respond(w, r)
	case string:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(v))
	case []byte:
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		w.Write(v)
	default:
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			writeErrorPage(w, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

func writeErrorPage(w http.ResponseWriter, code int) {
	status := fmt.Sprintf("%d %s", code, http.StatusText(code))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><title>%s</title></head><body><h1>%s</h1></body></html>\n", status, status)
}
