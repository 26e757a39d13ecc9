package sitemap

import (
	"fmt"
	"html"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/gotraverse/traverse/routes"
)

// Serve returns an http.Handler exposing the tree description. The last
// path element picks the representation:
//
//	schema.json - document as JSON
//	schema.yaml - document as YAML
//	anything else - plain HTML listing
//
// The document is built once on first request and cached; building is
// cheap but the tree never changes after construction.
func Serve(root routes.Resource, cfg Config) http.Handler {
	var (
		once     sync.Once
		doc      *Document
		buildErr error
	)
	build := func() (*Document, error) {
		once.Do(func() {
			doc, buildErr = Build(root, cfg)
		})
		return doc, buildErr
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := build()
		if err != nil {
			http.Error(w, "failed to build sitemap", http.StatusInternalServerError)
			return
		}

		switch path.Base(r.URL.Path) {
		case "schema.json":
			data, err := d.JSON()
			if err != nil {
				http.Error(w, "failed to serialize sitemap as JSON", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
		case "schema.yaml":
			data, err := d.YAML()
			if err != nil {
				http.Error(w, "failed to serialize sitemap as YAML", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/x-yaml")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(htmlListing(d)))
		}
	})
}

// PageFunc returns a handler body that yields the document, for mounting
// the sitemap as a page inside the tree it describes:
//
//	root.Page("sitemap", sitemap.PageFunc(root, sitemap.Config{}))
//
// The routeshttp adapter renders the returned document as JSON.
func PageFunc(root routes.Resource, cfg Config) routes.HandlerFunc {
	var (
		once     sync.Once
		doc      *Document
		buildErr error
	)
	return func(rc *routes.Context, _ routes.Args) (any, error) {
		once.Do(func() {
			doc, buildErr = Build(root, cfg)
		})
		if buildErr != nil {
			return nil, buildErr
		}
		return doc, nil
	}
}

func htmlListing(d *Document) string {
	title := d.Title
	if title == "" {
		title = "Sitemap"
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html><head><title>%s</title></head><body>\n", html.EscapeString(title))
	fmt.Fprintf(&buf, "<h1>%s</h1>\n<ul>\n", html.EscapeString(title))
	for _, e := range d.Entries {
		label := e.Path
		if e.Method != "" {
			label = e.Method + " " + label
		}
		var params []string
		for _, p := range e.Params {
			params = append(params, p.Name+":"+p.Type)
		}
		if len(params) > 0 {
			label += " (" + strings.Join(params, ", ") + ")"
		}
		fmt.Fprintf(&buf, "<li>%s</li>\n", html.EscapeString(label))
	}
	buf.WriteString("</ul>\n</body></html>\n")
	return buf.String()
}
