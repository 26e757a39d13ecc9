package routeshttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/gotraverse/traverse/routes"
)

type requestKey struct{}

// WithRequest stores the request on the context for retrieval inside
// handler bodies. Handler does this for every request it serves.
func WithRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

// RequestFrom returns the request stored in the context, or nil.
func RequestFrom(ctx context.Context) *http.Request {
	r, _ := ctx.Value(requestKey{}).(*http.Request)
	return r
}

// Request declares an injected parameter carrying the *http.Request the
// resolution was started from. It consumes no path segments or named
// values; resolving outside an HTTP request is an application error.
func Request(name string) routes.Param {
	return routes.Injected(name, func(rc *routes.Context) (any, error) {
		r := RequestFrom(rc.Context())
		if r == nil {
			return nil, errors.New("routeshttp: no request in context")
		}
		return r, nil
	})
}
