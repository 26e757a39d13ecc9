// Package routeshttp serves a routes.Site over net/http.
//
// Handler adapts an incoming request into a resolution: the URL path is
// split into segments, the query string and an x-www-form-urlencoded body
// are merged into the named-value bag (later sources win, form over query),
// and the site resolves the request on the request's context. Handler
// results map onto responses by type: strings render as text/html, byte
// slices as raw bytes, Responder values render themselves, and anything
// else is encoded as JSON.
//
//	site, err := routes.NewSite(root)
//	if err != nil {
//		log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", routeshttp.NewHandler(site, routeshttp.Config{}))
//
// Handlers reach the underlying request through an injected parameter:
//
//	root.Page("whoami", func(rc *routes.Context, args routes.Args) (any, error) {
//		r := args.Value("r").(*http.Request)
//		return r.RemoteAddr, nil
//	}, routeshttp.Request("r"))
//
// The package also carries the usual middleware set (request ID, panic
// recovery, access logging, Prometheus metrics) as plain
// func(http.Handler) http.Handler values chained with Chain.
package routeshttp
