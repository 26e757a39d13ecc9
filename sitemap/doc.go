// Package sitemap builds a serializable description of a resource tree.
//
// Build walks the statically reachable nodes of a routes tree and collects
// one Entry per reachable handler: pages, index and default slots, dynamic
// sub-resource handlers and method-dispatched verbs, each with its declared
// parameter descriptors. Dynamic members cannot be walked past, so they
// appear as single entries marked Dynamic.
//
//	doc, err := sitemap.Build(root, sitemap.Config{Title: "Forum"})
//	data, err := doc.JSON()
//
// The document serializes to JSON and YAML, and Serve exposes it over HTTP
// the usual way:
//
//	http.Handle("/sitemap/", sitemap.Serve(root, sitemap.Config{Title: "Forum"}))
//	// /sitemap/             - plain HTML listing
//	// /sitemap/schema.json  - document as JSON
//	// /sitemap/schema.yaml  - document as YAML
package sitemap
