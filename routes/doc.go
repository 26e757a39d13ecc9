// Package routes resolves a request path by traversing a tree of resource
// objects instead of matching a table of URL patterns. Path segments are
// consumed one at a time while descending through nested resources; each
// step selects a page (a terminal handler), a child resource, or one of the
// special index/default slots, and the selected handler's declared
// parameters are bound from the leftover path segments and the named-value
// bag with type coercion.
//
// # Resources and pages
//
// A resource is anything implementing the Resource interface; *Node is the
// ready-made implementation. Members are registered explicitly, and name
// collisions fail at construction:
//
//	root := routes.NewNode().
//		Index(func(rc *routes.Context, _ routes.Args) (any, error) {
//			return "Index Page", nil
//		}).
//		Page("hello", func(rc *routes.Context, args routes.Args) (any, error) {
//			return "Hello " + args.String("name") + "!", nil
//		}, routes.String("name"))
//
// Resolving ["hello", "John"] invokes the hello page with name="John"; the
// same page is reached by ["hello"] with a named value name=John. A missing
// required parameter, like an integer parameter given "abc", makes the
// whole resolution ErrNotFound rather than an application error, so probing
// clients cannot tell malformed arguments from nonexistent routes.
//
// # Descent
//
// Child resources mount statically with Child or the Dir map literal.
// Sub-resource handlers descend dynamically: they bind leading segments and
// return a further Resource:
//
//	root.Sub("forum", func(rc *routes.Context, args routes.Args) (routes.Resource, error) {
//		return &Forum{ID: args.Int("id")}, nil
//	}, routes.Int("id"))
//
// The default slot catches unmatched segments, receiving the segment as its
// first positional value; SubDefault lets it yield a resource to continue
// descent.
//
// # Sites
//
// A Site holds the ordered root resources and retries resolution against
// each on ErrNotFound:
//
//	site, err := routes.NewSite(appRoot, staticRoot)
//	result, err := site.Resolve(ctx, segments, values)
//
// Application errors returned by handler bodies propagate unchanged and
// never trigger fallback. The tree is read-only after construction, so any
// number of resolutions may run concurrently; handler bodies receive the
// caller's context for cancellation.
package routes
