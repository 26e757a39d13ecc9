package routes

import (
	"fmt"
	"sort"
	"strings"
)

// Resource is a node in the traversal tree. Implementations return a Node
// describing their pages and children. Node must be deterministic: the
// resolver may call it on every descent, and concurrent resolutions share
// the same resource values.
//
// *Node implements Resource directly, so statically built trees need no
// extra types. Application types with per-instance state typically build a
// Node from method values:
//
//	type Forum struct{ ID int }
//
//	func (f *Forum) Node() (*routes.Node, error) {
//		n := routes.NewNode().
//			Index(f.index).
//			Page("topic", f.topic, routes.Int("topic"))
//		return n, n.Err()
//	}
type Resource interface {
	Node() (*Node, error)
}

// HandlerFunc is the body of a page: it receives the resolution context and
// its bound arguments and produces an opaque result value. Errors other
// than ErrNotFound propagate to the transport layer unchanged.
type HandlerFunc func(rc *Context, args Args) (any, error)

// SubFunc is the body of a sub-resource handler: it binds arguments like a
// page but yields a further Resource to continue descent into.
type SubFunc func(rc *Context, args Args) (Resource, error)

// Page is an invocable handler together with its declared parameters.
type Page struct {
	name   string
	params []Param
	fn     HandlerFunc
	subFn  SubFunc
}

// Name returns the name the page is registered under ("index" and "default"
// for the special slots).
func (p *Page) Name() string { return p.name }

// Params returns a copy of the page's declared parameters.
func (p *Page) Params() []Param {
	out := make([]Param, len(p.params))
	copy(out, p.params)
	return out
}

// yieldsResource reports whether invoking the page produces a Resource to
// descend into rather than a terminal result.
func (p *Page) yieldsResource() bool { return p.subFn != nil }

type memberKind int

const (
	memberPage memberKind = iota
	memberChild
	memberSub
)

type member struct {
	kind  memberKind
	page  *Page
	child Resource
}

// Member describes one registered member of a node, for introspection.
type Member struct {
	// Name is the path segment the member matches.
	Name string

	// Page is the handler for page and sub-resource members, nil for
	// child mounts.
	Page *Page

	// Child is the mounted resource for child members, nil otherwise.
	Child Resource

	// Sub reports that Page yields a further resource instead of a
	// terminal result.
	Sub bool
}

// Node is the concrete resource: a validated name-to-member mapping with
// optional index and default slots. Members are fixed once registered;
// construction fails fast on name collisions. All registration methods
// record the first error and turn further calls into no-ops; check Err (or
// build the site, which checks for you) before serving.
type Node struct {
	members  map[string]member
	order    []string
	index    *Page
	def      *Page
	byMethod bool
	err      error
}

// NewNode returns an empty node for member registration.
func NewNode() *Node {
	return &Node{members: make(map[string]member)}
}

// NewMethodNode returns a node that dispatches on the request verb instead
// of consuming a path segment. Members are registered under upper-case verb
// names; an unregistered verb resolves to ErrMethodNotAllowed. Method nodes
// cannot carry index or default slots.
func NewMethodNode() *Node {
	n := NewNode()
	n.byMethod = true
	return n
}

// Node implements Resource.
func (n *Node) Node() (*Node, error) { return n, n.err }

// Err returns the first registration error, if any.
func (n *Node) Err() error { return n.err }

func (n *Node) fail(format string, args ...any) *Node {
	if n.err == nil {
		n.err = fmt.Errorf("routes: "+format, args...)
	}
	return n
}

func (n *Node) register(name string, m member) *Node {
	if n.err != nil {
		return n
	}
	if name == "" || strings.Contains(name, "/") {
		return n.fail("invalid member name %q", name)
	}
	if _, dup := n.members[name]; dup {
		return n.fail("duplicate member %q", name)
	}
	n.members[name] = m
	n.order = append(n.order, name)
	return n
}

// Page registers a terminal page under name.
func (n *Node) Page(name string, fn HandlerFunc, params ...Param) *Node {
	if fn == nil {
		return n.fail("page %q: nil handler", name)
	}
	if err := checkParams(params); err != nil {
		return n.fail("page %q: %v", name, err)
	}
	return n.register(name, member{kind: memberPage, page: &Page{name: name, params: params, fn: fn}})
}

// Sub registers a sub-resource handler under name: it consumes the matching
// segment, binds its parameters from the following segments and named
// values, and descends into the resource it returns.
func (n *Node) Sub(name string, fn SubFunc, params ...Param) *Node {
	if fn == nil {
		return n.fail("sub-resource %q: nil handler", name)
	}
	if err := checkParams(params); err != nil {
		return n.fail("sub-resource %q: %v", name, err)
	}
	return n.register(name, member{kind: memberSub, page: &Page{name: name, params: params, subFn: fn}})
}

// Child mounts a static child resource under name.
func (n *Node) Child(name string, r Resource) *Node {
	if r == nil {
		return n.fail("child %q: nil resource", name)
	}
	return n.register(name, member{kind: memberChild, child: r})
}

// Index registers the page selected when no path segments remain. Its
// parameters can only be filled from named values and defaults; by
// definition no positional segments are left.
func (n *Node) Index(fn HandlerFunc, params ...Param) *Node {
	if n.err != nil {
		return n
	}
	if n.byMethod {
		return n.fail("index: method nodes dispatch on the request verb")
	}
	if n.index != nil {
		return n.fail("duplicate index handler")
	}
	if fn == nil {
		return n.fail("index: nil handler")
	}
	if err := checkParams(params); err != nil {
		return n.fail("index: %v", err)
	}
	n.index = &Page{name: "index", params: params, fn: fn}
	return n
}

// Default registers the terminal handler invoked when a segment matches no
// member. It always receives the unmatched segment as its first positional
// value; a default that cannot accept it fails the binding (ErrNotFound)
// at resolution time.
func (n *Node) Default(fn HandlerFunc, params ...Param) *Node {
	return n.setDefault(fn, nil, params)
}

// SubDefault registers a default handler that yields a further resource to
// continue descent into. The segments it binds positionally, at least the
// unmatched one, are considered consumed. It must declare at least one
// positional or Rest parameter to receive the unmatched segment.
func (n *Node) SubDefault(fn SubFunc, params ...Param) *Node {
	if fn != nil && !acceptsSegment(params) {
		return n.fail("default: sub-resource default must accept the unmatched segment")
	}
	return n.setDefault(nil, fn, params)
}

func (n *Node) setDefault(fn HandlerFunc, subFn SubFunc, params []Param) *Node {
	if n.err != nil {
		return n
	}
	if n.byMethod {
		return n.fail("default: method nodes dispatch on the request verb")
	}
	if n.def != nil {
		return n.fail("duplicate default handler")
	}
	if fn == nil && subFn == nil {
		return n.fail("default: nil handler")
	}
	if err := checkParams(params); err != nil {
		return n.fail("default: %v", err)
	}
	n.def = &Page{name: "default", params: params, fn: fn, subFn: subFn}
	return n
}

// Members returns the registered members in registration order.
func (n *Node) Members() []Member {
	out := make([]Member, 0, len(n.order))
	for _, name := range n.order {
		m := n.members[name]
		out = append(out, Member{
			Name:  name,
			Page:  m.page,
			Child: m.child,
			Sub:   m.kind == memberSub,
		})
	}
	return out
}

// IndexPage returns the index slot, or nil.
func (n *Node) IndexPage() *Page { return n.index }

// DefaultPage returns the default slot, or nil.
func (n *Node) DefaultPage() *Page { return n.def }

// MethodDispatch reports whether the node dispatches on the request verb.
func (n *Node) MethodDispatch() bool { return n.byMethod }

// checkParams validates a declared parameter list: unique names, at most
// one Rest parameter with no positional parameter after it, and RestNamed
// only in the final position.
func checkParams(params []Param) error {
	names := make(map[string]bool, len(params))
	sawRest := false
	for i, p := range params {
		if p.name == "" {
			return fmt.Errorf("parameter %d has no name", i)
		}
		if names[p.name] {
			return fmt.Errorf("duplicate parameter %q", p.name)
		}
		names[p.name] = true
		switch p.kind {
		case paramVarPositional:
			if sawRest {
				return fmt.Errorf("multiple Rest parameters")
			}
			sawRest = true
		case paramPositional:
			if sawRest {
				return fmt.Errorf("positional parameter %q after Rest", p.name)
			}
		case paramVarKeyword:
			if i != len(params)-1 {
				return fmt.Errorf("RestNamed parameter %q must be last", p.name)
			}
		}
	}
	return nil
}

// acceptsSegment reports whether the parameter list can take at least one
// positional value.
func acceptsSegment(params []Param) bool {
	for _, p := range params {
		if p.kind == paramPositional || p.kind == paramVarPositional {
			return true
		}
	}
	return false
}

// Dir is a map-literal resource: every entry becomes a static child mount.
//
//	site, err := routes.NewSite(routes.Dir{
//		"forum": forumNode,
//		"news":  newsNode,
//	})
type Dir map[string]Resource

// Node implements Resource. Entries are registered in sorted name order so
// that construction errors are deterministic.
func (d Dir) Node() (*Node, error) {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)

	n := NewNode()
	for _, name := range names {
		n.Child(name, d[name])
	}
	return n, n.err
}
