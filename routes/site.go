package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// maxValidateDepth bounds construction-time tree validation. Application
// resources that describe themselves dynamically past this depth are
// validated on first use instead.
const maxValidateDepth = 32

// Site is the top-level entry point: an ordered list of root resources.
// Roots are tried in order; the first one to resolve wins, and ErrNotFound
// from one root falls through to the next. Order is significant and is the
// sole mechanism for arbitrating between roots claiming the same top-level
// segment.
//
// A Site is immutable after construction and safe for concurrent use.
type Site struct {
	roots []Resource

	// Logger, when set, receives the per-request resolution trace at
	// debug level. Nil disables trace logging.
	Logger *slog.Logger
}

// NewSite builds a site from the ordered root resources. Every statically
// reachable node is validated here, so registration mistakes (duplicate
// member names, nil handlers, malformed defaults) fail at startup rather
// than per request.
func NewSite(roots ...Resource) (*Site, error) {
	if len(roots) == 0 {
		return nil, errors.New("routes: site requires at least one root resource")
	}
	seen := make(map[*Node]bool)
	for i, root := range roots {
		if root == nil {
			return nil, fmt.Errorf("routes: root %d is nil", i)
		}
		if err := validateTree(root, seen, 0); err != nil {
			return nil, err
		}
	}
	return &Site{roots: roots}, nil
}

func validateTree(r Resource, seen map[*Node]bool, depth int) error {
	if depth > maxValidateDepth {
		return nil
	}
	node, err := r.Node()
	if err != nil {
		return err
	}
	if seen[node] {
		return nil
	}
	seen[node] = true
	for _, name := range node.order {
		m := node.members[name]
		if m.kind != memberChild {
			continue
		}
		if err := validateTree(m.child, seen, depth+1); err != nil {
			return fmt.Errorf("child %q: %w", name, err)
		}
	}
	return nil
}

// Roots returns the ordered root resources.
func (s *Site) Roots() []Resource {
	out := make([]Resource, len(s.roots))
	copy(out, s.roots)
	return out
}

// Resolve walks the ordered roots with the given path segments and named
// values. Segments must be percent-decoded and free of empty trailing
// entries; the transport layer owns that normalization. It returns the
// first successful result, ErrNotFound when every root misses, or the first
// application error unchanged (application errors never trigger fallback).
func (s *Site) Resolve(ctx context.Context, segments []string, values map[string]string) (any, error) {
	return s.ResolveMethod(ctx, "", segments, values)
}

// ResolveMethod is Resolve with a request method made available to
// method-dispatched nodes.
func (s *Site) ResolveMethod(ctx context.Context, method string, segments []string, values map[string]string) (any, error) {
	for i, root := range s.roots {
		rc := newContext(ctx, method, segments, values)
		result, err := resolve(rc, root)
		if err == nil {
			s.logTrace(rc, i, "resolved")
			return result, nil
		}
		if !errors.Is(err, ErrNotFound) {
			s.logTrace(rc, i, "failed")
			return nil, err
		}
		s.logTrace(rc, i, "not found")
	}
	return nil, ErrNotFound
}

func (s *Site) logTrace(rc *Context, root int, outcome string) {
	if s.Logger == nil {
		return
	}
	s.Logger.Debug("resolution "+outcome,
		slog.Int("root", root),
		slog.Any("consumed", rc.past),
		slog.Any("trace", rc.trace),
	)
}
