package routes

import (
	"fmt"
	"strings"
)

// resolveState enumerates the traversal state machine. Resolution is a pure
// function of (resource tree, segment sequence, value bag); the machine
// holds no state across requests.
type resolveState int

const (
	// stateDescending consumes segments against the current resource.
	stateDescending resolveState = iota
	// stateInvoking binds parameters and runs a selected handler. This is
	// the single suspension point: the handler body may block, and the
	// caller's context cancels it cooperatively.
	stateInvoking
	// stateRedescending re-enters descent into a resource produced by a
	// sub-resource or default handler.
	stateRedescending
	// stateSucceeded terminates with the handler's result value.
	stateSucceeded
	// stateFailed terminates with ErrNotFound.
	stateFailed
)

// selection is the method-selector outcome for a single step: exactly one
// of a page to invoke or a child resource to descend into.
type selection struct {
	page  *Page
	child Resource
}

// selectMember picks the next step for the node given the resolution
// context: a named page or child consuming the segment, the index slot when
// no segment remains, or the default slot for an unmatched segment (left
// unconsumed so the binder sees it as the first positional value). Method
// nodes select on the request verb instead and consume nothing.
func (n *Node) selectMember(rc *Context) (selection, error) {
	if n.byMethod {
		verb := strings.ToUpper(rc.method)
		m, ok := n.members[verb]
		if !ok {
			rc.tracef("verb %q not allowed", verb)
			return selection{}, ErrMethodNotAllowed
		}
		rc.tracef("verb %q matched", verb)
		return memberSelection(m), nil
	}

	if len(rc.future) == 0 {
		if n.index == nil {
			rc.tracef("no segments left and no index handler")
			return selection{}, ErrNotFound
		}
		rc.tracef("index selected")
		return selection{page: n.index}, nil
	}

	seg := rc.future[0]
	if m, ok := n.members[seg]; ok {
		rc.consume(1)
		rc.tracef("segment %q matched", seg)
		return memberSelection(m), nil
	}

	if n.def != nil {
		rc.tracef("segment %q unmatched, default selected", seg)
		return selection{page: n.def}, nil
	}

	rc.tracef("segment %q unmatched", seg)
	return selection{}, ErrNotFound
}

func memberSelection(m member) selection {
	if m.kind == memberChild {
		return selection{child: m.child}
	}
	return selection{page: m.page}
}

// resolve walks the segment sequence against the resource tree. It returns
// the invoked handler's result, ErrNotFound for any failure to match or
// bind, or the handler's own error unchanged.
func resolve(rc *Context, root Resource) (any, error) {
	cur := root
	st := stateDescending

	var (
		sel    selection
		result any
		err    error
	)

	for {
		switch st {
		case stateDescending:
			node, nerr := cur.Node()
			if nerr != nil {
				// A broken node description is a construction
				// error, not a routing miss.
				return nil, nerr
			}
			sel, err = node.selectMember(rc)
			if err != nil {
				if err == ErrNotFound {
					st = stateFailed
					break
				}
				return nil, err
			}
			if sel.child != nil {
				cur = sel.child
				break
			}
			st = stateInvoking

		case stateInvoking:
			if cerr := rc.ctx.Err(); cerr != nil {
				return nil, cerr
			}
			page := sel.page
			leading := rc.future

			if page.yieldsResource() {
				args, npos, berr := bind(page.params, leading, rc, false)
				if berr != nil {
					if berr == ErrNotFound {
						st = stateFailed
						break
					}
					return nil, berr
				}
				next, herr := page.subFn(rc, args)
				if herr != nil {
					return nil, herr
				}
				if next == nil {
					return nil, fmt.Errorf("routes: sub-resource handler %q returned no resource", page.name)
				}
				rc.consume(npos)
				cur = next
				st = stateRedescending
				break
			}

			args, npos, berr := bind(page.params, leading, rc, true)
			if berr != nil {
				if berr == ErrNotFound {
					st = stateFailed
					break
				}
				return nil, berr
			}
			rc.consume(npos)
			rc.tracef("invoking %q", page.name)
			result, err = page.fn(rc, args)
			if err != nil {
				return nil, err
			}
			st = stateSucceeded

		case stateRedescending:
			rc.tracef("descending into resource from %q", sel.page.name)
			st = stateDescending

		case stateSucceeded:
			return result, nil

		case stateFailed:
			return nil, ErrNotFound
		}
	}
}
