package routes

import (
	"context"
	"fmt"
)

// Context carries the per-request resolution state: the remaining path
// segments (consumed from the front), the already-consumed segments, the
// named-value bag and a diagnostic trace. A fresh Context is created for
// every resolution attempt; nothing is shared between concurrent requests.
type Context struct {
	ctx    context.Context
	method string
	future []string
	past   []string
	values map[string]string
	trace  []string
}

func newContext(ctx context.Context, method string, segments []string, values map[string]string) *Context {
	future := make([]string, len(segments))
	copy(future, segments)
	if values == nil {
		values = map[string]string{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{ctx: ctx, method: method, future: future, values: values}
}

// Context returns the context.Context the resolution was started with.
// Handler bodies should pass it to any blocking work so the caller can
// cancel an in-flight invocation.
func (c *Context) Context() context.Context { return c.ctx }

// Method returns the request method the resolution was started with, or ""
// when none was supplied. Method-dispatched nodes select on it.
func (c *Context) Method() string { return c.method }

// Remaining returns a copy of the path segments not yet consumed.
func (c *Context) Remaining() []string {
	out := make([]string, len(c.future))
	copy(out, c.future)
	return out
}

// Consumed returns a copy of the path segments consumed so far.
func (c *Context) Consumed() []string {
	out := make([]string, len(c.past))
	copy(out, c.past)
	return out
}

// Value returns a named value from the bag and whether it is present.
func (c *Context) Value(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Trace returns the diagnostic steps recorded during resolution. The trace
// never reaches the client; it exists for logs and tests.
func (c *Context) Trace() []string {
	out := make([]string, len(c.trace))
	copy(out, c.trace)
	return out
}

// consume moves up to n segments from the remaining path to the consumed
// list.
func (c *Context) consume(n int) {
	if n > len(c.future) {
		n = len(c.future)
	}
	c.past = append(c.past, c.future[:n]...)
	c.future = c.future[n:]
}

func (c *Context) tracef(format string, args ...any) {
	c.trace = append(c.trace, fmt.Sprintf(format, args...))
}
