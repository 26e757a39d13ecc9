package routes

import "errors"

// ErrNotFound is the uniform "no match" outcome of a resolution. It covers
// unmatched path segments, missing index handlers, absent defaults and every
// parameter binding or validation failure. Collapsing those cases into one
// error keeps route shapes indistinguishable from invalid arguments for
// probing clients.
//
// ErrNotFound is the only error that triggers fallback to the next root
// resource at the site level.
var ErrNotFound = errors.New("no matching resource was found")

// ErrMethodNotAllowed is returned by a method-dispatched node when no page
// is registered for the request verb. Unlike ErrNotFound it does not trigger
// site fallback; it propagates to the transport layer like an application
// error and typically renders as 405 Method Not Allowed.
var ErrMethodNotAllowed = errors.New("method is not allowed")
