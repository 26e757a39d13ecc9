package routeshttp

import (
	"fmt"
	"net/http"
)

// redirect is a Responder sending the client to another location.
type redirect struct {
	location string
	code     int
}

func (rd redirect) Respond(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, rd.location, rd.code)
}

// Redirect returns a result value that answers 302 Found with the given
// location. Return it from a page body to send the client elsewhere:
//
//	return routeshttp.Redirect("/forum/" + strconv.Itoa(id)), nil
func Redirect(location string) Responder {
	return redirect{location: location, code: http.StatusFound}
}

// SeeOther returns a result value answering 303 See Other, the usual
// post-then-redirect response.
func SeeOther(location string) Responder {
	return redirect{location: location, code: http.StatusSeeOther}
}

// PathRewrite is an error value requesting internal re-dispatch: the handler
// resolves the request again under Path without a client round trip. The
// merged value bag and request method carry over; only the path changes.
type PathRewrite struct {
	Path string
}

func (p *PathRewrite) Error() string {
	return fmt.Sprintf("routeshttp: rewrite to %q", p.Path)
}
