// Package router maps URL fragments ("#route?k=v") onto client views and
// enforces the signed-in / signed-out route guards.
package router

import (
	"net/url"
	"sort"
	"strings"
)

// Route names a client view.
type Route string

const (
	Home           Route = "home"
	Login          Route = "login"
	Register       Route = "register"
	CheckEmail     Route = "check-email"
	VerifyEmail    Route = "verify-email"
	MagicLink      Route = "magic-link"
	ForgotPassword Route = "forgot-password"
	ResetPassword  Route = "reset-password"
	App            Route = "app"
)

var known = map[Route]struct{}{
	Home: {}, Login: {}, Register: {}, CheckEmail: {}, VerifyEmail: {},
	MagicLink: {}, ForgotPassword: {}, ResetPassword: {}, App: {},
}

// Known reports whether r has a view. Unknown routes render "not found".
func Known(r Route) bool {
	_, ok := known[r]
	return ok
}

// Location is a parsed fragment: the route plus a flat parameter mapping.
type Location struct {
	Route  Route
	Params map[string]string
}

// ParseHash splits a fragment such as "#reset-password?token=abc".
//
// Empty input and a bare "#" map to Home. Query parameters are decoded into a
// flat mapping; when a key repeats, the first value wins. Params is never nil.
func ParseHash(hash string) Location {
	raw := strings.TrimSpace(hash)
	if raw == "" || raw == "#" {
		return Location{Route: Home, Params: map[string]string{}}
	}

	raw = strings.TrimPrefix(raw, "#")
	route, query, _ := strings.Cut(raw, "?")

	params := parseQuery(query)

	if route == "" {
		route = string(Home)
	}
	return Location{Route: Route(route), Params: params}
}

// parseQuery splits on "&" only. A key or value with a malformed escape is
// kept as written instead of dropping the pair.
func parseQuery(query string) map[string]string {
	params := map[string]string{}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		k = unescape(k)
		if _, seen := params[k]; seen {
			continue
		}
		params[k] = unescape(v)
	}
	return params
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return strings.ReplaceAll(s, "+", " ")
}

// Hash renders the location back into a fragment. Parameters are emitted in
// key order so the result is stable.
func (l Location) Hash() string {
	if len(l.Params) == 0 {
		return "#" + string(l.Route)
	}
	keys := make([]string, 0, len(l.Params))
	for k := range l.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("#")
	b.WriteString(string(l.Route))
	for i, k := range keys {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(l.Params[k]))
	}
	return b.String()
}

// Link is shorthand for Location{route, params}.Hash().
func Link(route Route, params map[string]string) string {
	return Location{Route: route, Params: params}.Hash()
}

// Guard applies the access rules. It returns the route to redirect to and
// true when r may not be shown to a session in this state.
func Guard(r Route, authenticated bool) (Route, bool) {
	switch {
	case r == App && !authenticated:
		return Login, true
	case (r == Login || r == Register) && authenticated:
		return App, true
	}
	return r, false
}
