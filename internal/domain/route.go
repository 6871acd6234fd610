package domain

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

// RouteScheme is the URL scheme used for navigation paths
const RouteScheme = "curio"

// Route names understood by the dispatcher
const (
	RouteIndex          = ""
	RouteCategories     = "categories"
	RouteCategorySearch = "category_search"
	RouteMedias         = "medias"
	RouteCollections    = "collections"
	RouteCollection     = "collection"
	RouteSeries         = "series"
	RouteFeatured       = "featured"
	RouteSearch         = "search"
	RouteLogin          = "login"
	RouteLogout         = "logout"
	RoutePlay           = "play"
)

const redacted = "REDACTED"

// secretParams are route parameters never written to logs
var secretParams = []string{"password"}

// Route is a navigation target: a route name plus flat query parameters.
// It serializes as curio://<name>?<params>.
type Route struct {
	Name   string
	Params url.Values
}

// NewRoute builds a route from alternating key/value pairs.
// Pairs with an empty value are dropped.
func NewRoute(name string, kv ...string) Route {
	params := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		params.Set(kv[i], kv[i+1])
	}
	return Route{Name: name, Params: params}
}

// ParseRoute parses a curio:// path
func ParseRoute(path string) (Route, error) {
	u, err := url.Parse(path)
	if err != nil {
		return Route{}, fmt.Errorf("invalid route %q: %w", path, err)
	}
	if u.Scheme != RouteScheme {
		return Route{}, fmt.Errorf("invalid route %q: unexpected scheme %q", path, u.Scheme)
	}
	return Route{Name: u.Host, Params: u.Query()}, nil
}

func (r Route) String() string {
	u := url.URL{Scheme: RouteScheme, Host: r.Name, Path: "/"}
	if len(r.Params) > 0 {
		u.RawQuery = r.Params.Encode()
	}
	return u.String()
}

// Redacted returns the route string with secret parameters masked
func (r Route) Redacted() string {
	masked := r
	for _, k := range secretParams {
		if r.Params.Has(k) {
			masked = masked.With(k, redacted)
		}
	}
	return masked.String()
}

// LogValue keeps secret parameters out of log records
func (r Route) LogValue() slog.Value {
	return slog.StringValue(r.Redacted())
}

// Get returns the first value for key
func (r Route) Get(key string) string {
	return r.Params.Get(key)
}

// Int returns key parsed as an int, or def if absent or invalid
func (r Route) Int(key string, def int) int {
	v := r.Params.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Bool returns key parsed as a bool ("1", "true"), or def if absent
func (r Route) Bool(key string, def bool) bool {
	v := r.Params.Get(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// With returns a copy of the route with key set to value
func (r Route) With(key, value string) Route {
	params := url.Values{}
	for k, vs := range r.Params {
		params[k] = append([]string(nil), vs...)
	}
	params.Set(key, value)
	return Route{Name: r.Name, Params: params}
}
