package ratelimit

import "strings"

// route is a parsed ServeMux pattern such as "POST /dtrs/{id}/review".
// A {name} segment matches any one non-empty path segment and a trailing
// {name...} segment matches the rest of the path.
type route struct {
	limit    *RouteLimit
	method   string
	segments []string
	rest     bool
}

// parseRoute parses l.Pattern. Patterns without a method or an absolute path
// are rejected.
func parseRoute(l *RouteLimit) (route, bool) {
	method, path, ok := strings.Cut(strings.TrimSpace(l.Pattern), " ")
	path = strings.TrimSpace(path)
	if !ok || method == "" || !strings.HasPrefix(path, "/") {
		return route{}, false
	}

	r := route{limit: l, method: method, segments: splitPath(path)}
	if n := len(r.segments); n > 0 && isWildcard(r.segments[n-1]) && strings.HasSuffix(r.segments[n-1], "...}") {
		r.segments = r.segments[:n-1]
		r.rest = true
	}
	return r, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isWildcard(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

func (r route) match(method string, segments []string) bool {
	if r.method != method {
		return false
	}
	if len(segments) < len(r.segments) || (!r.rest && len(segments) != len(r.segments)) {
		return false
	}
	for i, want := range r.segments {
		if isWildcard(want) {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if want != segments[i] {
			return false
		}
	}
	return true
}

// compileRoutes parses every limit, dropping malformed patterns.
func compileRoutes(limits []RouteLimit) []route {
	routes := make([]route, 0, len(limits))
	for i := range limits {
		if r, ok := parseRoute(&limits[i]); ok {
			routes = append(routes, r)
		}
	}
	return routes
}

// matchRoute returns the first route limit whose pattern matches the request,
// or nil.
func matchRoute(routes []route, method, path string) *RouteLimit {
	segments := splitPath(path)
	for _, r := range routes {
		if r.match(method, segments) {
			return r.limit
		}
	}
	return nil
}
