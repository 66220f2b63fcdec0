package gate

import "strings"

// Route binds a path pattern to a policy. Pattern segments beginning
// with ':' capture the corresponding path segment by name.
type Route struct {
	Pattern string
	Policy  Policy
}

// Table matches concrete paths against an ordered list of routes. The
// first matching route wins, so literal patterns should precede
// parameterized ones that would also match.
type Table struct {
	routes []Route
}

// NewTable builds a table from the given routes.
func NewTable(routes ...Route) *Table {
	return &Table{routes: routes}
}

// DefaultTable is the application's route map.
func DefaultTable() *Table {
	return NewTable(
		Route{"/", Authenticated},
		Route{"/create", Authenticated},
		Route{"/posts/:id", Authenticated},
		Route{"/posts/:id/edit", Authenticated},
		Route{"/profile/:id", Authenticated},
		Route{"/settings", Authenticated},
		Route{"/login", PublicOnly},
		Route{"/register", PublicOnly},
		Route{"/403", Open},
		Route{"/admin", AdminOnly},
		Route{"/admin/users", AdminOnly},
		Route{"/admin/posts", AdminOnly},
	)
}

// Routes returns the table's routes in match order.
func (t *Table) Routes() []Route {
	return t.routes
}

// Match finds the first route whose pattern matches path and returns
// it with any captured parameters.
func (t *Table) Match(path string) (Route, map[string]string, bool) {
	segs := splitPath(path)
	for _, r := range t.routes {
		if params, ok := matchPattern(splitPath(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchPattern(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, ps := range pattern {
		if strings.HasPrefix(ps, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[ps[1:]] = segs[i]
			continue
		}
		if ps != segs[i] {
			return nil, false
		}
	}
	return params, true
}
