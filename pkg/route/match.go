package route

import "strings"

// Matcher holds the read-only routing configuration shared by all requests.
type Matcher struct {
	baseURL       string
	entryPoint    string
	defaultAction string
	rules         []Rule
}

// NewMatcher creates a matcher. The rules slice is copied; the matcher is
// safe for concurrent use.
func NewMatcher(baseURL, entryPoint, defaultAction string, rules []Rule) *Matcher {
	return &Matcher{
		baseURL:       baseURL,
		entryPoint:    entryPoint,
		defaultAction: defaultAction,
		rules:         append([]Rule(nil), rules...),
	}
}

// Match resolves a raw request URI.
func (m *Matcher) Match(rawPath string) Route {
	return resolve(Clean(rawPath, m.baseURL, m.entryPoint), m.rules, m.defaultAction)
}

// Rules returns a copy of the routing table.
func (m *Matcher) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

// Match resolves path into a Route.
//
// The path is cleaned first (see Clean). The first rule whose pattern matches
// the cleaned path decides the route; without a match the path is split on
// "/" into action, method and extra.
func Match(path, baseURL string, rules []Rule, defaultAction string) Route {
	return resolve(Clean(path, baseURL, ""), rules, defaultAction)
}

func resolve(path string, rules []Rule, defaultAction string) Route {
	for _, r := range rules {
		if m, ok := r.match(path); ok {
			return r.mapping.resolve(m, defaultAction)
		}
	}
	return Split(path, defaultAction)
}

// Split is the rule-less splitter: up to three "/"-separated tokens become
// action, method and extra. Tokens beyond the third are ignored.
func Split(path, defaultAction string) Route {
	tokens := strings.Split(strings.TrimPrefix(path, "/"), "/")

	r := Route{Action: defaultAction}
	if len(tokens) > 0 && tokens[0] != "" {
		r.Action = tokens[0]
	}
	if len(tokens) > 1 {
		r.Method = tokens[1]
	}
	if len(tokens) > 2 {
		r.Extra = Scalar(tokens[2])
	}
	return r
}

// Clean strips the query string, the base URL prefix and the entry-point
// segment from a request URI. The result always starts with "/".
func Clean(rawPath, baseURL, entryPoint string) string {
	p := rawPath
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	if base := strings.TrimSuffix(baseURL, "/"); base != "" {
		if p == base || strings.HasPrefix(p, base+"/") {
			p = p[len(base):]
		}
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	if entryPoint != "" {
		seg := "/" + strings.Trim(entryPoint, "/")
		if p == seg || strings.HasPrefix(p, seg+"/") {
			p = p[len(seg):]
		}
	}

	if p == "" {
		return "/"
	}
	return p
}
