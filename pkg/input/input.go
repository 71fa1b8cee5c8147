package input

import (
	"errors"
	"html"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// Synthetic keys added to every snapshot.
const (
	KeyIPAddress     = "IP_ADDRESS"
	KeyRequestMethod = "REQUEST_METHOD"
)

// maxDepth is the number of key levels kept for bracketed names.
const maxDepth = 3

// maxMemory bounds multipart parsing held in memory.
const maxMemory = 32 << 20

// Values is the cleaned input tree. Leaves are strings; nested groups are
// Values.
type Values map[string]any

// Filter builds the cleaned snapshot of r.
// Sources are applied in order: query string, form body, cookies.
func Filter(r *http.Request) Values {
	v := make(Values)

	if r.URL != nil {
		v.merge(r.URL.Query())
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil && errors.Is(err, http.ErrNotMultipart) {
		_ = r.ParseForm()
	}
	v.merge(r.PostForm)

	for _, c := range r.Cookies() {
		v.set(c.Name, c.Value)
	}

	v[KeyIPAddress] = clientIP(r)
	v[KeyRequestMethod] = strings.ToLower(r.Method)

	return v
}

func (v Values) merge(src map[string][]string) {
	for name, vals := range src {
		for _, val := range vals {
			v.set(name, val)
		}
	}
}

// set stores val under the cleaned, bracket-split name.
func (v Values) set(name, val string) {
	keys := splitKey(name)
	if len(keys) == 0 {
		return
	}

	node := v
	for i, k := range keys {
		if k == "" {
			// "tags[]" appends with the next numeric index.
			k = strconv.Itoa(len(node))
		}
		if i == len(keys)-1 {
			node[k] = CleanValue(val)
			return
		}
		child, ok := node[k].(Values)
		if !ok {
			child = make(Values)
			node[k] = child
		}
		node = child
	}
}

// splitKey turns `a[b][c]` into cleaned parts ["a", "b", "c"].
// Levels beyond maxDepth are dropped.
func splitKey(name string) []string {
	base, rest, hasBrackets := strings.Cut(name, "[")
	base = CleanKey(base)
	if base == "" {
		return nil
	}

	keys := []string{base}
	if !hasBrackets {
		return keys
	}

	rest = "[" + rest
	for strings.HasPrefix(rest, "[") && len(keys) < maxDepth {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		keys = append(keys, CleanKey(rest[1:end]))
		rest = rest[end+1:]
	}
	return keys
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// String returns the leaf at path, or "" when absent or not a leaf.
func (v Values) String(path ...string) string {
	s, _ := v.lookup(path).(string)
	return s
}

// Raw returns the leaf at path with the entity encoding undone. Use it for
// values that are stored or handed to an escaping template engine.
func (v Values) Raw(path ...string) string {
	return html.UnescapeString(v.String(path...))
}

// Sub returns the group at path, or an empty Values.
func (v Values) Sub(path ...string) Values {
	if g, ok := v.lookup(path).(Values); ok {
		return g
	}
	return Values{}
}

// Has reports whether anything is stored at path.
func (v Values) Has(path ...string) bool {
	return v.lookup(path) != nil
}

// IP returns the client address.
func (v Values) IP() string {
	return v.String(KeyIPAddress)
}

// Method returns the lowercase request method.
func (v Values) Method() string {
	return v.String(KeyRequestMethod)
}

func (v Values) lookup(path []string) any {
	var cur any = v
	for _, k := range path {
		g, ok := cur.(Values)
		if !ok {
			return nil
		}
		if cur, ok = g[k]; !ok {
			return nil
		}
	}
	if len(path) == 0 {
		return nil
	}
	return cur
}
