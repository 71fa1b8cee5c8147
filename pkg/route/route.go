package route

import (
	"strconv"
	"strings"
)

// Route is the resolved (action, method, extra) triple for one request.
// It is derived once per request and never modified afterward.
type Route struct {
	Action string
	Method string // empty means the controller's default method
	Extra  Extra
}

// String renders the route as "action/method/extra" for logs and error pages.
func (r Route) String() string {
	var b strings.Builder
	b.WriteString(r.Action)
	b.WriteByte('/')
	b.WriteString(r.Method)
	if !r.Extra.IsZero() {
		b.WriteByte('/')
		b.WriteString(r.Extra.String())
	}
	return b.String()
}

// WithMethod returns a copy of the route with the method replaced.
// Used by the dispatcher to record the controller's default method.
func (r Route) WithMethod(method string) Route {
	r.Method = method
	return r
}

// Extra is the optional trailing argument of a route.
// It is either absent, a single string, or an ordered sequence of strings.
// The zero value is absent.
type Extra struct {
	values   []string
	sequence bool
}

// Scalar returns an Extra holding a single value.
// An empty string yields an absent Extra.
func Scalar(v string) Extra {
	if v == "" {
		return Extra{}
	}
	return Extra{values: []string{v}}
}

// Sequence returns an Extra holding an ordered sequence.
// Empty values are dropped; if none remain the Extra is absent.
func Sequence(values ...string) Extra {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return Extra{}
	}
	return Extra{values: out, sequence: true}
}

// IsZero reports whether the extra argument is absent.
func (e Extra) IsZero() bool {
	return len(e.values) == 0
}

// IsSequence reports whether the extra argument is an ordered sequence.
func (e Extra) IsSequence() bool {
	return e.sequence
}

// Len returns the number of values held.
func (e Extra) Len() int {
	return len(e.values)
}

// Values returns a copy of the held values.
func (e Extra) Values() []string {
	if len(e.values) == 0 {
		return nil
	}
	out := make([]string, len(e.values))
	copy(out, e.values)
	return out
}

// At returns the i-th value, or an empty string when out of range.
func (e Extra) At(i int) string {
	if i < 0 || i >= len(e.values) {
		return ""
	}
	return e.values[i]
}

// String returns the scalar value, or the sequence joined with "/".
func (e Extra) String() string {
	return strings.Join(e.values, "/")
}

// Int parses the first value as a decimal integer.
func (e Extra) Int() (int, error) {
	return strconv.Atoi(e.At(0))
}
