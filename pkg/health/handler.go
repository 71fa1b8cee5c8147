package health

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
)

// LivenessHandler reports that the process is up. It never runs checks.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, &Response{Status: StatusHealthy})
			return
		}
		writeText(w, http.StatusOK, "OK")
	}
}

// ReadinessHandler runs checks on every request. Any failure answers 503;
// the plain-text body names the failing checks in sorted order.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)
		if wantsJSON(r) {
			writeJSON(w, resp.httpStatus(), resp)
			return
		}
		if resp.Status == StatusHealthy {
			writeText(w, http.StatusOK, "OK")
			return
		}
		writeText(w, http.StatusServiceUnavailable, "Service Unavailable: "+strings.Join(resp.failing(), ", "))
	}
}

func (r *Response) httpStatus() int {
	if r.Status == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

func (r *Response) failing() []string {
	var names []string
	for name, c := range r.Checks {
		if c.Status == StatusUnhealthy {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// ?format=json wins over the Accept header so probes are easy to curl.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
