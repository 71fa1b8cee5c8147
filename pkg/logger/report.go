package logger

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"
)

// Report describes one uncaught dispatch failure.
type Report struct {
	Time    time.Time
	Message string
	Route   string
	Stack   string
	Post    map[string]any
	Session map[string]any
	Request map[string]string
}

// Attrs returns the report as slog attributes, excluding the message.
func (r Report) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Time("occurred_at", r.Time),
		slog.String("route", r.Route),
	}
	if r.Stack != "" {
		attrs = append(attrs, slog.String("stack", r.Stack))
	}
	if len(r.Post) > 0 {
		attrs = append(attrs, slog.Any("post", r.Post))
	}
	if len(r.Session) > 0 {
		attrs = append(attrs, slog.Any("session", r.Session))
	}
	if len(r.Request) > 0 {
		attrs = append(attrs, slog.Any("request", r.Request))
	}
	return attrs
}

// String renders a plain-text report suitable for an email body.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", r.Time.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Route: %s\n", r.Route)
	fmt.Fprintf(&b, "Message: %s\n", r.Message)
	if r.Stack != "" {
		fmt.Fprintf(&b, "\nStack:\n%s\n", strings.TrimRight(r.Stack, "\n"))
	}
	writeSection(&b, "POST", r.Post)
	writeSection(&b, "Session", r.Session)
	if len(r.Request) > 0 {
		b.WriteString("\nRequest:\n")
		for _, k := range slices.Sorted(maps.Keys(r.Request)) {
			fmt.Fprintf(&b, "  %s: %s\n", k, r.Request[k])
		}
	}
	return b.String()
}

func writeSection(b *strings.Builder, title string, m map[string]any) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fmt.Fprintf(b, "  %s: %v\n", k, m[k])
	}
}
