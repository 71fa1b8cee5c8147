package errorbag

import (
	"errors"
	"html/template"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/colony/pkg/session"
)

// SessionKey is the session data key holding trapped errors.
const SessionKey = "_errors"

// ErrNoRedirector is returned by Trap when the bag has nowhere to send the user.
var ErrNoRedirector = errors.New("errorbag: no redirector configured")

// Redirector produces the redirect signal returned by Trap.
type Redirector interface {
	Redirect(location string) error
}

// Bag maps field ids to ordered messages. It belongs to a single request.
type Bag struct {
	sess   *session.Session
	r      Redirector
	errors map[string][]string
	order  []string
}

// New creates a bag for the request, restoring errors trapped by the
// previous request and removing them from the session.
func New(sess *session.Session, r Redirector) *Bag {
	b := &Bag{
		sess:   sess,
		r:      r,
		errors: make(map[string][]string),
	}
	if sess == nil {
		return b
	}

	if raw, ok := sess.GetValue(SessionKey); ok {
		b.restore(raw)
		sess.DeleteValue(SessionKey)
	}
	return b
}

// Group is one field's messages as stashed in the session by Trap.
type Group struct {
	ID       string   `json:"id"`
	Messages []string `json:"messages"`
}

// restore accepts the native group list and the shape it takes after a JSON
// round trip. Plain maps are accepted too and restored in key order.
func (b *Bag) restore(raw any) {
	switch v := raw.(type) {
	case []Group:
		for _, g := range v {
			b.addAll(g.ID, g.Messages)
		}
	case []any:
		for _, item := range v {
			g, ok := item.(map[string]any)
			if !ok {
				continue
			}
			id, _ := g["id"].(string)
			b.addAll(id, g["messages"])
		}
	case map[string][]string:
		for _, id := range slices.Sorted(maps.Keys(v)) {
			b.addAll(id, v[id])
		}
	case map[string]any:
		for _, id := range slices.Sorted(maps.Keys(v)) {
			b.addAll(id, v[id])
		}
	}
}

func (b *Bag) addAll(id string, msgs any) {
	switch msgs := msgs.(type) {
	case []any:
		for _, m := range msgs {
			if s, ok := m.(string); ok {
				b.Add(id, s)
			}
		}
	case []string:
		for _, s := range msgs {
			b.Add(id, s)
		}
	case string:
		b.Add(id, msgs)
	}
}

// Add appends message to the group id.
func (b *Bag) Add(id, message string) {
	if _, ok := b.errors[id]; !ok {
		b.order = append(b.order, id)
	}
	b.errors[id] = append(b.errors[id], message)
}

// Lookup returns the messages for id in insertion order.
// An unknown id yields an empty, non-nil slice.
func (b *Bag) Lookup(id string) []string {
	msgs := b.errors[id]
	out := make([]string, len(msgs))
	copy(out, msgs)
	return out
}

// Has reports whether id has at least one message.
func (b *Bag) Has(id string) bool {
	return len(b.errors[id]) > 0
}

// Len returns the number of groups holding messages.
func (b *Bag) Len() int {
	return len(b.errors)
}

// All returns a copy of every group.
func (b *Bag) All() map[string][]string {
	out := make(map[string][]string, len(b.errors))
	for id, msgs := range b.errors {
		out[id] = slices.Clone(msgs)
	}
	return out
}

// Groups returns every group in insertion order.
func (b *Bag) Groups() []Group {
	out := make([]Group, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, Group{ID: id, Messages: slices.Clone(b.errors[id])})
	}
	return out
}

// Messages returns the messages for id, or every message in group order
// when id is empty.
func (b *Bag) Messages(id string) []string {
	if id != "" {
		return b.Lookup(id)
	}
	var out []string
	for _, g := range b.order {
		out = append(out, b.errors[g]...)
	}
	return out
}

// Trap stashes the groups in the session and returns the redirect signal
// when at least one message was recorded. It returns nil otherwise, and the
// handler continues.
func (b *Bag) Trap(location string) error {
	if b.Len() == 0 {
		return nil
	}
	if b.sess != nil {
		b.sess.SetValue(SessionKey, b.Groups())
	}
	if b.r == nil {
		return ErrNoRedirector
	}
	return b.r.Redirect(location)
}

// Format renders the messages for id (all when empty) as an HTML list.
func (b *Bag) Format(id string) template.HTML {
	return FormatList(b.Messages(id))
}

// FormatList renders messages as an escaped "<ul><li>" list.
func FormatList(messages []string) template.HTML {
	var sb strings.Builder
	sb.WriteString("<ul>\n")
	for _, m := range messages {
		sb.WriteString("<li>")
		sb.WriteString(template.HTMLEscapeString(m))
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</ul>")
	return template.HTML(sb.String())
}
