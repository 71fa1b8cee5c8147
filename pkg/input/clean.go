package input

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once

	placeholderKey = regexp.MustCompile(`__(.+?)__`)
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// CleanKey removes path traversal and "__name__" fragments from a key.
func CleanKey(key string) string {
	if key == "" {
		return ""
	}
	key = strings.ReplaceAll(key, "..", "")
	return placeholderKey.ReplaceAllString(key, "")
}

// CleanValue HTML-escapes quotes, angle brackets and ampersands.
func CleanValue(val string) string {
	if val == "" {
		return ""
	}
	return html.EscapeString(val)
}

// CleanerValue strips all markup and converts line breaks to <br>.
// Use for text that will be displayed to other users.
func CleanerValue(val string) string {
	if val == "" {
		return ""
	}
	initPolicies()
	val = strictPolicy.Sanitize(val)
	val = strings.ReplaceAll(val, "\r", "")
	return strings.ReplaceAll(val, "\n", "<br>")
}

// SafeHTML keeps basic formatting tags (p, a, strong, em, lists, code) and
// drops everything else, including scripts, event handlers and
// javascript: URLs.
func SafeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}
