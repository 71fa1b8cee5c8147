package input_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony/pkg/input"
)

func TestFilter_Sources(t *testing.T) {
	t.Parallel()

	form := url.Values{"name": {"Bob"}, "page": {"form"}}
	r := httptest.NewRequest(http.MethodPost, "/user/save?page=query&q=go", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	r.RemoteAddr = "203.0.113.7:51234"

	v := input.Filter(r)

	assert.Equal(t, "Bob", v.String("name"))
	assert.Equal(t, "form", v.String("page"), "form overrides query")
	assert.Equal(t, "go", v.String("q"))
	assert.Equal(t, "dark", v.String("theme"))
	assert.Equal(t, "203.0.113.7", v.IP())
	assert.Equal(t, "post", v.Method())
}

func TestFilter_CookieOverridesForm(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?mode=query", nil)
	r.AddCookie(&http.Cookie{Name: "mode", Value: "cookie"})

	assert.Equal(t, "cookie", input.Filter(r).String("mode"))
}

func TestFilter_Nesting(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"user[name]":          {"Ann"},
		"user[address][city]": {"Oslo"},
		"deep[a][b][c][d]":    {"cut"},
		"tags[]":              {"go", "web"},
		"plain":               {"x"},
	}
	r := httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil)

	v := input.Filter(r)

	assert.Equal(t, "Ann", v.String("user", "name"))
	assert.Equal(t, "Oslo", v.String("user", "address", "city"))
	assert.Equal(t, "Oslo", v.Sub("user").Sub("address").String("city"))
	assert.Equal(t, "cut", v.String("deep", "a", "b"), "levels beyond the third are dropped")
	assert.Equal(t, "go", v.String("tags", "0"))
	assert.Equal(t, "web", v.String("tags", "1"))
	assert.Equal(t, "x", v.String("plain"))

	assert.False(t, v.Has("user", "missing"))
	assert.Empty(t, v.String("user"), "group is not a leaf")
	assert.Empty(t, v.Sub("plain"))
}

func TestFilter_CleansKeysAndValues(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"../etc":        {"a"},
		"__proto__name": {"b"},
		"comment":       {`<script>alert("x")</script>`},
		"quote":         {`it's`},
	}
	r := httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil)

	v := input.Filter(r)

	assert.Equal(t, "a", v.String("/etc"))
	assert.Equal(t, "b", v.String("name"))
	assert.Equal(t, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;", v.String("comment"))
	assert.Equal(t, "it&#39;s", v.String("quote"))
	assert.Equal(t, `<script>alert("x")</script>`, v.Raw("comment"))
	assert.Equal(t, "it's", v.Raw("quote"))
}

func TestValues_Raw(t *testing.T) {
	t.Parallel()

	form := url.Values{"contact[name]": {"Tom & Jerry"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	v := input.Filter(r)

	assert.Equal(t, "Tom &amp; Jerry", v.String("contact", "name"))
	assert.Equal(t, "Tom & Jerry", v.Raw("contact", "name"))
	assert.Empty(t, v.Raw("contact", "missing"))
}

func TestFilter_Multipart(t *testing.T) {
	t.Parallel()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "Hello & welcome"))
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPut, "/", &body)
	r.Header.Set("Content-Type", w.FormDataContentType())

	v := input.Filter(r)
	assert.Equal(t, "Hello &amp; welcome", v.String("title"))
	assert.Equal(t, "put", v.Method())
}

func TestCleanKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", input.CleanKey(""))
	assert.Equal(t, "ab", input.CleanKey("a..b"))
	assert.Equal(t, "keyrest", input.CleanKey("key__x__rest"))
	assert.Equal(t, "user_name", input.CleanKey("user_name"))
}

func TestCleanerValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", input.CleanerValue(""))
	assert.Equal(t, "Hello world", input.CleanerValue(`<p>Hello <strong>world</strong></p>`))
	assert.Equal(t, "line1<br>line2", input.CleanerValue("line1\r\nline2"))
	assert.NotContains(t, input.CleanerValue(`<script>alert('xss')</script>`), "<script")
}

func TestSafeHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<p>content</p>", input.SafeHTML(`<p onclick="x()">content</p>`))
	assert.Equal(t, "click", input.SafeHTML(`<a href="javascript:alert('xss')">click</a>`))
	assert.Equal(t, `<a href="https://example.com" rel="nofollow">link</a>`, input.SafeHTML(`<a href="https://example.com">link</a>`))
}
