package route_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony/pkg/route"
)

const routingYAML = `
routing:
  - pattern: '^/profile/(\d+)$'
    action: user
    method: view
    extra: 1
  - pattern: '/archive/(\d{4})/(\d{2})'
    action: blog
    method: archive
    extra: [1, 2]
  - pattern: '/tag/(\w+)'
    action: blog
    extra: [1]
  - pattern: '/about'
    action: pages
    method: show
    extra: about
  - pattern: '/(\w+)-(\w+)'
    action: 1
    method: 2
`

func TestLoadRules(t *testing.T) {
	t.Parallel()

	rules, err := route.LoadRules(strings.NewReader(routingYAML))
	require.NoError(t, err)
	require.Len(t, rules, 5)
	assert.Equal(t, `^/profile/(\d+)$`, rules[0].Pattern())

	tests := []struct {
		path     string
		want     string
		sequence bool
	}{
		{path: "/profile/17", want: "user/view/17"},
		{path: "/archive/2023/11", want: "blog/archive/2023/11", sequence: true},
		{path: "/tag/go", want: "blog//go", sequence: true},
		{path: "/about", want: "pages/show/about"},
		{path: "/orders-list", want: "orders/list"},
		{path: "/user/edit/1", want: "user/edit/1"},
	}

	for _, tt := range tests {
		r := route.Match(tt.path, "/", rules, "index")
		assert.Equal(t, tt.want, r.String(), "path %q", tt.path)
		assert.Equal(t, tt.sequence, r.Extra.IsSequence(), "path %q", tt.path)
	}
}

func TestLoadRules_Empty(t *testing.T) {
	t.Parallel()

	rules, err := route.LoadRules(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestLoadRules_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{
			name: "bad regexp",
			doc:  "routing:\n  - pattern: '(unclosed'\n    action: x\n",
			err:  route.ErrInvalidRule,
		},
		{
			name: "group out of range",
			doc:  "routing:\n  - pattern: '/a/(\\d+)'\n    action: x\n    extra: 2\n",
			err:  route.ErrInvalidField,
		},
		{
			name: "mapping field",
			doc:  "routing:\n  - pattern: '/a'\n    action: {nested: true}\n",
			err:  route.ErrInvalidField,
		},
		{
			name: "not yaml",
			doc:  "routing: [",
			err:  route.ErrReadRules,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := route.LoadRules(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadRulesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(routingYAML), 0o600))

	rules, err := route.LoadRulesFile(path)
	require.NoError(t, err)
	assert.Len(t, rules, 5)

	_, err = route.LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, route.ErrReadRules)
}

func TestNewRule_Invalid(t *testing.T) {
	t.Parallel()

	_, err := route.NewRule(`/x`, route.Mapping{Method: route.Group(-1)})
	require.ErrorIs(t, err, route.ErrInvalidField)

	assert.Panics(t, func() {
		route.MustRule(`[`, route.Mapping{})
	})
}

func TestField_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user", route.Literal("user").String())
	assert.Equal(t, "$2", route.Group(2).String())
	assert.Empty(t, route.Field{}.String())
}
