package display

import (
	"bytes"
	"html/template"
	"maps"
	"slices"

	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/colony/pkg/errorbag"
	"github.com/dmitrymomot/colony/pkg/input"
)

// ErrorItemView is rendered by formatError with {"erroritems": messages}
// when the backend has it.
const ErrorItemView = "erroritem"

// errorMessages flattens errs for id, or every group in key order when id
// is empty.
func errorMessages(errs map[string][]string, id string) []string {
	if id != "" {
		return errs[id]
	}
	var out []string
	for _, k := range slices.Sorted(maps.Keys(errs)) {
		out = append(out, errs[k]...)
	}
	return out
}

func safeHTML(s string) template.HTML {
	return template.HTML(input.SafeHTML(s))
}

func markdownFunc(md goldmark.Markdown) func(string) (template.HTML, error) {
	return func(s string) (template.HTML, error) {
		var buf bytes.Buffer
		if err := md.Convert([]byte(s), &buf); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil
	}
}

func defaultFormatError(errs map[string][]string, id ...string) template.HTML {
	var key string
	if len(id) > 0 {
		key = id[0]
	}
	return errorbag.FormatList(errorMessages(errs, key))
}
