package display

import (
	"context"
	"fmt"
	"io"
	"maps"

	"github.com/a-h/templ"
)

// ComponentFunc builds the templ component for a view from its data.
type ComponentFunc func(data map[string]any) templ.Component

// Templ renders registered templ components.
type Templ struct {
	components map[string]ComponentFunc
}

// NewTempl creates a renderer over components keyed by view name.
func NewTempl(components map[string]ComponentFunc) *Templ {
	c := make(map[string]ComponentFunc, len(components))
	maps.Copy(c, components)
	return &Templ{components: c}
}

// Has implements Renderer.
func (r *Templ) Has(view string) bool {
	name, ok := cleanView(view)
	if !ok {
		return false
	}
	_, ok = r.components[name]
	return ok
}

// Render implements Renderer.
func (r *Templ) Render(ctx context.Context, w io.Writer, view string, data map[string]any) error {
	name, ok := cleanView(view)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidViewName, view)
	}
	build, ok := r.components[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	if err := build(data).Render(ctx, w); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	return nil
}
