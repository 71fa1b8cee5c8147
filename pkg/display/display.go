package display

import (
	"context"
	"io"
	"os"
	"path"
	"strings"
)

// Renderer renders named views.
type Renderer interface {
	// Render writes view to w using data.
	// Returns ErrViewNotFound when the view does not exist.
	Render(ctx context.Context, w io.Writer, view string, data map[string]any) error
	// Has reports whether view exists.
	Has(view string) bool
}

// Backend names accepted by Open.
const (
	BackendTemplate = "template"
	BackendTempl    = "templ"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string `env:"DISPLAY_BACKEND" envDefault:"template"`
	ViewsDir string `env:"VIEWS_DIR" envDefault:"app/views"`
}

// Open builds the backend named by cfg.Backend. Components are used by the
// templ backend only.
func Open(cfg Config, components map[string]ComponentFunc) (Renderer, error) {
	switch cfg.Backend {
	case "", BackendTemplate:
		dir := cfg.ViewsDir
		if dir == "" {
			dir = "app/views"
		}
		return NewFS(os.DirFS(dir)), nil
	case BackendTempl:
		return NewTempl(components), nil
	default:
		return nil, ErrUnknownBackend
	}
}

// cleanView validates a view name and returns it in slash form without
// leading or trailing slashes.
func cleanView(view string) (string, bool) {
	v := strings.Trim(view, "/")
	if v == "" {
		return "", false
	}
	v = path.Clean(v)
	if v == "." || v == ".." || strings.HasPrefix(v, "../") {
		return "", false
	}
	return v, true
}
