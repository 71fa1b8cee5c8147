package display

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"maps"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// LayoutView wraps markdown views when present.
const LayoutView = "layout"

// FS renders html/template and markdown views from a file system.
// Parsed views are cached; FS is safe for concurrent use.
type FS struct {
	fsys  fs.FS
	md    goldmark.Markdown
	cache map[string]*parsedView
	mu    sync.RWMutex
}

type parsedView struct {
	html *template.Template
	text *texttemplate.Template // markdown body
	meta map[string]any
}

// NewFS creates a renderer over fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{
		fsys:  fsys,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		cache: make(map[string]*parsedView),
	}
}

// Has reports whether "view.html" or "view.md" exists.
func (r *FS) Has(view string) bool {
	name, ok := cleanView(view)
	if !ok {
		return false
	}

	r.mu.RLock()
	_, cached := r.cache[name]
	r.mu.RUnlock()
	if cached {
		return true
	}

	for _, ext := range []string{".html", ".md"} {
		if _, err := fs.Stat(r.fsys, name+ext); err == nil {
			return true
		}
	}
	return false
}

// Render implements Renderer.
func (r *FS) Render(ctx context.Context, w io.Writer, view string, data map[string]any) error {
	name, ok := cleanView(view)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidViewName, view)
	}

	v, err := r.load(name)
	if err != nil {
		return err
	}

	if v.html != nil {
		if err := v.html.Execute(w, data); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
		}
		return nil
	}

	var body bytes.Buffer
	if err := v.text.Execute(&body, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	var content bytes.Buffer
	if err := r.md.Convert(body.Bytes(), &content); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}

	if name == LayoutView || !r.Has(LayoutView) {
		_, err := w.Write(content.Bytes())
		return err
	}

	layoutData := make(map[string]any, len(data)+2)
	maps.Copy(layoutData, data)
	layoutData["content"] = template.HTML(content.String())
	layoutData["meta"] = v.meta
	return r.Render(ctx, w, LayoutView, layoutData)
}

// load returns a cached view or parses and caches it.
func (r *FS) load(name string) (*parsedView, error) {
	r.mu.RLock()
	if v, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return v, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if v, ok := r.cache[name]; ok {
		return v, nil
	}

	v, err := r.parse(name)
	if err != nil {
		return nil, err
	}
	r.cache[name] = v
	return v, nil
}

func (r *FS) parse(name string) (*parsedView, error) {
	if content, err := fs.ReadFile(r.fsys, name+".html"); err == nil {
		t, err := template.New(name).Funcs(r.funcs()).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
		}
		return &parsedView{html: t}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}

	content, err := fs.ReadFile(r.fsys, name+".md")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}

	meta, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, name)
	}
	t, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(r.funcs())).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRenderFailed, name, err)
	}
	return &parsedView{text: t, meta: meta}, nil
}

func (r *FS) funcs() template.FuncMap {
	return template.FuncMap{
		"formatError": r.formatError,
		"safeHTML":    safeHTML,
		"markdown":    markdownFunc(r.md),
	}
}

// formatError renders the "erroritem" view when present, the default
// "<ul><li>" list otherwise.
func (r *FS) formatError(errs map[string][]string, id ...string) (template.HTML, error) {
	if !r.Has(ErrorItemView) {
		return defaultFormatError(errs, id...), nil
	}

	var key string
	if len(id) > 0 {
		key = id[0]
	}
	var buf bytes.Buffer
	err := r.Render(context.Background(), &buf, ErrorItemView, map[string]any{
		"erroritems": errorMessages(errs, key),
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
