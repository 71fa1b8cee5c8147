package display

import "errors"

var (
	ErrViewNotFound       = errors.New("display: view not found")
	ErrRenderFailed       = errors.New("display: failed to render view")
	ErrUnknownBackend     = errors.New("display: unknown backend")
	ErrInvalidViewName    = errors.New("display: invalid view name")
	ErrInvalidFrontmatter = errors.New("display: invalid front matter")
)
