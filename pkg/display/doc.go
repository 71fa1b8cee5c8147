// Package display is the view rendering boundary.
//
// A [Renderer] turns a view name such as "user/edit" and a data map into a
// response body. Two backends are provided:
//
//   - [FS] reads views from a file system: "name.html" files are
//     html/template documents, "name.md" files are markdown documents
//     (text/template first, then goldmark) with optional YAML front matter,
//     wrapped in "layout.html" when present.
//   - [Templ] serves components built with github.com/a-h/templ, registered
//     by view name.
//
// [Open] picks a backend by name from configuration.
//
// Views rendered by [FS] can use these template functions:
//
//	formatError  renders field errors as an HTML list; uses the "erroritem"
//	             view when present
//	safeHTML     keeps basic formatting tags and strips the rest
//	markdown     converts a markdown string to HTML
package display
