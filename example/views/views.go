// Package views embeds the example application's templates.
package views

import "embed"

//go:embed *.html contacts pages index
var FS embed.FS
