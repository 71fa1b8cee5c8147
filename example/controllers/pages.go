package controllers

import "github.com/dmitrymomot/colony"

// pages lists the markdown views that may be shown.
var pages = map[string]bool{
	"about":   true,
	"privacy": true,
}

// NewPages returns the static pages controller factory.
func NewPages() colony.ControllerFactory {
	return colony.Static(colony.Methods{
		"show": func(c *colony.Context, extra colony.Extra) error {
			page := extra.String()
			if !pages[page] {
				return colony.ErrNotFound("page not found")
			}
			c.SetView("pages/" + page)
			return nil
		},
	})
}
