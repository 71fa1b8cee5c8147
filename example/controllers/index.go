// Package controllers holds the example application's controllers.
package controllers

import (
	"fmt"

	"github.com/dmitrymomot/colony"
)

// NewIndex returns the home page controller factory.
func NewIndex() colony.ControllerFactory {
	return colony.Static(colony.Methods{
		"main": func(c *colony.Context, _ colony.Extra) error {
			rows, err := c.DB().Query(c.Context(), "SELECT COUNT(*) AS n FROM contacts")
			if err != nil {
				return fmt.Errorf("count contacts: %w", err)
			}
			if len(rows) > 0 {
				c.Set("count", rows[0]["n"])
			}
			return nil
		},
	})
}

// All returns every controller keyed by action.
func All() map[string]colony.ControllerFactory {
	return map[string]colony.ControllerFactory{
		"index":    NewIndex(),
		"contacts": NewContacts(),
		"pages":    NewPages(),
	}
}
