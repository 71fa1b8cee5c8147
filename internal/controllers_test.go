package internal_test

import (
	"errors"

	"github.com/dmitrymomot/colony/internal"
	"github.com/dmitrymomot/colony/pkg/route"
	"github.com/dmitrymomot/colony/pkg/session"
)

var errDatabaseDown = errors.New("database down")

type userController struct{}

func (userController) Methods() internal.Methods {
	return internal.Methods{
		"edit": func(c *internal.Context, extra route.Extra) error {
			c.Set("id", extra.String())
			return nil
		},
		"view": func(c *internal.Context, extra route.Extra) error {
			c.Set("id", extra.String())
			return nil
		},
		"save": func(c *internal.Context, _ route.Extra) error {
			if c.Input().String("name") == "" {
				c.Errors().Add("name", "Name is required")
			}
			if err := c.Errors().Trap("/user/edit/1"); err != nil {
				return err
			}
			return c.Redirect("/user/view/1")
		},
		"count": func(c *internal.Context, _ route.Extra) error {
			n := session.ValueOr(c.Session(), "count", float64(0)) + 1
			c.Session().SetValue("count", n)
			c.Set("count", n)
			return nil
		},
		"boom": func(*internal.Context, route.Extra) error {
			return errDatabaseDown
		},
		"panic": func(*internal.Context, route.Extra) error {
			panic("unexpected <nil>")
		},
		"missing": func(*internal.Context, route.Extra) error {
			return internal.ErrNotFound("no such user")
		},
	}
}

type blogController struct {
	setupErr error
}

func (b *blogController) Methods() internal.Methods {
	return internal.Methods{
		"list": func(*internal.Context, route.Extra) error { return nil },
	}
}

func (b *blogController) DefaultMethod() string { return "list" }

func (b *blogController) Setup(c *internal.Context) error {
	if b.setupErr != nil {
		return b.setupErr
	}
	if c.Input().Has("guest") {
		return c.Redirect("/login")
	}
	c.Set("setup", "ready")
	return nil
}

func controllers() map[string]internal.ControllerFactory {
	return map[string]internal.ControllerFactory{
		"index": internal.Static(internal.Methods{
			"main": func(*internal.Context, route.Extra) error { return nil },
		}),
		"user": internal.Static(userController{}),
		"blog": func(*internal.Context) (internal.Controller, error) {
			return &blogController{}, nil
		},
		"broken": func(*internal.Context) (internal.Controller, error) {
			return nil, errors.New("cannot build")
		},
	}
}
