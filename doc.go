// Package colony is a small MVC web framework. A request path is resolved
// into an action, a method and an optional extra value; the action names a
// controller, the method is called with the extra, and the view
// "{action}/{method}" is rendered with whatever the controller set.
//
// # Quick Start
//
// Load the configuration, register controllers and call Run:
//
//	cfg, err := colony.LoadConfig("app/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app, err := colony.New(ctx, cfg,
//	    colony.WithLogger(logger.New(logger.Config{})),
//	    colony.WithController("user", colony.Static(&UserController{})),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routing
//
// Without routing rules "/user/edit/42" dispatches to the "edit" method of
// the "user" controller with extra "42". An empty action falls back to
// default_action and an empty method to the controller default ("main").
//
// Rules in the configuration are tried in order; the first whose pattern
// matches the whole path decides the route:
//
//	routing:
//	  - pattern: '^/profile/(\d+)$'
//	    action: user
//	    method: view
//	    extra: 1
//
// Integers refer to capture groups, strings are literals.
//
// # Controllers
//
// A controller maps method names to functions:
//
//	type UserController struct{}
//
//	func (u *UserController) Methods() colony.Methods {
//	    return colony.Methods{
//	        "edit": u.edit,
//	        "save": u.save,
//	    }
//	}
//
//	func (u *UserController) save(c *colony.Context, extra colony.Extra) error {
//	    if c.Input().String("name") == "" {
//	        c.Errors().Add("name", "Name is required")
//	    }
//	    if err := c.Errors().Trap("/user/edit/" + extra.String()); err != nil {
//	        return err
//	    }
//	    return c.Redirect("/user/view/" + extra.String())
//	}
//
// Errors trapped before a redirect are shown by the next request only.
//
// # Failures
//
// Unknown actions render the "404" view. Any other failure is logged to the
// exception log, optionally emailed, and then either returned to the
// [ErrorHandler] (throw_exceptions) or rendered with the "error" view.
package colony
