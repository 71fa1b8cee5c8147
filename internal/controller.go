package internal

import "github.com/dmitrymomot/colony/pkg/route"

// DefaultMethodName is invoked when the route has no method and the
// controller does not implement DefaultMethoder.
const DefaultMethodName = "main"

// MethodFunc handles one controller method. Returning the value of
// c.Redirect or c.Errors().Trap ends the request with a redirect.
type MethodFunc func(c *Context, extra route.Extra) error

// Methods maps method names to handlers. A Methods value is itself a
// Controller.
type Methods map[string]MethodFunc

// Methods implements Controller.
func (m Methods) Methods() Methods {
	return m
}

// Controller exposes the methods reachable as /{action}/{method}.
type Controller interface {
	Methods() Methods
}

// DefaultMethoder overrides DefaultMethodName.
type DefaultMethoder interface {
	DefaultMethod() string
}

// Setupper runs before the method on every request.
type Setupper interface {
	Setup(c *Context) error
}

// ControllerFactory builds a controller for one request. Controllers are
// never reused across requests.
type ControllerFactory func(c *Context) (Controller, error)

// Static returns a factory that always yields ctrl. Use it for stateless
// controllers.
func Static(ctrl Controller) ControllerFactory {
	return func(*Context) (Controller, error) {
		return ctrl, nil
	}
}

func defaultMethod(ctrl Controller) string {
	if d, ok := ctrl.(DefaultMethoder); ok {
		if m := d.DefaultMethod(); m != "" {
			return m
		}
	}
	return DefaultMethodName
}
