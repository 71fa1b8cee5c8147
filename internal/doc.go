// Package internal implements the application core re-exported by the root
// colony package: the App, the per-request Context, the controller contracts
// and the Dispatcher with its exception policy.
//
// A request flows through these steps:
//
//  1. route.Matcher resolves the URL to action, method and extra.
//  2. An unknown action gets the "404" view, ErrRouteNotFound (when
//     exceptions are thrown) or a bare 404.
//  3. The Context is built: input snapshot, session, error bag.
//  4. The registered factory builds the controller; the method defaults to
//     DefaultMethod() or "main".
//  5. Setup runs when implemented, then the method with the route's extra.
//  6. CompleteDispatch saves the session and exposes the errors to the view.
//  7. The "{action}/{method}" view is rendered into a buffer and written.
//
// A method returning c.Redirect(...) or c.Errors().Trap(...) saves the
// session and ends the request with a 302 instead of rendering.
//
// Any other failure goes through the exception policy: log (file sink and
// logger), email, then either return the error to the App's ErrorHandler
// (throw_exceptions) or render the "error" view or a <pre> dump.
package internal
